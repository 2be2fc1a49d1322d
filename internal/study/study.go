// Package study manages a folder-backed benchmark study: a fixed set of
// ground-truth cases, engine outputs discovered on disk, and the comparison
// and aggregation pipeline over them. Persistent storage is the source of
// truth; a Study value is a scanned view over it.
package study

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sortbench/internal/compare"
	"sortbench/internal/logging"
	"sortbench/internal/recording"
	"sortbench/internal/snr"
	"sortbench/internal/sorting"
)

// Pair identifies one engine output: the unit of idempotency for dispatch
// and the key of the comparison map.
type Pair struct {
	Case   string
	Engine string
}

func (p Pair) String() string { return p.Case + pairSep + p.Engine }

// CompareFunc scores one engine output against one ground truth.
type CompareFunc func(gt, engine *sorting.Sorting, exhaustive bool, opts compare.Options) *compare.Comparison

// SNRFunc computes per-unit signal quality for a case.
type SNRFunc func(rec *recording.Recording, gt *sorting.Sorting) (map[int]float64, error)

// Study is the in-memory view of one study folder.
type Study struct {
	folder string
	log    *slog.Logger

	scanned     bool
	caseNames   []string
	pairs       []Pair
	engineNames []string

	// Comparer and ComputeSNR are the external scoring collaborators,
	// replaceable in tests.
	Comparer   CompareFunc
	ComputeSNR SNRFunc
}

// CaseInput is the material needed to create one case: the recording to be
// processed and its ground-truth sorting.
type CaseInput struct {
	Recording   *recording.Recording
	GroundTruth *sorting.Sorting
}

// New opens an existing study folder and scans it. A folder without a
// ground_truth subfolder is malformed and the study cannot exist.
func New(folder string) (*Study, error) {
	s := &Study{
		folder:     folder,
		log:        logging.New("study"),
		Comparer:   compare.Run,
		ComputeSNR: snr.Compute,
	}
	if err := s.Rescan(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create builds a fresh study folder from the given cases and opens it.
// The folder must not already exist.
func Create(folder string, cases map[string]CaseInput) (*Study, error) {
	if _, err := os.Stat(folder); err == nil {
		return nil, fmt.Errorf("study: folder %q already exists", folder)
	}
	if len(cases) == 0 {
		return nil, ErrNoCases
	}

	s := &Study{folder: folder}
	for _, dir := range []string{
		filepath.Join(folder, groundTruthDir),
		filepath.Join(folder, sortingsDir, runLogDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("study: create layout: %w", err)
		}
	}

	for name, in := range cases {
		if err := validName(name); err != nil {
			return nil, err
		}
		if in.Recording == nil || in.GroundTruth == nil {
			return nil, fmt.Errorf("study: case %q needs both a recording and a ground truth", name)
		}
		if err := recording.Write(s.casePath(name), in.Recording); err != nil {
			return nil, fmt.Errorf("study: case %q: %w", name, err)
		}
		if err := sorting.Write(s.groundTruthPath(name), in.GroundTruth); err != nil {
			return nil, fmt.Errorf("study: case %q: %w", name, err)
		}
	}

	return New(folder)
}

// Folder returns the study root path.
func (s *Study) Folder() string { return s.folder }

// Rescan rebuilds the case, pair, and engine lists from disk. Safe to call
// repeatedly; an unchanged folder yields identical lists.
func (s *Study) Rescan() error {
	gtEntries, err := os.ReadDir(s.casePath(groundTruthDir))
	if err != nil {
		return fmt.Errorf("study: %q is not a study folder (no ground_truth): %w", s.folder, err)
	}

	caseNames := make([]string, 0, len(gtEntries))
	for _, e := range gtEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), archiveExt) {
			continue
		}
		caseNames = append(caseNames, strings.TrimSuffix(e.Name(), archiveExt))
	}
	sort.Strings(caseNames)

	known := make(map[string]bool, len(caseNames))
	for _, c := range caseNames {
		known[c] = true
	}

	// The sortings folder may be absent in a study that never dispatched.
	var pairs []Pair
	engineSet := make(map[string]bool)
	sortEntries, err := os.ReadDir(s.casePath(sortingsDir))
	if err == nil {
		seen := make(map[Pair]bool)
		for _, e := range sortEntries {
			if e.IsDir() {
				continue
			}
			p, ok := parsePairName(e.Name(), archiveExt)
			if !ok || !known[p.Case] || seen[p] {
				continue
			}
			seen[p] = true
			pairs = append(pairs, p)
			engineSet[p.Engine] = true
		}
	}
	sortPairs(pairs)

	engineNames := make([]string, 0, len(engineSet))
	for e := range engineSet {
		engineNames = append(engineNames, e)
	}
	sort.Strings(engineNames)

	s.caseNames = caseNames
	s.pairs = pairs
	s.engineNames = engineNames
	s.scanned = true
	return nil
}

func (s *Study) ensureScanned() error {
	if s.scanned {
		return nil
	}
	return s.Rescan()
}

// sortPairs orders pairs by (case, engine) so every consumer sees the same
// sequence regardless of directory read order.
func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Case != pairs[j].Case {
			return pairs[i].Case < pairs[j].Case
		}
		return pairs[i].Engine < pairs[j].Engine
	})
}

// CaseNames returns the scanned case names in ascending order.
func (s *Study) CaseNames() ([]string, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.caseNames...), nil
}

// EngineNames returns the engines that have produced output for at least one
// case, ascending and de-duplicated.
func (s *Study) EngineNames() ([]string, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.engineNames...), nil
}

// ComputedPairs returns the discovered (case, engine) pairs in (case,
// engine) order.
func (s *Study) ComputedPairs() ([]Pair, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	return append([]Pair(nil), s.pairs...), nil
}

// ResolveCase maps an optional case name to a known one. An empty name
// selects the single case when exactly one exists; with several cases the
// caller must choose. Explicit names must match exactly.
func (s *Study) ResolveCase(name string) (string, error) {
	if err := s.ensureScanned(); err != nil {
		return "", err
	}
	if name == "" {
		switch len(s.caseNames) {
		case 0:
			return "", ErrNoCases
		case 1:
			return s.caseNames[0], nil
		default:
			return "", ErrAmbiguousCase
		}
	}
	for _, c := range s.caseNames {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCase, name)
}

// GroundTruth loads the ground-truth sorting for a case.
func (s *Study) GroundTruth(caseName string) (*sorting.Sorting, error) {
	caseName, err := s.ResolveCase(caseName)
	if err != nil {
		return nil, err
	}
	return sorting.Read(s.groundTruthPath(caseName))
}

// Recording loads the recording for a case.
func (s *Study) Recording(caseName string) (*recording.Recording, error) {
	caseName, err := s.ResolveCase(caseName)
	if err != nil {
		return nil, err
	}
	return recording.Load(s.casePath(caseName))
}

// Output loads the sorting an engine produced for a case, or ErrNotComputed
// when the pair has no output on disk.
func (s *Study) Output(engineName, caseName string) (*sorting.Sorting, error) {
	caseName, err := s.ResolveCase(caseName)
	if err != nil {
		return nil, err
	}
	p := Pair{Case: caseName, Engine: engineName}
	if _, err := os.Stat(s.sortingPath(p)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotComputed, p)
	}
	return sorting.Read(s.sortingPath(p))
}
