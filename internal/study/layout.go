package study

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Study folder layout. The naming conventions below are the persistence
// contract: any process that follows them can read or extend a study.
//
//	<study>/ground_truth/<case>.json        ground-truth sorting archive
//	<study>/<case>/recording.{json,dat}     recording metadata + raw samples
//	<study>/sortings/<case>[#]<engine>.json engine output archive
//	<study>/sortings/run_log/<case>[#]<engine>.txt  wall-clock record
//	<study>/metrics/SNR <case>.txt          cached per-unit SNR
//	<study>/tables/<name>.csv               aggregated tables, tab-delimited
const (
	groundTruthDir = "ground_truth"
	sortingsDir    = "sortings"
	runLogDir      = "run_log"
	metricsDir     = "metrics"
	tablesDir      = "tables"

	// pairSep joins case and engine names in output filenames. Neither name
	// may contain it.
	pairSep = "[#]"

	archiveExt = ".json"
	runLogExt  = ".txt"
)

func (s *Study) groundTruthPath(caseName string) string {
	return filepath.Join(s.folder, groundTruthDir, caseName+archiveExt)
}

func (s *Study) casePath(caseName string) string {
	return filepath.Join(s.folder, caseName)
}

func (s *Study) sortingPath(p Pair) string {
	return filepath.Join(s.folder, sortingsDir, p.Case+pairSep+p.Engine+archiveExt)
}

func (s *Study) runLogPath(p Pair) string {
	return filepath.Join(s.folder, sortingsDir, runLogDir, p.Case+pairSep+p.Engine+runLogExt)
}

func (s *Study) metricsPath(caseName string) string {
	return filepath.Join(s.folder, metricsDir, "SNR "+caseName+runLogExt)
}

func (s *Study) tablesPath() string {
	return filepath.Join(s.folder, tablesDir)
}

// parsePairName splits "<case>[#]<engine><ext>" into its pair. Returns false
// for filenames outside the convention.
func parsePairName(filename, ext string) (Pair, bool) {
	if !strings.HasSuffix(filename, ext) {
		return Pair{}, false
	}
	stem := strings.TrimSuffix(filename, ext)
	caseName, engineName, found := strings.Cut(stem, pairSep)
	if !found || caseName == "" || engineName == "" {
		return Pair{}, false
	}
	return Pair{Case: caseName, Engine: engineName}, true
}

// validName rejects names that would break the filename conventions or
// escape the study folder.
func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("study: empty name")
	case strings.Contains(name, pairSep):
		return fmt.Errorf("study: name %q contains reserved separator %q", name, pairSep)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("study: name %q contains a path separator", name)
	case name == groundTruthDir || name == sortingsDir || name == metricsDir || name == tablesDir:
		return fmt.Errorf("study: name %q collides with a reserved study folder", name)
	}
	return nil
}
