package study

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sortbench/internal/tables"
)

// UnitSNR is one row of the per-case SNR metric, keyed by ground-truth unit.
type UnitSNR struct {
	GTUnitID int
	SNR      float64
}

// UnitsSNR loads or computes the per-unit SNR for a case. A cache file under
// <study>/metrics is authoritative once written; staleness against a changed
// ground truth is the caller's responsibility.
func (s *Study) UnitsSNR(caseName string) ([]UnitSNR, error) {
	caseName, err := s.ResolveCase(caseName)
	if err != nil {
		return nil, err
	}

	path := s.metricsPath(caseName)
	if _, err := os.Stat(path); err == nil {
		return readSNRFile(path)
	}

	rec, err := s.Recording(caseName)
	if err != nil {
		return nil, err
	}
	gt, err := s.GroundTruth(caseName)
	if err != nil {
		return nil, err
	}
	values, err := s.ComputeSNR(rec, gt)
	if err != nil {
		return nil, fmt.Errorf("study: compute snr for %q: %w", caseName, err)
	}

	rows := make([]UnitSNR, 0, len(values))
	for id, v := range values {
		rows = append(rows, UnitSNR{GTUnitID: id, SNR: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].GTUnitID < rows[j].GTUnitID })

	if err := writeSNRFile(path, rows); err != nil {
		return nil, err
	}
	s.log.Info("snr computed and cached", "case", caseName, "units", len(rows))
	return rows, nil
}

// writeSNRFile persists the metric as tab-delimited text with a
// [gt_unit_id, snr] header, the cache file contract.
func writeSNRFile(path string, rows []UnitSNR) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("study: create metrics dir: %w", err)
	}
	var b strings.Builder
	b.WriteString("gt_unit_id\tsnr\n")
	for _, r := range rows {
		b.WriteString(tables.Int(r.GTUnitID))
		b.WriteByte('\t')
		b.WriteString(tables.Float(r.SNR))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("study: write snr cache: %w", err)
	}
	return nil
}

func readSNRFile(path string) ([]UnitSNR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("study: read snr cache: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "gt_unit_id\t") {
		return nil, fmt.Errorf("study: malformed snr cache %q", path)
	}

	rows := make([]UnitSNR, 0, len(lines)-1)
	for _, line := range lines[1:] {
		idCell, snrCell, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("study: malformed snr row %q in %q", line, path)
		}
		id, err := strconv.Atoi(idCell)
		if err != nil {
			return nil, fmt.Errorf("study: malformed snr row %q in %q: %w", line, path, err)
		}
		v, err := strconv.ParseFloat(snrCell, 64)
		if err != nil {
			return nil, fmt.Errorf("study: malformed snr row %q in %q: %w", line, path, err)
		}
		rows = append(rows, UnitSNR{GTUnitID: id, SNR: v})
	}
	return rows, nil
}
