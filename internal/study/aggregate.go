package study

import (
	"fmt"
	"sort"

	"sortbench/internal/compare"
	"sortbench/internal/tables"
)

// Table schemas. Fixed and ordered; the exhaustive variant of count_units
// appends two columns. Changing any of these is a format change for every
// downstream reader of <study>/tables.
var (
	runTimesColumns = []string{"case_name", "engine_name", "run_time"}

	perfByUnitsColumns = []string{
		"case_name", "engine_name", "gt_unit_id",
		"accuracy", "recall", "precision", "false_discovery_rate", "miss_rate",
	}

	countUnitsColumns = []string{
		"case_name", "engine_name",
		"num_gt", "num_engine", "num_well_detected", "num_redundant", "num_overmerged",
	}
	countUnitsExhaustiveColumns = append(
		append([]string(nil), countUnitsColumns...),
		"num_false_positive", "num_bad",
	)
)

// Tables bundles the three aggregated artifacts of a study.
type Tables struct {
	RunTimes    *tables.Table
	PerfByUnits *tables.Table
	CountUnits  *tables.Table
}

// All returns the tables in their canonical order.
func (t *Tables) All() []*tables.Table {
	return []*tables.Table{t.RunTimes, t.PerfByUnits, t.CountUnits}
}

// AggregateTables flattens a comparison set and the on-disk run-time records
// into the three study tables, each keyed and ordered by (case, engine,
// [gt unit]). A nil set fails with ErrNoComparisons. When persist is true the
// tables are also written under <study>/tables.
func (s *Study) AggregateTables(set *ComparisonSet, persist bool, thresholds compare.Thresholds) (*Tables, error) {
	if set == nil {
		return nil, ErrNoComparisons
	}
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}

	out := &Tables{
		RunTimes:    tables.New("run_times", runTimesColumns...),
		PerfByUnits: tables.New("perf_by_units", perfByUnitsColumns...),
		CountUnits:  tables.New("count_units", countUnitsColumns...),
	}
	if set.Exhaustive() {
		out.CountUnits = tables.New("count_units", countUnitsExhaustiveColumns...)
	}

	// run_times covers every discovered pair with a record on disk,
	// independent of the comparison set.
	for _, p := range s.pairs {
		seconds, err := s.readRunLog(p)
		if err != nil {
			s.log.Warn("pair has no readable run-time record", "case", p.Case, "engine", p.Engine, "error", err)
			continue
		}
		if err := out.RunTimes.Append(p.Case, p.Engine, tables.Float(seconds)); err != nil {
			return nil, err
		}
	}

	for _, p := range set.Pairs() {
		comp, _ := set.Get(p)

		perfs := comp.PerfByUnit()
		sort.Slice(perfs, func(i, j int) bool { return perfs[i].GTUnitID < perfs[j].GTUnitID })
		for _, perf := range perfs {
			err := out.PerfByUnits.Append(
				p.Case, p.Engine, tables.Int(perf.GTUnitID),
				tables.Float(perf.Accuracy), tables.Float(perf.Recall), tables.Float(perf.Precision),
				tables.Float(perf.FalseDiscoveryRate), tables.Float(perf.MissRate),
			)
			if err != nil {
				return nil, err
			}
		}

		cells := []string{
			p.Case, p.Engine,
			tables.Int(comp.NumGTUnits()),
			tables.Int(comp.NumEngineUnits()),
			tables.Int(comp.CountWellDetected(thresholds)),
			tables.Int(comp.CountRedundant(thresholds)),
			tables.Int(comp.CountOvermerged(thresholds)),
		}
		if set.Exhaustive() {
			cells = append(cells,
				tables.Int(comp.CountFalsePositive(thresholds)),
				tables.Int(comp.CountBad(thresholds)),
			)
		}
		if err := out.CountUnits.Append(cells...); err != nil {
			return nil, err
		}
	}

	if persist {
		for _, t := range out.All() {
			if err := t.WriteTSV(s.tablesPath()); err != nil {
				return nil, fmt.Errorf("study: persist tables: %w", err)
			}
		}
		s.log.Info("tables written", "dir", s.tablesPath())
	}

	return out, nil
}
