package study

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sortbench/internal/engines"
	"sortbench/internal/sorting"
)

// Mode decides what happens when a (case, engine) pair already has output.
type Mode string

const (
	// ModeKeep skips pairs whose output already exists.
	ModeKeep Mode = "keep"
	// ModeOverwrite reruns every pair, replacing prior output and run-time
	// records.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode validates a CLI mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeKeep, ModeOverwrite:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("study: unknown mode %q (want %q or %q)", s, ModeKeep, ModeOverwrite)
	}
}

// RunJob is one (case, engine) invocation handed to a Strategy.
type RunJob struct {
	Pair   Pair
	Engine engines.Engine
	Params engines.Params
	Mode   Mode
}

// RunOutcome reports what happened to one pair during a dispatch batch.
type RunOutcome struct {
	Pair     Pair
	Skipped  bool
	Duration time.Duration
	Err      error
}

// BatchReport summarizes a dispatch batch. A failed pair never aborts the
// batch; callers inspect Failures to learn what did not run.
type BatchReport struct {
	Outcomes []RunOutcome
}

// Failures returns the outcomes that carry an error.
func (r *BatchReport) Failures() []RunOutcome {
	var failed []RunOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Ran returns the number of pairs actually computed.
func (r *BatchReport) Ran() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && !o.Skipped {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of pairs left untouched by ModeKeep.
func (r *BatchReport) SkippedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Skipped {
			n++
		}
	}
	return n
}

// RunEngines invokes the named engines against every known case. Pair skip
// logic follows mode; scheduling is delegated to strat (Sequential when
// nil). Engine failures are recorded per pair in the returned report.
func (s *Study) RunEngines(ctx context.Context, engineNames []string, params map[string]engines.Params, mode Mode, strat Strategy) (*BatchReport, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}
	if mode != ModeKeep && mode != ModeOverwrite {
		return nil, fmt.Errorf("study: unknown mode %q", mode)
	}
	if strat == nil {
		strat = Sequential{}
	}

	resolved := make([]engines.Engine, 0, len(engineNames))
	for _, name := range engineNames {
		eng, err := engines.Lookup(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, eng)
	}

	var jobs []RunJob
	for _, caseName := range s.caseNames {
		for _, eng := range resolved {
			jobs = append(jobs, RunJob{
				Pair:   Pair{Case: caseName, Engine: eng.Name()},
				Engine: eng,
				Params: params[eng.Name()],
				Mode:   mode,
			})
		}
	}

	report := &BatchReport{Outcomes: strat.Execute(ctx, jobs, s.runOne)}

	for _, o := range report.Outcomes {
		if o.Err != nil {
			s.log.Error("engine run failed", "case", o.Pair.Case, "engine", o.Pair.Engine, "error", o.Err)
		}
	}

	// Pick up the new outputs.
	if err := s.Rescan(); err != nil {
		return report, err
	}
	return report, nil
}

// runOne computes a single pair: skip check, engine invocation, wall-clock
// bookkeeping, and persistence. A failing pair leaves no output and no
// run-time record, so it stays absent from the computed set.
func (s *Study) runOne(ctx context.Context, job RunJob) RunOutcome {
	out := RunOutcome{Pair: job.Pair}

	if job.Mode == ModeKeep {
		if _, err := os.Stat(s.sortingPath(job.Pair)); err == nil {
			out.Skipped = true
			s.log.Debug("pair already computed, keeping", "case", job.Pair.Case, "engine", job.Pair.Engine)
			return out
		}
	}

	rec, err := s.Recording(job.Pair.Case)
	if err != nil {
		out.Err = err
		return out
	}

	start := time.Now()
	result, err := job.Engine.Run(ctx, rec, job.Params)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("engine %q on case %q: %w", job.Pair.Engine, job.Pair.Case, err)
		return out
	}

	if err := sorting.Write(s.sortingPath(job.Pair), result); err != nil {
		out.Err = err
		return out
	}
	if err := s.writeRunLog(job.Pair, out.Duration); err != nil {
		out.Err = err
		return out
	}

	s.log.Info("pair computed",
		"case", job.Pair.Case, "engine", job.Pair.Engine,
		"units", result.NumUnits(), "run_time", out.Duration.Seconds())
	return out
}

// writeRunLog records the wall-clock duration next to the pair's output.
// First line format is the interoperability contract: "run_time: <seconds>".
func (s *Study) writeRunLog(p Pair, d time.Duration) error {
	line := fmt.Sprintf("run_time: %s\n", strconv.FormatFloat(d.Seconds(), 'f', 6, 64))
	if err := os.WriteFile(s.runLogPath(p), []byte(line), 0o644); err != nil {
		return fmt.Errorf("study: write run log for %s: %w", p, err)
	}
	return nil
}

// readRunLog parses the wall-clock seconds recorded for a pair.
func (s *Study) readRunLog(p Pair) (float64, error) {
	data, err := os.ReadFile(s.runLogPath(p))
	if err != nil {
		return 0, fmt.Errorf("study: read run log for %s: %w", p, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	value, found := strings.CutPrefix(line, "run_time:")
	if !found {
		return 0, fmt.Errorf("study: malformed run log for %s: %q", p, line)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("study: malformed run log for %s: %w", p, err)
	}
	return seconds, nil
}
