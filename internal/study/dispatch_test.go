package study

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunEnginesUnknownEngineAborts(t *testing.T) {
	st := newTestStudy(t, "rec0")

	if _, err := st.RunEngines(context.Background(), []string{"no-such-engine"}, nil, ModeKeep, nil); err == nil {
		t.Fatal("dispatch with unregistered engine: want error, got nil")
	}
	pairs, _ := st.ComputedPairs()
	if len(pairs) != 0 {
		t.Errorf("pairs after aborted dispatch: got %v, want none", pairs)
	}
}

func TestRunEnginesKeepSkipsExisting(t *testing.T) {
	st := newTestStudy(t, "rec0", "rec1")
	fe := registerFake(t, "keep", false)

	report, err := st.RunEngines(context.Background(), []string{fe.name}, nil, ModeKeep, nil)
	if err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if got := report.Ran(); got != 2 {
		t.Fatalf("first dispatch Ran: got %d, want 2", got)
	}
	if got := fe.callCount(); got != 2 {
		t.Fatalf("engine calls after first dispatch: got %d, want 2", got)
	}

	// Plant a sentinel run log; keep mode must leave it untouched.
	p := Pair{Case: "rec0", Engine: fe.name}
	sentinel := "run_time: 99999.000000\n"
	if err := os.WriteFile(st.runLogPath(p), []byte(sentinel), 0o644); err != nil {
		t.Fatalf("write sentinel: %v", err)
	}

	report, err = st.RunEngines(context.Background(), []string{fe.name}, nil, ModeKeep, nil)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if got := report.SkippedCount(); got != 2 {
		t.Errorf("second dispatch SkippedCount: got %d, want 2", got)
	}
	if got := report.Ran(); got != 0 {
		t.Errorf("second dispatch Ran: got %d, want 0", got)
	}
	if got := fe.callCount(); got != 2 {
		t.Errorf("engine calls after keep rerun: got %d, want still 2", got)
	}

	data, err := os.ReadFile(st.runLogPath(p))
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if string(data) != sentinel {
		t.Errorf("keep mode rewrote run log: got %q, want %q", data, sentinel)
	}
}

func TestRunEnginesOverwriteRecomputes(t *testing.T) {
	st := newTestStudy(t, "rec0")
	fe := registerFake(t, "overwrite", false)

	if _, err := st.RunEngines(context.Background(), []string{fe.name}, nil, ModeKeep, nil); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	p := Pair{Case: "rec0", Engine: fe.name}
	sentinel := "run_time: 99999.000000\n"
	if err := os.WriteFile(st.runLogPath(p), []byte(sentinel), 0o644); err != nil {
		t.Fatalf("write sentinel: %v", err)
	}

	report, err := st.RunEngines(context.Background(), []string{fe.name}, nil, ModeOverwrite, nil)
	if err != nil {
		t.Fatalf("overwrite dispatch: %v", err)
	}
	if got := report.Ran(); got != 1 {
		t.Errorf("overwrite Ran: got %d, want 1", got)
	}
	if got := fe.callCount(); got != 2 {
		t.Errorf("engine calls after overwrite: got %d, want 2", got)
	}

	seconds, err := st.readRunLog(p)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if seconds >= 99999 {
		t.Errorf("overwrite left the stale run time in place: %v", seconds)
	}
}

func TestRunEnginesFailureLeavesNoTrace(t *testing.T) {
	st := newTestStudy(t, "rec0")
	good := registerFake(t, "mixed-good", false)
	bad := registerFake(t, "mixed-bad", true)

	report, err := st.RunEngines(context.Background(), []string{good.name, bad.name}, nil, ModeKeep, nil)
	if err != nil {
		t.Fatalf("RunEngines: %v", err)
	}

	failures := report.Failures()
	if len(failures) != 1 {
		t.Fatalf("Failures: got %d, want 1", len(failures))
	}
	if failures[0].Pair.Engine != bad.name {
		t.Errorf("failed engine: got %q, want %q", failures[0].Pair.Engine, bad.name)
	}
	if got := report.Ran(); got != 1 {
		t.Errorf("Ran: got %d, want 1", got)
	}

	badPair := Pair{Case: "rec0", Engine: bad.name}
	if _, err := os.Stat(st.sortingPath(badPair)); err == nil {
		t.Error("failed pair left an output file behind")
	}
	if _, err := os.Stat(st.runLogPath(badPair)); err == nil {
		t.Error("failed pair left a run log behind")
	}

	pairs, _ := st.ComputedPairs()
	want := []Pair{{Case: "rec0", Engine: good.name}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("computed pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := newTestStudy(t, "rec0", "rec1", "rec2")
	par := newTestStudy(t, "rec0", "rec1", "rec2")
	feSeq := registerFake(t, "strategy-seq", false)
	fePar := registerFake(t, "strategy-par", false)

	if _, err := seq.RunEngines(context.Background(), []string{feSeq.name}, nil, ModeKeep, Sequential{}); err != nil {
		t.Fatalf("sequential dispatch: %v", err)
	}
	if _, err := par.RunEngines(context.Background(), []string{fePar.name}, nil, ModeKeep, Parallel{Workers: 3}); err != nil {
		t.Fatalf("parallel dispatch: %v", err)
	}

	seqPairs, _ := seq.ComputedPairs()
	parPairs, _ := par.ComputedPairs()
	if len(seqPairs) != len(parPairs) {
		t.Fatalf("pair counts differ: sequential %d, parallel %d", len(seqPairs), len(parPairs))
	}
	for i := range seqPairs {
		if seqPairs[i].Case != parPairs[i].Case {
			t.Errorf("pair %d case: sequential %q, parallel %q", i, seqPairs[i].Case, parPairs[i].Case)
		}
	}
	if got := fePar.callCount(); got != 3 {
		t.Errorf("parallel engine calls: got %d, want 3", got)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("keep"); err != nil {
		t.Errorf("ParseMode(keep): %v", err)
	}
	if _, err := ParseMode("overwrite"); err != nil {
		t.Errorf("ParseMode(overwrite): %v", err)
	}
	if _, err := ParseMode("replace"); err == nil {
		t.Error("ParseMode(replace): want error, got nil")
	}
}
