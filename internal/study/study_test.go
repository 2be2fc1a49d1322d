package study

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sortbench/internal/engines"
	"sortbench/internal/recording"
	"sortbench/internal/sorting"
)

// testGroundTruth builds the shared three-unit ground truth.
func testGroundTruth() *sorting.Sorting {
	gt := sorting.New(30000)
	gt.SetUnit(0, []int64{100, 600, 1100})
	gt.SetUnit(1, []int64{200, 700})
	gt.SetUnit(2, []int64{300, 800, 1300})
	return gt
}

// testCaseInput builds a small one-channel recording with spikes at the
// ground-truth frames plus the ground truth itself.
func testCaseInput(t *testing.T) CaseInput {
	t.Helper()

	gt := testGroundTruth()
	samples := make([][]float32, 2000)
	for i := range samples {
		v := float32(1)
		if i%2 == 1 {
			v = -1
		}
		samples[i] = []float32{v}
	}
	for _, id := range gt.UnitIDs() {
		train, _ := gt.Train(id)
		for _, f := range train {
			samples[f][0] = 10
		}
	}

	rec, err := recording.New(30000, samples)
	if err != nil {
		t.Fatalf("recording.New: %v", err)
	}
	return CaseInput{Recording: rec, GroundTruth: gt}
}

// newTestStudy creates a fresh study folder holding the named cases.
func newTestStudy(t *testing.T, caseNames ...string) *Study {
	t.Helper()

	cases := make(map[string]CaseInput, len(caseNames))
	for _, n := range caseNames {
		cases[n] = testCaseInput(t)
	}
	st, err := Create(filepath.Join(t.TempDir(), "study"), cases)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return st
}

// fakeEngine is a registerable engine with scripted behavior.
type fakeEngine struct {
	name string
	fail bool

	mu    sync.Mutex
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Run(ctx context.Context, rec *recording.Recording, params engines.Params) (*sorting.Sorting, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return nil, errors.New("scripted failure")
	}
	return testGroundTruth(), nil
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// registerFake registers a fresh fake engine under a test-unique name.
func registerFake(t *testing.T, suffix string, fail bool) *fakeEngine {
	t.Helper()
	fe := &fakeEngine{name: "fake-" + suffix, fail: fail}
	engines.Register(fe)
	return fe
}

func TestCreateRejectsExistingFolder(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(dir, map[string]CaseInput{"rec0": testCaseInput(t)}); err == nil {
		t.Fatal("Create over existing folder: want error, got nil")
	}
}

func TestCreateRejectsReservedNames(t *testing.T) {
	for _, name := range []string{"", "a[#]b", "ground_truth", "a/b"} {
		cases := map[string]CaseInput{name: testCaseInput(t)}
		if _, err := Create(filepath.Join(t.TempDir(), "study"), cases); err == nil {
			t.Errorf("Create with case name %q: want error, got nil", name)
		}
	}
}

func TestNewRequiresGroundTruthFolder(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("New on folder without ground_truth: want error, got nil")
	}
}

func TestResolveCaseSingle(t *testing.T) {
	st := newTestStudy(t, "rec0")

	got, err := st.ResolveCase("")
	if err != nil {
		t.Fatalf("ResolveCase(\"\"): %v", err)
	}
	if got != "rec0" {
		t.Errorf("got %q, want %q", got, "rec0")
	}
}

func TestResolveCaseAmbiguous(t *testing.T) {
	st := newTestStudy(t, "rec0", "rec1")

	if _, err := st.ResolveCase(""); !errors.Is(err, ErrAmbiguousCase) {
		t.Errorf("ResolveCase(\"\"): got %v, want ErrAmbiguousCase", err)
	}

	got, err := st.ResolveCase("rec1")
	if err != nil {
		t.Fatalf("ResolveCase(rec1): %v", err)
	}
	if got != "rec1" {
		t.Errorf("got %q, want %q", got, "rec1")
	}
}

func TestResolveCaseUnknown(t *testing.T) {
	st := newTestStudy(t, "rec0")

	if _, err := st.ResolveCase("nope"); !errors.Is(err, ErrUnknownCase) {
		t.Errorf("ResolveCase(nope): got %v, want ErrUnknownCase", err)
	}
}

func TestRescanIdempotent(t *testing.T) {
	st := newTestStudy(t, "rec0", "rec1")
	fe := registerFake(t, "scan", false)

	if _, err := st.RunEngines(context.Background(), []string{fe.name}, nil, ModeKeep, nil); err != nil {
		t.Fatalf("RunEngines: %v", err)
	}

	cases1, _ := st.CaseNames()
	engines1, _ := st.EngineNames()
	pairs1, _ := st.ComputedPairs()

	if err := st.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	cases2, _ := st.CaseNames()
	engines2, _ := st.EngineNames()
	pairs2, _ := st.ComputedPairs()

	if diff := cmp.Diff(cases1, cases2); diff != "" {
		t.Errorf("case names changed across rescans (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(engines1, engines2); diff != "" {
		t.Errorf("engine names changed across rescans (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(pairs1, pairs2); diff != "" {
		t.Errorf("pairs changed across rescans (-first +second):\n%s", diff)
	}

	wantPairs := []Pair{
		{Case: "rec0", Engine: fe.name},
		{Case: "rec1", Engine: fe.name},
	}
	if diff := cmp.Diff(wantPairs, pairs1); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestGroundTruthRoundTrip(t *testing.T) {
	st := newTestStudy(t, "rec0")

	gt, err := st.GroundTruth("")
	if err != nil {
		t.Fatalf("GroundTruth: %v", err)
	}
	if diff := cmp.Diff(testGroundTruth().UnitIDs(), gt.UnitIDs()); diff != "" {
		t.Errorf("unit ids mismatch (-want +got):\n%s", diff)
	}

	rec, err := st.Recording("")
	if err != nil {
		t.Fatalf("Recording: %v", err)
	}
	if got := rec.NumFrames(); got != 2000 {
		t.Errorf("NumFrames: got %d, want 2000", got)
	}
}

func TestOutputAbsent(t *testing.T) {
	st := newTestStudy(t, "rec0")

	if _, err := st.Output("never-ran", ""); !errors.Is(err, ErrNotComputed) {
		t.Errorf("Output of missing pair: got %v, want ErrNotComputed", err)
	}
}
