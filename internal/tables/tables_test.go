package tables

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendChecksSchema(t *testing.T) {
	tb := New("run_times", "case_name", "engine_name", "run_time")
	if err := tb.Append("rec0", "threshold", "1.5"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tb.Append("rec0", "threshold"); err == nil {
		t.Fatal("Append with missing cell: want error, got nil")
	}
	if got := tb.NumRows(); got != 1 {
		t.Errorf("NumRows: got %d, want 1", got)
	}
}

func TestWriteTSV(t *testing.T) {
	tb := New("count_units", "case_name", "engine_name", "num_gt")
	if err := tb.Append("rec0", "threshold", "3"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tb.Append("rec1", "threshold", "5"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "tables")
	if err := tb.WriteTSV(dir); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "count_units.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "case_name\tengine_name\tnum_gt\nrec0\tthreshold\t3\nrec1\tthreshold\t5\n"
	if string(data) != want {
		t.Errorf("file content:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestWriteTSVOverwrites(t *testing.T) {
	dir := t.TempDir()

	tb := New("run_times", "case_name")
	if err := tb.Append("old"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tb.WriteTSV(dir); err != nil {
		t.Fatalf("first WriteTSV: %v", err)
	}

	tb2 := New("run_times", "case_name")
	if err := tb2.Append("new"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tb2.WriteTSV(dir); err != nil {
		t.Fatalf("second WriteTSV: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run_times.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if want := "case_name\nnew\n"; string(data) != want {
		t.Errorf("file content: got %q, want %q", string(data), want)
	}
}

func TestFloatRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1.5, 2.0 / 3} {
		s := Float(v)
		if s == "" {
			t.Fatalf("Float(%v) is empty", v)
		}
	}
	if got := Int(42); got != "42" {
		t.Errorf("Int(42): got %q", got)
	}
}
