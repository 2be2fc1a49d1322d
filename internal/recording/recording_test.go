package recording

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRejectsRaggedFrames(t *testing.T) {
	_, err := New(30000, [][]float32{{1, 2}, {3}})
	if err == nil {
		t.Fatal("New with ragged frames: want error, got nil")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	samples := [][]float32{
		{0.5, -1.5},
		{2.25, 0},
		{-3.75, 4.125},
	}
	rec, err := New(30000, samples)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dir := t.TempDir()
	if err := Write(dir, rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := loaded.SampleRate(), 30000.0; got != want {
		t.Errorf("SampleRate: got %v, want %v", got, want)
	}
	if got, want := loaded.NumChannels(), 2; got != want {
		t.Errorf("NumChannels: got %d, want %d", got, want)
	}
	if got, want := loaded.NumFrames(), 3; got != want {
		t.Errorf("NumFrames: got %d, want %d", got, want)
	}
	if diff := cmp.Diff([]float32{-1.5, 0, 4.125}, loaded.Channel(1)); diff != "" {
		t.Errorf("channel 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleOutOfRangeIsZero(t *testing.T) {
	rec, err := New(30000, [][]float32{{1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := rec.Sample(-1, 0); got != 0 {
		t.Errorf("Sample(-1): got %v, want 0", got)
	}
	if got := rec.Sample(5, 0); got != 0 {
		t.Errorf("Sample(5): got %v, want 0", got)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load of empty dir: want error, got nil")
	}
}
