// Package recording holds the raw multichannel signal a sorting engine
// consumes. A recording persists as two files in a case folder:
// recording.json (sampling metadata) and recording.dat (row-major little
// endian float32 frames).
package recording

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	infoFile = "recording.json"
	dataFile = "recording.dat"
)

// Info is the sampling metadata persisted next to the raw samples.
type Info struct {
	SampleRate  float64 `json:"sample_rate"`
	NumChannels int     `json:"num_chan"`
	Dtype       string  `json:"dtype"`
	TimeAxis    int     `json:"time_axis"`
}

// Recording is an in-memory multichannel trace plus its metadata.
type Recording struct {
	info    Info
	samples [][]float32 // samples[frame][channel]
}

// New builds a recording from per-frame samples. Every frame must have the
// same channel count.
func New(sampleRate float64, samples [][]float32) (*Recording, error) {
	numChan := 0
	if len(samples) > 0 {
		numChan = len(samples[0])
	}
	for i, frame := range samples {
		if len(frame) != numChan {
			return nil, fmt.Errorf("recording: frame %d has %d channels, want %d", i, len(frame), numChan)
		}
	}
	return &Recording{
		info: Info{
			SampleRate:  sampleRate,
			NumChannels: numChan,
			Dtype:       "float32",
			TimeAxis:    0,
		},
		samples: samples,
	}, nil
}

// SampleRate returns the sampling frequency in Hz.
func (r *Recording) SampleRate() float64 { return r.info.SampleRate }

// NumChannels returns the channel count.
func (r *Recording) NumChannels() int { return r.info.NumChannels }

// NumFrames returns the frame count.
func (r *Recording) NumFrames() int { return len(r.samples) }

// Sample returns one sample. Out-of-range frames return 0 so callers can
// index around spike times near the trace edges without bounds juggling.
func (r *Recording) Sample(frame int64, channel int) float32 {
	if frame < 0 || frame >= int64(len(r.samples)) {
		return 0
	}
	return r.samples[frame][channel]
}

// Channel extracts one channel as a contiguous trace.
func (r *Recording) Channel(channel int) []float32 {
	trace := make([]float32, len(r.samples))
	for i, frame := range r.samples {
		trace[i] = frame[channel]
	}
	return trace
}

// Write persists the recording into dir as recording.json + recording.dat.
func Write(dir string, r *Recording) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recording: create case dir: %w", err)
	}

	data, err := json.MarshalIndent(&r.info, "", "  ")
	if err != nil {
		return fmt.Errorf("recording: marshal info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, infoFile), data, 0o644); err != nil {
		return fmt.Errorf("recording: write info: %w", err)
	}

	raw := make([]byte, 0, len(r.samples)*r.info.NumChannels*4)
	var buf [4]byte
	for _, frame := range r.samples {
		for _, v := range frame {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			raw = append(raw, buf[:]...)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, dataFile), raw, 0o644); err != nil {
		return fmt.Errorf("recording: write samples: %w", err)
	}
	return nil
}

// Load reads a recording back from a case folder written by Write.
func Load(dir string) (*Recording, error) {
	data, err := os.ReadFile(filepath.Join(dir, infoFile))
	if err != nil {
		return nil, fmt.Errorf("recording: read info: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("recording: unmarshal info in %q: %w", dir, err)
	}
	if info.NumChannels <= 0 {
		return nil, fmt.Errorf("recording: %q declares %d channels", dir, info.NumChannels)
	}

	raw, err := os.ReadFile(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, fmt.Errorf("recording: read samples: %w", err)
	}
	frameBytes := info.NumChannels * 4
	if len(raw)%frameBytes != 0 {
		return nil, fmt.Errorf("recording: %q has %d bytes, not a multiple of %d", dir, len(raw), frameBytes)
	}

	numFrames := len(raw) / frameBytes
	samples := make([][]float32, numFrames)
	for f := 0; f < numFrames; f++ {
		frame := make([]float32, info.NumChannels)
		for c := 0; c < info.NumChannels; c++ {
			off := f*frameBytes + c*4
			frame[c] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+4]))
		}
		samples[f] = frame
	}
	return &Recording{info: info, samples: samples}, nil
}
