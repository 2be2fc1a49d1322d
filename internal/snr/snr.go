// Package snr computes the per-unit signal-to-noise ratio of a ground truth
// against its recording: mean absolute spike amplitude on the unit's best
// channel over a robust noise estimate of that channel.
package snr

import (
	"fmt"
	"math"
	"sort"

	"sortbench/internal/recording"
	"sortbench/internal/sorting"
)

// Compute returns the SNR for every ground-truth unit, keyed by unit id.
func Compute(rec *recording.Recording, gt *sorting.Sorting) (map[int]float64, error) {
	if rec.NumChannels() == 0 || rec.NumFrames() == 0 {
		return nil, fmt.Errorf("snr: recording is empty")
	}

	noise := make([]float64, rec.NumChannels())
	for ch := 0; ch < rec.NumChannels(); ch++ {
		noise[ch] = madNoise(rec.Channel(ch))
	}

	out := make(map[int]float64, gt.NumUnits())
	for _, id := range gt.UnitIDs() {
		train, err := gt.Train(id)
		if err != nil {
			return nil, err
		}

		// Peak channel = largest mean absolute amplitude at spike frames.
		bestSNR := 0.0
		for ch := 0; ch < rec.NumChannels(); ch++ {
			if len(train) == 0 || noise[ch] == 0 {
				continue
			}
			sum := 0.0
			for _, frame := range train {
				sum += math.Abs(float64(rec.Sample(frame, ch)))
			}
			if s := (sum / float64(len(train))) / noise[ch]; s > bestSNR {
				bestSNR = s
			}
		}
		out[id] = bestSNR
	}
	return out, nil
}

// madNoise is the median absolute deviation scaled to estimate the standard
// deviation of gaussian noise.
func madNoise(trace []float32) float64 {
	if len(trace) == 0 {
		return 0
	}
	abs := make([]float64, len(trace))
	for i, v := range trace {
		abs[i] = math.Abs(float64(v))
	}
	sort.Float64s(abs)
	return abs[len(abs)/2] / 0.6745
}
