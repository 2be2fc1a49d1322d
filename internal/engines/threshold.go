package engines

import (
	"context"
	"math"
	"sort"

	"sortbench/internal/recording"
	"sortbench/internal/sorting"
)

// Threshold is a naive built-in detector: each channel becomes one unit
// whose events are the frames where the absolute amplitude crosses
// factor × the channel's noise estimate. It exists so a fresh study can be
// exercised end to end without an external engine.
type Threshold struct{}

// Params: "factor" (default 4.0) and "dead_frames" (default 10, the
// refractory window after a crossing).
func (Threshold) Name() string { return "threshold" }

func (Threshold) Run(ctx context.Context, rec *recording.Recording, params Params) (*sorting.Sorting, error) {
	factor := params.Float("factor", 4.0)
	dead := int64(params.Float("dead_frames", 10))

	out := sorting.New(rec.SampleRate())
	for ch := 0; ch < rec.NumChannels(); ch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trace := rec.Channel(ch)
		level := factor * madEstimate(trace)

		var frames []int64
		last := int64(-1)
		for i, v := range trace {
			frame := int64(i)
			if math.Abs(float64(v)) < level {
				continue
			}
			if last >= 0 && frame-last < dead {
				continue
			}
			frames = append(frames, frame)
			last = frame
		}
		out.SetUnit(ch, frames)
	}
	return out, nil
}

func madEstimate(trace []float32) float64 {
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
