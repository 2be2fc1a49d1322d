// Package compare scores an engine-produced sorting against a ground-truth
// sorting. Matching is event-level with a frame tolerance: two units agree
// in proportion to how many of their events coincide, and every ground-truth
// unit is assigned its best-agreeing engine unit.
package compare

import (
	"sortbench/internal/sorting"
)

// Default threshold values, applied when the caller passes zero.
const (
	DefaultDeltaFrames  = 10
	DefaultMatchScore   = 0.5
	DefaultWellDetected = 0.8
	DefaultRedundant    = 0.2
	DefaultOvermerged   = 0.2
)

// Options tunes the matching stage.
type Options struct {
	DeltaFrames int64   // event coincidence window; 0 = DefaultDeltaFrames
	MatchScore  float64 // min agreement for a best match to count; 0 = DefaultMatchScore
}

func (o Options) withDefaults() Options {
	if o.DeltaFrames <= 0 {
		o.DeltaFrames = DefaultDeltaFrames
	}
	if o.MatchScore <= 0 {
		o.MatchScore = DefaultMatchScore
	}
	return o
}

// Thresholds classifies units when counting. Zero fields fall back to the
// package defaults, so callers only set what they want to override.
type Thresholds struct {
	WellDetected float64
	Redundant    float64
	Overmerged   float64
}

func (t Thresholds) withDefaults() Thresholds {
	if t.WellDetected <= 0 {
		t.WellDetected = DefaultWellDetected
	}
	if t.Redundant <= 0 {
		t.Redundant = DefaultRedundant
	}
	if t.Overmerged <= 0 {
		t.Overmerged = DefaultOvermerged
	}
	return t
}

// Comparison is the scored match between one engine output and one ground
// truth. It retains the full agreement matrix so unit counting can be redone
// with different thresholds without re-matching.
type Comparison struct {
	Exhaustive bool

	gtIDs     []int
	engineIDs []int
	gtEvents  map[int]int
	agreement map[int]map[int]float64 // gt unit -> engine unit -> score
	bestMatch map[int]int             // gt unit -> engine unit, -1 when unmatched
	matched   map[int]bool            // engine units that are someone's best match

	tp map[int]int // per gt unit: events matched with its best engine unit
	fp map[int]int // per gt unit: extra events of the best engine unit
	fn map[int]int // per gt unit: ground-truth events missed
}

// Run compares an engine sorting to a ground truth. The exhaustive flag
// records whether the ground truth contains every real unit, which is what
// makes false-positive and bad-unit counts meaningful.
func Run(gt, engine *sorting.Sorting, exhaustive bool, opts Options) *Comparison {
	opts = opts.withDefaults()

	c := &Comparison{
		Exhaustive: exhaustive,
		gtIDs:      gt.UnitIDs(),
		engineIDs:  engine.UnitIDs(),
		gtEvents:   make(map[int]int),
		agreement:  make(map[int]map[int]float64),
		bestMatch:  make(map[int]int),
		matched:    make(map[int]bool),
		tp:         make(map[int]int),
		fp:         make(map[int]int),
		fn:         make(map[int]int),
	}

	for _, g := range c.gtIDs {
		gtTrain, _ := gt.Train(g)
		c.gtEvents[g] = len(gtTrain)
		c.agreement[g] = make(map[int]float64)

		best, bestScore, bestMatches, bestEvents := -1, 0.0, 0, 0
		for _, e := range c.engineIDs {
			engTrain, _ := engine.Train(e)
			matches := CountMatchingEvents(gtTrain, engTrain, opts.DeltaFrames)
			score := agreementScore(len(gtTrain), len(engTrain), matches)
			c.agreement[g][e] = score
			if score > bestScore {
				best, bestScore = e, score
				bestMatches, bestEvents = matches, len(engTrain)
			}
		}

		if best >= 0 && bestScore >= opts.MatchScore {
			c.bestMatch[g] = best
			c.matched[best] = true
			c.tp[g] = bestMatches
			c.fp[g] = bestEvents - bestMatches
			c.fn[g] = len(gtTrain) - bestMatches
		} else {
			c.bestMatch[g] = -1
			c.fn[g] = len(gtTrain)
		}
	}

	return c
}

// CountMatchingEvents counts coincident events between two ascending spike
// trains. Each event matches at most once; two events coincide when their
// frames differ by at most delta.
func CountMatchingEvents(a, b []int64, delta int64) int {
	matches, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		d := a[i] - b[j]
		switch {
		case d > delta:
			j++
		case d < -delta:
			i++
		default:
			matches++
			i++
			j++
		}
	}
	return matches
}

// agreementScore is matches over the union of both event sets.
func agreementScore(n1, n2, matches int) float64 {
	denom := n1 + n2 - matches
	if denom == 0 {
		return 0
	}
	return float64(matches) / float64(denom)
}

// NumGTUnits returns the ground-truth unit count.
func (c *Comparison) NumGTUnits() int { return len(c.gtIDs) }

// NumEngineUnits returns the engine-produced unit count.
func (c *Comparison) NumEngineUnits() int { return len(c.engineIDs) }

// GTUnitIDs returns the ground-truth unit ids in ascending order.
func (c *Comparison) GTUnitIDs() []int {
	out := make([]int, len(c.gtIDs))
	copy(out, c.gtIDs)
	return out
}

// BestMatch returns the engine unit assigned to a ground-truth unit,
// or -1 when the unit went undetected.
func (c *Comparison) BestMatch(gtUnit int) int {
	m, ok := c.bestMatch[gtUnit]
	if !ok {
		return -1
	}
	return m
}

// Agreement returns the agreement score between a ground-truth unit and an
// engine unit.
func (c *Comparison) Agreement(gtUnit, engineUnit int) float64 {
	return c.agreement[gtUnit][engineUnit]
}

// UnitPerf carries the five performance measures for one ground-truth unit.
type UnitPerf struct {
	GTUnitID           int
	Accuracy           float64
	Recall             float64
	Precision          float64
	FalseDiscoveryRate float64
	MissRate           float64
}

// PerfByUnit computes the performance measures for every ground-truth unit,
// in ascending unit order.
func (c *Comparison) PerfByUnit() []UnitPerf {
	perfs := make([]UnitPerf, 0, len(c.gtIDs))
	for _, g := range c.gtIDs {
		tp, fp, fn := float64(c.tp[g]), float64(c.fp[g]), float64(c.fn[g])
		p := UnitPerf{GTUnitID: g}
		if tp+fn+fp > 0 {
			p.Accuracy = tp / (tp + fn + fp)
		}
		if tp+fn > 0 {
			p.Recall = tp / (tp + fn)
			p.MissRate = fn / (tp + fn)
		}
		if tp+fp > 0 {
			p.Precision = tp / (tp + fp)
			p.FalseDiscoveryRate = fp / (tp + fp)
		}
		perfs = append(perfs, p)
	}
	return perfs
}

// CountWellDetected counts ground-truth units with accuracy at or above the
// well-detected threshold.
func (c *Comparison) CountWellDetected(t Thresholds) int {
	t = t.withDefaults()
	count := 0
	for _, p := range c.PerfByUnit() {
		if p.Accuracy >= t.WellDetected {
			count++
		}
	}
	return count
}

// CountRedundant counts engine units that are nobody's best match yet still
// agree with some ground-truth unit at or above the redundant threshold:
// duplicate detections of an already-found unit.
func (c *Comparison) CountRedundant(t Thresholds) int {
	t = t.withDefaults()
	count := 0
	for _, e := range c.engineIDs {
		if c.matched[e] {
			continue
		}
		if c.maxAgreementFor(e) >= t.Redundant {
			count++
		}
	}
	return count
}

// CountOvermerged counts engine units that agree at or above the overmerged
// threshold with two or more ground-truth units: one detection spanning
// several real units.
func (c *Comparison) CountOvermerged(t Thresholds) int {
	t = t.withDefaults()
	count := 0
	for _, e := range c.engineIDs {
		hits := 0
		for _, g := range c.gtIDs {
			if c.agreement[g][e] >= t.Overmerged {
				hits++
			}
		}
		if hits >= 2 {
			count++
		}
	}
	return count
}

// CountFalsePositive counts engine units that match nothing: nobody's best
// match and below the redundant threshold against every ground-truth unit.
// Only meaningful when the ground truth is exhaustive.
func (c *Comparison) CountFalsePositive(t Thresholds) int {
	t = t.withDefaults()
	count := 0
	for _, e := range c.engineIDs {
		if c.matched[e] {
			continue
		}
		if c.maxAgreementFor(e) < t.Redundant {
			count++
		}
	}
	return count
}

// CountBad counts engine units that are neither a best match nor useful:
// the redundant and false-positive sets together.
func (c *Comparison) CountBad(t Thresholds) int {
	return c.CountFalsePositive(t) + c.CountRedundant(t)
}

func (c *Comparison) maxAgreementFor(engineUnit int) float64 {
	best := 0.0
	for _, g := range c.gtIDs {
		if s := c.agreement[g][engineUnit]; s > best {
			best = s
		}
	}
	return best
}
