package study

import (
	"fmt"

	"sortbench/internal/compare"
	"sortbench/internal/sorting"
)

// ComparisonSet is the result of one comparison batch: every discovered
// (case, engine) pair scored against its case's ground truth, plus the
// batch-wide exhaustiveness flag. Aggregation consumes a set explicitly, so
// "compare before you aggregate" is enforced by the signatures rather than
// by hidden state.
type ComparisonSet struct {
	exhaustive bool
	results    map[Pair]*compare.Comparison
}

// Get returns the scored comparison for a pair.
func (cs *ComparisonSet) Get(p Pair) (*compare.Comparison, bool) {
	c, ok := cs.results[p]
	return c, ok
}

// Pairs returns the scored pairs in (case, engine) order.
func (cs *ComparisonSet) Pairs() []Pair {
	pairs := make([]Pair, 0, len(cs.results))
	for p := range cs.results {
		pairs = append(pairs, p)
	}
	sortPairs(pairs)
	return pairs
}

// Len returns the number of scored pairs.
func (cs *ComparisonSet) Len() int { return len(cs.results) }

// Exhaustive reports whether the batch was scored against exhaustive ground
// truth, which is what makes false-positive and bad-unit counts meaningful.
func (cs *ComparisonSet) Exhaustive() bool { return cs.exhaustive }

// RunComparisons scores every discovered (case, engine) pair and returns a
// fresh set. Each call recomputes from scratch; sets from earlier calls keep
// their old contents and simply go stale.
func (s *Study) RunComparisons(exhaustive bool, opts compare.Options) (*ComparisonSet, error) {
	if err := s.ensureScanned(); err != nil {
		return nil, err
	}

	results := make(map[Pair]*compare.Comparison, len(s.pairs))
	gtCache := make(map[string]*sorting.Sorting, len(s.caseNames))

	for _, p := range s.pairs {
		gt, ok := gtCache[p.Case]
		if !ok {
			var err error
			gt, err = s.GroundTruth(p.Case)
			if err != nil {
				return nil, fmt.Errorf("study: compare %s: %w", p, err)
			}
			gtCache[p.Case] = gt
		}

		output, err := sorting.Read(s.sortingPath(p))
		if err != nil {
			return nil, fmt.Errorf("study: compare %s: %w", p, err)
		}

		results[p] = s.Comparer(gt, output, exhaustive, opts)
	}

	s.log.Info("comparisons computed", "pairs", len(results), "exhaustive", exhaustive)
	return &ComparisonSet{exhaustive: exhaustive, results: results}, nil
}
