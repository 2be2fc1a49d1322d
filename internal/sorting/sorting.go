// Package sorting holds labeled spike-event sequences: the output of a
// sorting engine and the ground truth it is scored against. A sorting is a
// set of units, each with the sample frames at which its events occur.
package sorting

import (
	"fmt"
	"sort"
)

// Sorting is an immutable-once-built set of unit spike trains sharing one
// sampling frequency. Unit ids are unique ints; frames are ascending.
type Sorting struct {
	sampleRate float64
	unitIDs    []int
	trains     map[int][]int64
}

// New returns an empty sorting at the given sampling frequency.
func New(sampleRate float64) *Sorting {
	return &Sorting{
		sampleRate: sampleRate,
		trains:     make(map[int][]int64),
	}
}

// SampleRate returns the sampling frequency in Hz.
func (s *Sorting) SampleRate() float64 { return s.sampleRate }

// SetUnit stores the spike train for a unit, replacing any previous train.
// The frames are copied and sorted ascending.
func (s *Sorting) SetUnit(id int, frames []int64) {
	train := make([]int64, len(frames))
	copy(train, frames)
	sort.Slice(train, func(i, j int) bool { return train[i] < train[j] })

	if _, exists := s.trains[id]; !exists {
		s.unitIDs = append(s.unitIDs, id)
		sort.Ints(s.unitIDs)
	}
	s.trains[id] = train
}

// UnitIDs returns the unit ids in ascending order.
func (s *Sorting) UnitIDs() []int {
	out := make([]int, len(s.unitIDs))
	copy(out, s.unitIDs)
	return out
}

// NumUnits returns the number of units.
func (s *Sorting) NumUnits() int { return len(s.unitIDs) }

// Train returns the spike train for a unit. The returned slice must not be
// mutated by the caller.
func (s *Sorting) Train(id int) ([]int64, error) {
	train, ok := s.trains[id]
	if !ok {
		return nil, fmt.Errorf("sorting: unit %d not found", id)
	}
	return train, nil
}

// NumEvents returns the event count for a unit, or 0 if the unit is unknown.
func (s *Sorting) NumEvents(id int) int { return len(s.trains[id]) }

// TotalEvents returns the event count summed over all units.
func (s *Sorting) TotalEvents() int {
	total := 0
	for _, train := range s.trains {
		total += len(train)
	}
	return total
}
