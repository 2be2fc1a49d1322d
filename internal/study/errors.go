package study

import "errors"

var (
	// ErrNoCases is returned when a study folder holds no ground-truth cases;
	// construction from such a folder is broken upstream.
	ErrNoCases = errors.New("study: no cases in study folder")

	// ErrAmbiguousCase is returned when a study holds several cases and the
	// caller did not name one.
	ErrAmbiguousCase = errors.New("study: multiple cases, pass an explicit case name")

	// ErrUnknownCase is returned when an explicit case name matches no
	// scanned case.
	ErrUnknownCase = errors.New("study: unknown case")

	// ErrNotComputed is returned when no output exists for a (case, engine)
	// pair.
	ErrNotComputed = errors.New("study: output not computed for pair")

	// ErrNoComparisons is returned when aggregation is handed no comparison
	// set.
	ErrNoComparisons = errors.New("study: run comparisons first")
)
