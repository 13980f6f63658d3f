package loader

import "errors"

var (
	// ErrPending is returned by Result before the fetch settles.
	ErrPending = errors.New("loader: value is still loading")
	// ErrNoFetcher is returned when Load is called without a fetch function.
	ErrNoFetcher = errors.New("loader: fetch function is required")
)
