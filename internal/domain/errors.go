package domain

import "errors"

var (
	// ErrBackendUnavailable marks a transport-level failure of the search or cache
	// backend: connection errors, timeouts, an open circuit or a 5xx answer.
	// It must never be reported to clients as "not found".
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidDocument is returned when a stored document cannot be decoded or
	// violates an entity invariant.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidRating is returned for ratings outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("rating out of range")
)
