package opt

import "errors"

var (
	// ErrShapeMismatch reports inconsistent dimensions or buffer lengths.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNumericalFailure reports a non-finite objective, gradient or weight,
	// or an internal solver failure.
	ErrNumericalFailure = errors.New("numerical failure")
	// ErrLineSearch reports a line-search failure of the limited-memory backend.
	ErrLineSearch = errors.New("line search failure")
	// ErrBackendUnavailable indicates the backend is not available in this build.
	ErrBackendUnavailable = errors.New("optimizer backend unavailable")
	// ErrUnknownBackend is returned when the name does not match a known backend.
	ErrUnknownBackend = errors.New("unknown optimizer backend")
	// ErrUnknownAlgorithm is returned for descent algorithm identifiers out of range.
	ErrUnknownAlgorithm = errors.New("unknown descent algorithm")
	// ErrUnknownLineSearch is returned for line-search identifiers out of range.
	ErrUnknownLineSearch = errors.New("unknown line search")
	// ErrInvalidConfig reports a configuration record with out-of-range values.
	ErrInvalidConfig = errors.New("invalid optimizer configuration")
)
