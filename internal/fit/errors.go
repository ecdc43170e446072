package fit

import (
	"errors"

	"github.com/cwbudde/bioenopt/internal/opt"
)

var (
	// ErrShapeMismatch reports inconsistent dimensions or buffer lengths.
	ErrShapeMismatch = opt.ErrShapeMismatch
	// ErrCacheMiss is returned by Cache.Get when caching is off or the
	// cached transpose belongs to a different matrix.
	ErrCacheMiss = errors.New("cache miss")
	// ErrInvalidInput reports values outside their domain (negative prior
	// weights, a zero prior mass, negative theta, non-positive uncertainty).
	ErrInvalidInput = errors.New("invalid input")
)
