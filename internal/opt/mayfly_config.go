package opt

import "fmt"

// MayflyConfig parameterizes the derivative-free mayfly backend.
type MayflyConfig struct {
	MaxIterations int
	PopSize       int     // Must be at least 20 for mayfly v0.1.0
	Bound         float64 // Search box is [-Bound, Bound] in every coordinate
	Seed          int64
}

// DefaultMayflyConfig returns sensible defaults for the mayfly backend
func DefaultMayflyConfig() MayflyConfig {
	return MayflyConfig{
		MaxIterations: 200,
		PopSize:       30,
		Bound:         10,
		Seed:          42,
	}
}

// Kind implements BackendConfig.
func (MayflyConfig) Kind() Kind { return KindMayfly }

// Validate checks the configuration ranges.
func (c MayflyConfig) Validate() error {
	switch {
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.PopSize < 20:
		return fmt.Errorf("%w: population size must be at least 20, got %d", ErrInvalidConfig, c.PopSize)
	case !(c.Bound > 0):
		return fmt.Errorf("%w: bound must be positive, got %g", ErrInvalidConfig, c.Bound)
	}
	return nil
}
