package opt

import "fmt"

// LBFGSConfig parameterizes the limited-memory quasi-Newton backend. The
// fields follow liblbfgs.
type LBFGSConfig struct {
	LineSearch    LineSearch
	MaxIterations int

	// Delta is the rate threshold of the delta-based test, active when Past > 0:
	//   |f(k−past) − f(k)| / |f(k)| < Delta
	Delta float64
	// Epsilon is the gradient test threshold:
	//   ‖g‖ / max(1, ‖x‖) < Epsilon
	Epsilon float64
	// Ftol is the sufficient decrease factor of the line search.
	Ftol float64
	// Gtol is the curvature factor of the line search.
	Gtol float64
	// Past is the distance, in iterations, of the delta-based test (0 disables it).
	Past int
	// MaxLineSearch caps the number of evaluations within one iteration.
	MaxLineSearch int
	// History is the number of correction pairs kept.
	History int
}

// DefaultLBFGSConfig returns sensible defaults for the limited-memory backend
func DefaultLBFGSConfig() LBFGSConfig {
	return LBFGSConfig{
		LineSearch:    LineSearchMoreThuente,
		MaxIterations: 5000,
		Delta:         1e-6,
		Epsilon:       1e-7,
		Ftol:          1e-4,
		Gtol:          0.9,
		Past:          1,
		MaxLineSearch: 40,
		History:       6,
	}
}

// Kind implements BackendConfig.
func (LBFGSConfig) Kind() Kind { return KindLBFGS }

// Validate checks the configuration ranges.
func (c LBFGSConfig) Validate() error {
	switch {
	case !c.LineSearch.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownLineSearch, int(c.LineSearch))
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.Delta < 0:
		return fmt.Errorf("%w: delta must not be negative, got %g", ErrInvalidConfig, c.Delta)
	case c.Epsilon < 0:
		return fmt.Errorf("%w: epsilon must not be negative, got %g", ErrInvalidConfig, c.Epsilon)
	case !(c.Ftol > 0 && c.Ftol < 0.5):
		return fmt.Errorf("%w: ftol must lie in (0, 0.5), got %g", ErrInvalidConfig, c.Ftol)
	case !(c.Gtol > c.Ftol && c.Gtol < 1):
		return fmt.Errorf("%w: gtol must lie in (ftol, 1), got %g", ErrInvalidConfig, c.Gtol)
	case c.Past < 0:
		return fmt.Errorf("%w: past must not be negative, got %d", ErrInvalidConfig, c.Past)
	case c.MaxLineSearch <= 0:
		return fmt.Errorf("%w: max line search must be positive, got %d", ErrInvalidConfig, c.MaxLineSearch)
	case c.History <= 0:
		return fmt.Errorf("%w: history must be positive, got %d", ErrInvalidConfig, c.History)
	}
	return nil
}
