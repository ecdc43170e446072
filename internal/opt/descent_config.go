package opt

import (
	"fmt"
	"math"
)

// DescentConfig parameterizes the descent-family backend.
type DescentConfig struct {
	// StepSize is the first trial step of each line search (CG, steepest descent).
	StepSize float64
	// Tol is the gradient-norm convergence tolerance: the run converges once
	// max|gᵢ| < Tol.
	Tol float64
	// MaxIterations caps the number of accepted iterates.
	MaxIterations int
	// Algorithm selects the minimizer; AlgorithmInherit uses CurrentAlgorithm().
	Algorithm Algorithm
}

// DefaultDescentConfig returns sensible defaults for the descent backend
func DefaultDescentConfig() DescentConfig {
	return DescentConfig{
		StepSize:      0.01,
		Tol:           1e-5,
		MaxIterations: 5000,
		Algorithm:     AlgorithmInherit,
	}
}

// Kind implements BackendConfig.
func (DescentConfig) Kind() Kind { return KindDescent }

// Validate checks the configuration ranges.
func (c DescentConfig) Validate() error {
	switch {
	case !(c.StepSize > 0) || math.IsInf(c.StepSize, 0):
		return fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidConfig, c.StepSize)
	case !(c.Tol > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tol)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.Algorithm != AlgorithmInherit && !c.Algorithm.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(c.Algorithm))
	}
	return nil
}
