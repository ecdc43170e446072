package opt

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DeltaConfig defines the delta-based stopping test
type DeltaConfig struct {
	// Past is the distance, in accepted iterates, between the two objective
	// values that are compared. Zero disables the test.
	Past int

	// Delta is the minimum relative decrease required over Past iterates:
	//   |f(k−past) − f(k)| / |f(k)| < Delta  stops the run
	Delta float64
}

// DeltaTracker tracks objective history and detects when the relative
// decrease over the last Past iterates has stalled.
type DeltaTracker struct {
	config  DeltaConfig
	history []float64
}

// NewDeltaTracker creates a new tracker with the given config
func NewDeltaTracker(config DeltaConfig) *DeltaTracker {
	return &DeltaTracker{config: config}
}

// Update records a new objective value and returns true if the run should stop
func (c *DeltaTracker) Update(f float64) bool {
	c.history = append(c.history, f)

	past := c.config.Past
	if past <= 0 || len(c.history) <= past {
		return false
	}

	old := c.history[len(c.history)-1-past]
	rate := math.Abs(old-f) / math.Max(math.Abs(f), math.SmallestNonzeroFloat64)
	if rate < c.config.Delta {
		slog.Debug("Delta test satisfied",
			"f", f,
			"f_past", old,
			"rate", rate,
			"past", past,
		)
		return true
	}
	return false
}

// Reset clears the tracker's state
func (c *DeltaTracker) Reset() {
	c.history = c.history[:0]
}

// GradInfNorm returns max|gᵢ|, the scale-free norm used by the descent backend.
func GradInfNorm(g []float64) float64 {
	return floats.Norm(g, math.Inf(1))
}

// gradientConverged is the descent-family test: max|gᵢ| < tol.
func gradientConverged(tol float64) func(x, g []float64) bool {
	return func(_, g []float64) bool {
		return GradInfNorm(g) < tol
	}
}

// epsilonConverged is the liblbfgs gradient test: ‖g‖₂ / max(1, ‖x‖₂) < eps.
func epsilonConverged(eps float64) func(x, g []float64) bool {
	return func(x, g []float64) bool {
		xnorm := math.Max(1, floats.Norm(x, 2))
		return floats.Norm(g, 2)/xnorm < eps
	}
}
