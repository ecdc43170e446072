package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/floats"
)

// ChiSquared computes the normalized misfit between predicted and
// experimental observables:
//
//	out[i] = (predicted[i] - forces[i]) / normalization[i]
//	χ²     = (1/m) Σ out[i]²
//
// A nil normalization means unit uncertainty. Nothing is written when the
// inputs are rejected.
func ChiSquared(forces, predicted, normalization, out []float64, m, n int) (float64, error) {
	if m <= 0 || n <= 0 {
		return 0, fmt.Errorf("%w: m=%d n=%d", ErrShapeMismatch, m, n)
	}
	if len(forces) != m || len(predicted) != m || len(out) != m {
		return 0, fmt.Errorf("%w: forces=%d predicted=%d out=%d, expected %d",
			ErrShapeMismatch, len(forces), len(predicted), len(out), m)
	}
	for i := range forces {
		if !finite(forces[i]) || !finite(predicted[i]) {
			return 0, fmt.Errorf("%w: channel %d has forces %g, predicted %g",
				opt.ErrNumericalFailure, i, forces[i], predicted[i])
		}
	}
	if normalization != nil {
		if len(normalization) != m {
			return 0, fmt.Errorf("%w: normalization has %d entries, expected %d", ErrShapeMismatch, len(normalization), m)
		}
		for i, s := range normalization {
			if s == 0 || !finite(s) {
				return 0, fmt.Errorf("%w: normalization[%d] is %g", opt.ErrNumericalFailure, i, s)
			}
		}
	}
	return chiSquared(forces, predicted, normalization, out), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// chiSquared is the unchecked kernel shared with the evaluator.
func chiSquared(forces, predicted, normalization, out []float64) float64 {
	floats.SubTo(out, predicted, forces)
	if normalization != nil {
		floats.Div(out, normalization)
	}
	return floats.Dot(out, out) / float64(len(out))
}
