package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/floats"
)

// tiltWeights writes w = w0·exp(y) / Z into dst and returns log Z, where
// logPrior holds log w0. Members with zero prior get zero weight.
func tiltWeights(dst, logPrior, params []float64) (float64, error) {
	for i, y := range params {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, fmt.Errorf("%w: parameter[%d] is %g", opt.ErrNumericalFailure, i, y)
		}
	}
	floats.AddTo(dst, logPrior, params)
	logZ := floats.LogSumExp(dst)
	for i, v := range dst {
		dst[i] = math.Exp(v - logZ)
	}
	return logZ, nil
}

// Weights returns the normalized exponential tilt of prior by params. The
// prior need not be normalized.
func Weights(prior, params []float64) ([]float64, error) {
	if len(prior) == 0 || len(prior) != len(params) {
		return nil, fmt.Errorf("%w: prior has %d entries, params %d", ErrShapeMismatch, len(prior), len(params))
	}
	logPrior, err := logNormalized(prior)
	if err != nil {
		return nil, err
	}
	w := make([]float64, len(prior))
	if _, err := tiltWeights(w, logPrior, params); err != nil {
		return nil, err
	}
	return w, nil
}

// logNormalized returns log(p/Σp), with -Inf for zero entries.
func logNormalized(p []float64) ([]float64, error) {
	var sum float64
	for i, v := range p {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: prior weight[%d] is %g", ErrInvalidInput, i, v)
		}
		sum += v
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: prior weights sum to zero", ErrInvalidInput)
	}
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = math.Log(v / sum)
	}
	return out, nil
}
