package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/floats"
)

// The objective over log-weight parameters y is
//
//	w   = w0·exp(y) / Z
//	D   = Σ w log(w/w0) = Σ w·y − log Z
//	r   = yTilde·w − YTilde
//	χ²  = (1/m) Σ r²
//	L   = θ·D + ½·χ²
//
// and its gradient
//
//	∂L/∂y_β = w_β [ θ (y_β − ȳ) + (u_β − ū)/m ],  u = yTildeᵀ·r
//
// with ȳ = Σ w·y and ū = Σ w·u.

// Evaluate implements opt.Objective. It writes the gradient into grad and
// touches only the workspace scratch; params and the inputs are left as
// they are. Shape errors are reported before anything is written.
func (ws *Workspace) Evaluate(params, grad []float64) (float64, error) {
	if len(params) != ws.n || len(grad) != ws.n {
		return 0, fmt.Errorf("%w: params=%d grad=%d, expected %d", ErrShapeMismatch, len(params), len(grad), ws.n)
	}
	f, err := ws.evaluate(params, true)
	if err != nil {
		return 0, err
	}
	copy(grad, ws.g)
	return f, nil
}

// Value returns the objective without computing the gradient.
func (ws *Workspace) Value(params []float64) (float64, error) {
	if len(params) != ws.n {
		return 0, fmt.Errorf("%w: params=%d, expected %d", ErrShapeMismatch, len(params), ws.n)
	}
	return ws.evaluate(params, false)
}

func (ws *Workspace) evaluate(params []float64, withGrad bool) (float64, error) {
	logZ, err := tiltWeights(ws.weights, ws.logPrior, params)
	if err != nil {
		return 0, err
	}
	w := ws.weights

	if err := ws.kernel.forward(ws.t1, ws.yTilde, w); err != nil {
		return 0, err
	}
	chi2 := chiSquared(ws.yTildeF, ws.t1, nil, ws.tmpM)
	d := divergence(w, params, logZ)
	f := ws.theta*d + 0.5*chi2
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: objective is %g (chi2=%g, divergence=%g)", opt.ErrNumericalFailure, f, chi2, d)
	}
	if !withGrad {
		return f, nil
	}

	yT, err := ws.cache.Get(ws.yTilde)
	if err != nil {
		yT = nil
	}
	if err := ws.kernel.transposed(ws.tmpN, ws.yTilde, yT, ws.tmpM); err != nil {
		return 0, err
	}

	yBar := weightedMean(w, params)
	uBar := floats.Dot(w, ws.tmpN)
	invM := 1 / float64(ws.m)
	for b := 0; b < ws.n; b++ {
		if w[b] == 0 {
			ws.t2[b] = 0
			ws.g[b] = 0
			continue
		}
		ws.t2[b] = params[b] - yBar
		ws.g[b] = w[b] * (ws.theta*ws.t2[b] + invM*(ws.tmpN[b]-uBar))
		if math.IsNaN(ws.g[b]) || math.IsInf(ws.g[b], 0) {
			return 0, fmt.Errorf("%w: gradient[%d] is %g", opt.ErrNumericalFailure, b, ws.g[b])
		}
	}
	return f, nil
}

// divergence is Σ w·y − log Z. Members with zero weight are skipped so an
// arbitrary parameter on a zero-prior member cannot contribute.
func divergence(w, params []float64, logZ float64) float64 {
	return weightedMean(w, params) - logZ
}

func weightedMean(w, x []float64) float64 {
	var s float64
	for i, wi := range w {
		if wi != 0 {
			s += wi * x[i]
		}
	}
	return s
}

// EvaluateMultipliers evaluates the objective in the force-multiplier
// parameterization y = yTildeᵀ·λ, with one multiplier per channel. The
// gradient is ∂L/∂λ = yTilde·∂L/∂y.
func (ws *Workspace) EvaluateMultipliers(lambda, grad []float64) (float64, error) {
	if len(lambda) != ws.m || len(grad) != ws.m {
		return 0, fmt.Errorf("%w: lambda=%d grad=%d, expected %d", ErrShapeMismatch, len(lambda), len(grad), ws.m)
	}
	if err := ws.multipliersToParams(ws.lambdaY, lambda); err != nil {
		return 0, err
	}
	f, err := ws.evaluate(ws.lambdaY, true)
	if err != nil {
		return 0, err
	}
	copy(ws.lambdaG, ws.g)
	if err := ws.kernel.forward(grad, ws.yTilde, ws.lambdaG); err != nil {
		return 0, err
	}
	return f, nil
}

func (ws *Workspace) multipliersToParams(dst, lambda []float64) error {
	for i, v := range lambda {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: multiplier[%d] is %g", opt.ErrNumericalFailure, i, v)
		}
	}
	yT, err := ws.cache.Get(ws.yTilde)
	if err != nil {
		yT = nil
	}
	return ws.kernel.transposed(dst, ws.yTilde, yT, lambda)
}

// MultiplierParams maps force multipliers to log-weight parameters.
func (ws *Workspace) MultiplierParams(lambda []float64) ([]float64, error) {
	if len(lambda) != ws.m {
		return nil, fmt.Errorf("%w: %d multipliers for %d channels", ErrShapeMismatch, len(lambda), ws.m)
	}
	out := make([]float64, ws.n)
	if err := ws.multipliersToParams(out, lambda); err != nil {
		return nil, err
	}
	return out, nil
}

// Multipliers adapts the workspace to opt.Objective over the m force
// multipliers.
func (ws *Workspace) Multipliers() opt.Objective {
	return multiplierObjective{ws}
}

type multiplierObjective struct {
	ws *Workspace
}

func (o multiplierObjective) Dim() int { return o.ws.m }

func (o multiplierObjective) Evaluate(lambda, grad []float64) (float64, error) {
	return o.ws.EvaluateMultipliers(lambda, grad)
}
