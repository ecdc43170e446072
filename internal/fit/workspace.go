package fit

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/mat"
)

// Inputs are the immutable data of one reweighting run.
type Inputs struct {
	Forces      []float64  // Experimental observables, one per channel (m)
	Uncertainty []float64  // Per-channel σ (m); nil means all ones
	Prior       []float64  // Reference weights over the ensemble (n), renormalized
	Observables *mat.Dense // Simulated observables, channels × members (m×n)
	Theta       float64    // Weight of the divergence term, >= 0
}

// Options controls how the evaluator runs, not what it computes.
type Options struct {
	Caching  bool // Hold the transposed observable matrix for the gradient
	Parallel bool // Split the matrix-vector products across goroutines
	Workers  int  // Goroutines for the parallel kernel; 0 means GOMAXPROCS
}

// DefaultOptions enables caching and takes the kernel mode from the
// process-wide parallel flag.
func DefaultOptions() Options {
	return Options{
		Caching:  true,
		Parallel: opt.ParallelEnabled(),
	}
}

// Workspace is the numeric arena of one run. It implements opt.Objective
// over the log-weight parameters and must not be shared between
// concurrent runs.
type Workspace struct {
	m, n  int
	theta float64

	forces   []float64
	sigma    []float64
	prior    []float64  // w0, unit sum
	logPrior []float64  // G = log w0
	yTilde   *mat.Dense // y/σ, row-scaled
	yTildeF  []float64  // Forces/σ

	cache  Cache
	kernel *kernel

	params  []float64
	weights []float64

	// Scratch, overwritten by every evaluation.
	g      []float64 // n, gradient
	t1     []float64 // m, predicted normalized observables
	t2     []float64 // n, centered parameters
	tmpM   []float64 // m, residuals
	tmpN   []float64 // n, yTildeᵀ·residuals
	result []float64 // n, weights handed to callers

	// Force-multiplier parameterization.
	lambdaY []float64 // n, yTildeᵀ·λ
	lambdaG []float64 // n, gradient with respect to lambdaY
}

// NewWorkspace validates in and derives the normalized matrices. The
// parameters start at zero, where the weights equal the prior.
func NewWorkspace(in Inputs, opts Options) (*Workspace, error) {
	if in.Observables == nil {
		return nil, fmt.Errorf("%w: nil observable matrix", ErrShapeMismatch)
	}
	m, n := in.Observables.Dims()
	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: observable matrix is %d×%d", ErrShapeMismatch, m, n)
	}
	if len(in.Forces) != m {
		return nil, fmt.Errorf("%w: %d forces for %d channels", ErrShapeMismatch, len(in.Forces), m)
	}
	if in.Uncertainty != nil && len(in.Uncertainty) != m {
		return nil, fmt.Errorf("%w: %d uncertainties for %d channels", ErrShapeMismatch, len(in.Uncertainty), m)
	}
	if len(in.Prior) != n {
		return nil, fmt.Errorf("%w: %d prior weights for %d members", ErrShapeMismatch, len(in.Prior), n)
	}
	if in.Theta < 0 || math.IsNaN(in.Theta) || math.IsInf(in.Theta, 0) {
		return nil, fmt.Errorf("%w: theta is %g", ErrInvalidInput, in.Theta)
	}

	sigma := make([]float64, m)
	for i := range sigma {
		sigma[i] = 1
		if in.Uncertainty != nil {
			sigma[i] = in.Uncertainty[i]
		}
		if !(sigma[i] > 0) || math.IsInf(sigma[i], 0) {
			return nil, fmt.Errorf("%w: uncertainty[%d] is %g", ErrInvalidInput, i, sigma[i])
		}
		if f := in.Forces[i]; math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: force[%d] is %g", opt.ErrNumericalFailure, i, f)
		}
	}
	logPrior, err := logNormalized(in.Prior)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		m:        m,
		n:        n,
		theta:    in.Theta,
		forces:   slices.Clone(in.Forces),
		sigma:    sigma,
		logPrior: logPrior,
		prior:    make([]float64, n),
		params:   make([]float64, n),
		weights:  make([]float64, n),
		g:        make([]float64, n),
		t1:       make([]float64, m),
		t2:       make([]float64, n),
		tmpM:     make([]float64, m),
		tmpN:     make([]float64, n),
		result:   make([]float64, n),
		lambdaY:  make([]float64, n),
		lambdaG:  make([]float64, n),
	}
	for i, lp := range logPrior {
		ws.prior[i] = math.Exp(lp)
	}
	if err := ws.deriveObservables(in.Observables); err != nil {
		return nil, err
	}

	mode := KernelSerial
	if opts.Parallel {
		mode = KernelParallel
	}
	ws.kernel = newKernel(mode, opts.Workers, m)
	if opts.Caching {
		if err := ws.cache.Enable(ws.yTilde); err != nil {
			return nil, err
		}
	}

	slog.Debug("Workspace created",
		"channels", m,
		"members", n,
		"theta", in.Theta,
		"caching", opts.Caching,
		"kernel", mode.String(),
	)
	return ws, nil
}

// deriveObservables computes yTilde = y/σ and YTilde = forces/σ.
func (ws *Workspace) deriveObservables(y *mat.Dense) error {
	yt := mat.NewDense(ws.m, ws.n, nil)
	for i := 0; i < ws.m; i++ {
		for j := 0; j < ws.n; j++ {
			v := y.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: observable[%d,%d] is %g", opt.ErrNumericalFailure, i, j, v)
			}
			yt.Set(i, j, v/ws.sigma[i])
		}
	}
	f := make([]float64, ws.m)
	for i := range f {
		f[i] = ws.forces[i] / ws.sigma[i]
	}
	ws.yTilde = yt
	ws.yTildeF = f
	return nil
}

// SetObservables replaces the observable matrix. The cached transpose is
// rebuilt when caching is on, so it never outlives the matrix it came from.
func (ws *Workspace) SetObservables(y *mat.Dense) error {
	if y == nil {
		return fmt.Errorf("%w: nil observable matrix", ErrShapeMismatch)
	}
	if r, c := y.Dims(); r != ws.m || c != ws.n {
		return fmt.Errorf("%w: observable matrix is %d×%d, expected %d×%d", ErrShapeMismatch, r, c, ws.m, ws.n)
	}
	if err := ws.deriveObservables(y); err != nil {
		return err
	}
	if ws.cache.Enabled() {
		return ws.cache.Enable(ws.yTilde)
	}
	return nil
}

// EnableCaching fills the cache from the current observables.
func (ws *Workspace) EnableCaching() error {
	return ws.cache.Enable(ws.yTilde)
}

// DisableCaching drops the cached transpose; evaluations fall back to
// reading columns of yTilde.
func (ws *Workspace) DisableCaching() {
	ws.cache.Disable()
}

// Caching reports whether the transpose is cached.
func (ws *Workspace) Caching() bool {
	return ws.cache.Enabled()
}

// Dim implements opt.Objective.
func (ws *Workspace) Dim() int { return ws.n }

// Channels returns m.
func (ws *Workspace) Channels() int { return ws.m }

// Theta returns the divergence weight.
func (ws *Workspace) Theta() float64 { return ws.theta }

// Prior returns a copy of the normalized prior weights.
func (ws *Workspace) Prior() []float64 {
	return slices.Clone(ws.prior)
}

// Params returns a copy of the current parameters.
func (ws *Workspace) Params() []float64 {
	return slices.Clone(ws.params)
}

// SetParams replaces the current parameters.
func (ws *Workspace) SetParams(params []float64) error {
	if len(params) != ws.n {
		return fmt.Errorf("%w: %d parameters for %d members", ErrShapeMismatch, len(params), ws.n)
	}
	for i, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: parameter[%d] is %g", opt.ErrNumericalFailure, i, v)
		}
	}
	copy(ws.params, params)
	return nil
}

// Weights derives the weights of the current parameters. They are
// recomputed on every call.
func (ws *Workspace) Weights() ([]float64, error) {
	if _, err := tiltWeights(ws.result, ws.logPrior, ws.params); err != nil {
		return nil, err
	}
	return slices.Clone(ws.result), nil
}

// ChiSquared reports the misfit of the current parameters.
func (ws *Workspace) ChiSquared() (float64, error) {
	if _, err := tiltWeights(ws.weights, ws.logPrior, ws.params); err != nil {
		return 0, err
	}
	if err := ws.kernel.forward(ws.t1, ws.yTilde, ws.weights); err != nil {
		return 0, err
	}
	return chiSquared(ws.yTildeF, ws.t1, nil, ws.tmpM), nil
}

// Divergence reports D(w‖w0) of the current parameters.
func (ws *Workspace) Divergence() (float64, error) {
	logZ, err := tiltWeights(ws.weights, ws.logPrior, ws.params)
	if err != nil {
		return 0, err
	}
	return divergence(ws.weights, ws.params, logZ), nil
}
