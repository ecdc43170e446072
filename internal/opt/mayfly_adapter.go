//go:build !nomayfly

package opt

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/cwbudde/mayfly"
)

func init() {
	defaultRegistry.Register(KindMayfly, func(cfg BackendConfig) (Optimizer, error) {
		return NewMayfly(cfg.(MayflyConfig))
	})
}

// MayflyAdapter wraps the external Mayfly library to conform to our Optimizer interface.
// It only needs objective values; the gradient is evaluated once at the end
// so results carry it like every other backend.
type MayflyAdapter struct {
	cfg MayflyConfig
}

// NewMayfly creates a new Mayfly optimizer adapter
func NewMayfly(cfg MayflyConfig) (Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MayflyAdapter{cfg: cfg}, nil
}

// Kind implements Optimizer.
func (m *MayflyAdapter) Kind() Kind { return KindMayfly }

// Run searches the box [-Bound, Bound]^n. The population budget is always
// spent in full, so the status is IterationLimit.
func (m *MayflyAdapter) Run(obj Objective, x0 []float64) (*Result, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil objective", ErrShapeMismatch)
	}
	dim := obj.Dim()
	if dim <= 0 || len(x0) != dim {
		return nil, fmt.Errorf("%w: starting point has %d entries, objective expects %d", ErrShapeMismatch, len(x0), dim)
	}

	var (
		firstErr error
		evals    int
		scratch  = make([]float64, dim)
	)
	value := func(x []float64) (float64, error) {
		evals++
		if v, ok := obj.(valuer); ok {
			return v.Value(x)
		}
		return obj.Evaluate(x, scratch)
	}
	eval := func(x []float64) float64 {
		if firstErr != nil {
			return math.Inf(1)
		}
		f, err := value(x)
		if err == nil {
			err = checkFinite(f, nil)
		}
		if err != nil {
			firstErr = err
			return math.Inf(1)
		}
		return f
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = dim
	config.MaxIterations = m.cfg.MaxIterations
	config.NPop = m.cfg.PopSize
	config.LowerBound = -m.cfg.Bound
	config.UpperBound = m.cfg.Bound
	config.Rand = rand.New(rand.NewSource(m.cfg.Seed))

	slog.Debug("Starting mayfly search",
		"dim", dim,
		"pop_size", m.cfg.PopSize,
		"max_iterations", m.cfg.MaxIterations,
		"bound", m.cfg.Bound,
		"seed", m.cfg.Seed,
	)

	start := time.Now()
	result, err := mayfly.Optimize(config)
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: mayfly: %v", ErrNumericalFailure, err)
	}

	best := slices.Clone(result.GlobalBest.Position)
	bestF := result.GlobalBest.Cost

	// The population is drawn inside the box; keep the start if it was better.
	if f0 := eval(x0); firstErr == nil && f0 <= bestF {
		best, bestF = slices.Clone(x0), f0
	}
	if firstErr != nil {
		return nil, firstErr
	}

	grad := make([]float64, dim)
	f, err := obj.Evaluate(best, grad)
	evals++
	if err == nil {
		err = checkFinite(f, grad)
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	slog.Debug("Mayfly search finished", "f", f, "evaluations", evals)

	return &Result{
		X:           best,
		F:           f,
		Gradient:    grad,
		Status:      StatusIterationLimit,
		Message:     "the population budget is exhausted",
		Iterations:  m.cfg.MaxIterations,
		Evaluations: evals,
		Elapsed:     elapsed,
		Trace:       []float64{bestF},
	}, nil
}
