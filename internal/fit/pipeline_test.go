package fit

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/floats"
)

// failingOptimizer evaluates once and then reports a failure.
type failingOptimizer struct{}

func (failingOptimizer) Kind() opt.Kind { return opt.KindDescent }

func (failingOptimizer) Run(obj opt.Objective, x0 []float64) (*opt.Result, error) {
	x := slices.Clone(x0)
	x[0] = 5
	if _, err := obj.Evaluate(x, make([]float64, len(x))); err != nil {
		return nil, err
	}
	return nil, opt.ErrNumericalFailure
}

func TestReweightUnavailableBackendLeavesWorkspace(t *testing.T) {
	ws := newExampleWorkspace(t, DefaultOptions())
	if err := ws.SetParams([]float64{0.1, -0.2, 0.3}); err != nil {
		t.Fatal(err)
	}
	params := ws.Params()
	weights, err := ws.Weights()
	if err != nil {
		t.Fatal(err)
	}
	caching := ws.Caching()

	configs := []opt.BackendConfig{opt.DefaultDescentConfig(), opt.DefaultLBFGSConfig(), opt.DefaultMayflyConfig()}
	for _, cfg := range configs {
		_, err := ReweightWith(ws, opt.NewRegistry(), cfg)
		if !errors.Is(err, opt.ErrBackendUnavailable) {
			t.Errorf("%s: expected ErrBackendUnavailable, got %v", cfg.Kind(), err)
		}
	}

	if !slices.Equal(ws.Params(), params) {
		t.Error("Parameters changed")
	}
	after, err := ws.Weights()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(after, weights) {
		t.Error("Weights changed")
	}
	if ws.Caching() != caching {
		t.Error("Caching flag changed")
	}
}

func TestReweightFailureLeavesParams(t *testing.T) {
	ws := newExampleWorkspace(t, DefaultOptions())
	before := ws.Params()

	if _, err := Reweight(ws, failingOptimizer{}); !errors.Is(err, opt.ErrNumericalFailure) {
		t.Fatalf("Expected ErrNumericalFailure, got %v", err)
	}
	if !slices.Equal(ws.Params(), before) {
		t.Errorf("Parameters changed after a failed run: %v", ws.Params())
	}
}

func TestReweightNilArguments(t *testing.T) {
	if _, err := Reweight(nil, failingOptimizer{}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
	ws := newExampleWorkspace(t, DefaultOptions())
	if _, err := ReweightMultipliers(ws, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func checkResult(t *testing.T, res *Result, n int) {
	t.Helper()
	if len(res.Weights) != n || len(res.Params) != n {
		t.Fatalf("Expected %d weights and parameters, got %d and %d", n, len(res.Weights), len(res.Params))
	}
	if sum := floats.Sum(res.Weights); math.Abs(sum-1) > 1e-10 {
		t.Errorf("Weights sum to %g", sum)
	}
	if res.FinalObjective > res.InitialObjective+1e-12 {
		t.Errorf("Objective increased: %g -> %g", res.InitialObjective, res.FinalObjective)
	}
	if res.RunID == "" {
		t.Error("Missing run id")
	}
	if math.IsNaN(res.ChiSquared) || res.Divergence < -1e-12 {
		t.Errorf("Bad diagnostics: chi2=%g divergence=%g", res.ChiSquared, res.Divergence)
	}
}
