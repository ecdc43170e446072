//go:build !nodescent && !nolbfgs && !nomayfly

package fit

import (
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/bioenopt/internal/opt"
)

func TestReweightExampleDescentIsMonotone(t *testing.T) {
	for _, a := range opt.Algorithms() {
		t.Run(a.String(), func(t *testing.T) {
			ws := newExampleWorkspace(t, DefaultOptions())
			o, err := opt.NewDescent(opt.DescentConfig{
				StepSize:      0.1,
				Tol:           1e-6,
				MaxIterations: 5000,
				Algorithm:     a,
			})
			if err != nil {
				t.Fatal(err)
			}

			res, err := Reweight(ws, o)
			if err != nil {
				t.Fatalf("Reweight: %v", err)
			}
			if !res.Converged() {
				t.Fatalf("Expected convergence, got %s (%s)", res.Status, res.Message)
			}
			checkResult(t, res, 3)
			for i := 1; i < len(res.Trace); i++ {
				if res.Trace[i] > res.Trace[i-1]+1e-12 {
					t.Fatalf("Objective increased at iterate %d: %g -> %g", i, res.Trace[i-1], res.Trace[i])
				}
			}
			if !slices.Equal(ws.Params(), res.Params) {
				t.Error("Workspace does not hold the final iterate")
			}
		})
	}
}

func TestReweightWithDefaultRegistry(t *testing.T) {
	ws := newExampleWorkspace(t, DefaultOptions())
	res, err := ReweightWith(ws, nil, opt.DefaultLBFGSConfig())
	if err != nil {
		t.Fatalf("ReweightWith: %v", err)
	}
	checkResult(t, res, 3)
	if res.Evaluations == 0 {
		t.Error("Expected evaluations to be counted")
	}
}

func TestReweightBackendsAgree(t *testing.T) {
	in := randomInputs(81, 4, 10, 0.5)

	descent := mustWorkspace(t, in, DefaultOptions())
	o, err := opt.NewDescent(opt.DescentConfig{StepSize: 0.1, Tol: 1e-7, MaxIterations: 5000, Algorithm: opt.BFGS2})
	if err != nil {
		t.Fatal(err)
	}
	r1, err := Reweight(descent, o)
	if err != nil {
		t.Fatal(err)
	}

	lbfgs := mustWorkspace(t, in, Options{Caching: false, Parallel: true, Workers: 3})
	cfg := opt.DefaultLBFGSConfig()
	cfg.Past = 0
	o, err = opt.NewLBFGS(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Reweight(lbfgs, o)
	if err != nil {
		t.Fatal(err)
	}

	// The objective is strictly convex in the weights, so both find the same ones.
	diff := 0.0
	for i := range r1.Weights {
		diff = math.Max(diff, math.Abs(r1.Weights[i]-r2.Weights[i]))
	}
	if diff > 1e-5 {
		t.Errorf("Weights differ by %g: %v vs %v", diff, r1.Weights, r2.Weights)
	}
}

func TestReweightMultipliers(t *testing.T) {
	ws := mustWorkspace(t, randomInputs(91, 3, 12, 1), DefaultOptions())
	o, err := opt.NewLBFGS(opt.DefaultLBFGSConfig())
	if err != nil {
		t.Fatal(err)
	}

	res, err := ReweightMultipliers(ws, o)
	if err != nil {
		t.Fatalf("ReweightMultipliers: %v", err)
	}
	checkResult(t, res, 12)
	if len(res.Multipliers) != 3 || len(res.Gradient) != 3 {
		t.Fatalf("Expected 3 multipliers and gradient entries, got %d and %d", len(res.Multipliers), len(res.Gradient))
	}

	params, err := ws.MultiplierParams(res.Multipliers)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(params, res.Params) {
		t.Error("Parameters do not match the final multipliers")
	}
}

func TestReweightMayfly(t *testing.T) {
	ws := newExampleWorkspace(t, DefaultOptions())
	o, err := opt.NewMayfly(opt.MayflyConfig{MaxIterations: 60, PopSize: 20, Bound: 5, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Reweight(ws, o)
	if err != nil {
		t.Fatalf("Reweight: %v", err)
	}
	checkResult(t, res, 3)
	if res.Status != opt.StatusIterationLimit {
		t.Errorf("Expected iteration_limit, got %s", res.Status)
	}
}
