package fit

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cwbudde/bioenopt/internal/opt"
	"github.com/google/uuid"
)

// Result holds the output of a reweighting run
type Result struct {
	RunID string

	Weights     []float64 // Final weights, unit sum
	Params      []float64 // Final log-weight parameters
	Multipliers []float64 // Final force multipliers (multiplier runs only)
	Gradient    []float64 // Gradient at the final iterate, in the optimized coordinates

	InitialObjective float64
	FinalObjective   float64
	ChiSquared       float64 // Misfit part of the final objective
	Divergence       float64 // D(w‖w0) at the final weights

	Status      opt.Status
	Message     string
	Iterations  int
	Evaluations int
	Elapsed     time.Duration
	Trace       []float64 // Objective at every accepted iterate
}

// Converged reports whether the backend met its convergence test.
func (r *Result) Converged() bool {
	return r.Status == opt.StatusConverged
}

// ReweightWith builds the backend selected by cfg from r (nil means the
// default registry) and runs Reweight. A backend missing from the registry
// fails before the workspace is touched.
func ReweightWith(ws *Workspace, r *opt.Registry, cfg opt.BackendConfig) (*Result, error) {
	if r == nil {
		r = opt.DefaultRegistry()
	}
	o, err := r.New(cfg)
	if err != nil {
		return nil, err
	}
	return Reweight(ws, o)
}

// Reweight minimizes the objective over the log-weight parameters,
// starting from the current parameters. On success the workspace holds the
// final iterate; on failure it is left unchanged.
func Reweight(ws *Workspace, o opt.Optimizer) (*Result, error) {
	if ws == nil || o == nil {
		return nil, fmt.Errorf("%w: nil workspace or optimizer", ErrShapeMismatch)
	}
	runID := uuid.NewString()
	x0 := ws.Params()

	initial, err := ws.Value(x0)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting reweighting",
		"run_id", runID,
		"backend", string(o.Kind()),
		"members", ws.n,
		"channels", ws.m,
		"theta", ws.theta,
		"initial_objective", initial,
	)

	start := time.Now()
	res, err := o.Run(ws, x0)
	if err != nil {
		slog.Info("Reweighting failed", "run_id", runID, "error", err)
		return nil, err
	}

	out, err := ws.finish(runID, res.X, nil, res, initial, time.Since(start))
	if err != nil {
		return nil, err
	}
	slog.Info("Reweighting complete",
		"run_id", runID,
		"status", out.Status.String(),
		"iterations", out.Iterations,
		"initial_objective", out.InitialObjective,
		"final_objective", out.FinalObjective,
		"chi2", out.ChiSquared,
	)
	return out, nil
}

// ReweightMultipliers minimizes over the m force multipliers, starting from
// zero (the prior). The final multipliers are mapped back to parameters.
func ReweightMultipliers(ws *Workspace, o opt.Optimizer) (*Result, error) {
	if ws == nil || o == nil {
		return nil, fmt.Errorf("%w: nil workspace or optimizer", ErrShapeMismatch)
	}
	runID := uuid.NewString()
	obj := ws.Multipliers()
	lambda0 := make([]float64, ws.m)

	p0, err := ws.MultiplierParams(lambda0)
	if err != nil {
		return nil, err
	}
	initial, err := ws.Value(p0)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting multiplier reweighting",
		"run_id", runID,
		"backend", string(o.Kind()),
		"members", ws.n,
		"channels", ws.m,
		"theta", ws.theta,
	)

	start := time.Now()
	res, err := o.Run(obj, lambda0)
	if err != nil {
		slog.Info("Multiplier reweighting failed", "run_id", runID, "error", err)
		return nil, err
	}
	params, err := ws.MultiplierParams(res.X)
	if err != nil {
		return nil, err
	}

	out, err := ws.finish(runID, params, res.X, res, initial, time.Since(start))
	if err != nil {
		return nil, err
	}
	slog.Info("Multiplier reweighting complete",
		"run_id", runID,
		"status", out.Status.String(),
		"iterations", out.Iterations,
		"final_objective", out.FinalObjective,
	)
	return out, nil
}

// finish commits params and assembles the caller-facing result.
func (ws *Workspace) finish(runID string, params, multipliers []float64, res *opt.Result, initial float64, elapsed time.Duration) (*Result, error) {
	if err := ws.SetParams(params); err != nil {
		return nil, err
	}
	weights, err := ws.Weights()
	if err != nil {
		return nil, err
	}
	chi2, err := ws.ChiSquared()
	if err != nil {
		return nil, err
	}
	div, err := ws.Divergence()
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:            runID,
		Weights:          weights,
		Params:           ws.Params(),
		Multipliers:      slices.Clone(multipliers),
		Gradient:         slices.Clone(res.Gradient),
		InitialObjective: initial,
		FinalObjective:   res.F,
		ChiSquared:       chi2,
		Divergence:       div,
		Status:           res.Status,
		Message:          res.Message,
		Iterations:       res.Iterations,
		Evaluations:      res.Evaluations,
		Elapsed:          elapsed,
		Trace:            slices.Clone(res.Trace),
	}, nil
}
