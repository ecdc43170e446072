//go:build !nolbfgs

package opt

import (
	"log/slog"

	"gonum.org/v1/gonum/optimize"
)

func init() {
	defaultRegistry.Register(KindLBFGS, func(cfg BackendConfig) (Optimizer, error) {
		return NewLBFGS(cfg.(LBFGSConfig))
	})
}

// Messages follow lbfgs_strerror so logs read the same as the C tooling.
var lbfgsStatuses = statusTable{
	optimize.NotTerminated:            {StatusFailure, ErrLineSearch, "the line-search routine stopped without a terminal status"},
	optimize.Success:                  {StatusConverged, nil, "success: reached convergence"},
	optimize.FunctionThreshold:        {StatusConverged, nil, "success: objective below threshold"},
	optimize.FunctionConvergence:      {StatusConverged, nil, "success: met stopping criteria (delta)"},
	optimize.GradientThreshold:        {StatusConverged, nil, "success: reached convergence (epsilon)"},
	optimize.StepConvergence:          {StatusConverged, nil, "success: the initial variables already minimize the objective function"},
	optimize.FunctionNegativeInfinity: {StatusFailure, ErrNumericalFailure, "the objective function diverged to -Inf"},
	optimize.MethodConverge:           {StatusConverged, nil, "success: reached convergence (gtol)"},
	optimize.Failure:                  {StatusFailure, ErrLineSearch, "the line-search step went out of the interval of uncertainty"},
	optimize.IterationLimit:           {StatusIterationLimit, nil, "the algorithm routine reaches the maximum number of iterations"},
	optimize.RuntimeLimit:             {StatusIterationLimit, nil, "the algorithm routine reaches the runtime limit"},
	optimize.FunctionEvaluationLimit:  {StatusIterationLimit, nil, "the algorithm routine reaches the maximum number of evaluations"},
	optimize.GradientEvaluationLimit:  {StatusIterationLimit, nil, "the algorithm routine reaches the maximum number of evaluations"},
	optimize.HessianEvaluationLimit:   {StatusIterationLimit, nil, "the algorithm routine reaches the maximum number of evaluations"},
}

// LBFGSStatusMessage returns the message reported for a gonum status.
func LBFGSStatusMessage(s optimize.Status) string {
	return lbfgsStatuses.lookup(s).message
}

// LBFGS drives gonum's limited-memory BFGS under liblbfgs-style convergence
// tests and line-search policies.
type LBFGS struct {
	cfg LBFGSConfig
}

// NewLBFGS creates a limited-memory quasi-Newton optimizer.
func NewLBFGS(cfg LBFGSConfig) (Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LBFGS{cfg: cfg}, nil
}

// Kind implements Optimizer.
func (l *LBFGS) Kind() Kind { return KindLBFGS }

func (l *LBFGS) linesearcher() optimize.Linesearcher {
	switch l.cfg.LineSearch {
	case BacktrackingArmijo:
		return &optimize.Backtracking{DecreaseFactor: l.cfg.Ftol}
	case BacktrackingWolfe:
		return &optimize.Bisection{CurvatureFactor: l.cfg.Gtol}
	case BacktrackingStrongWolfe:
		// MoreThuente enforces the strong Wolfe conditions.
		return &optimize.MoreThuente{DecreaseFactor: l.cfg.Ftol, CurvatureFactor: l.cfg.Gtol}
	default:
		return &optimize.MoreThuente{DecreaseFactor: l.cfg.Ftol, CurvatureFactor: l.cfg.Gtol}
	}
}

// Run implements Optimizer.
func (l *LBFGS) Run(obj Objective, x0 []float64) (*Result, error) {
	slog.Debug("Starting limited-memory minimization",
		"linesearch", l.cfg.LineSearch.String(),
		"history", l.cfg.History,
		"epsilon", l.cfg.Epsilon,
		"past", l.cfg.Past,
		"delta", l.cfg.Delta,
		"max_iterations", l.cfg.MaxIterations,
	)

	var delta *DeltaTracker
	if l.cfg.Past > 0 {
		delta = NewDeltaTracker(DeltaConfig{Past: l.cfg.Past, Delta: l.cfg.Delta})
	}

	run := gonumRun{
		method: &optimize.LBFGS{
			Linesearcher: l.linesearcher(),
			Store:        l.cfg.History,
		},
		maxIterations: l.cfg.MaxIterations,
		gradTest:      epsilonConverged(l.cfg.Epsilon),
		delta:         delta,
		maxLineSearch: l.cfg.MaxLineSearch,
		table:         lbfgsStatuses,
	}
	res, err := run.run(obj, x0)
	if err != nil {
		return nil, err
	}

	slog.Debug("Limited-memory minimization finished",
		"status", res.Status.String(),
		"message", res.Message,
		"iterations", res.Iterations,
		"f", res.F,
	)
	return res, nil
}
