//go:build !nodescent

package opt

import (
	"log/slog"

	"gonum.org/v1/gonum/optimize"
)

// Line-search constants of the descent family. CG needs a tight curvature
// factor for its directions to stay descent directions.
const (
	descentDecrease      = 1e-4
	cgCurvature          = 0.1
	quasiNewtonCurvature = 0.9
)

func init() {
	defaultRegistry.Register(KindDescent, func(cfg BackendConfig) (Optimizer, error) {
		return NewDescent(cfg.(DescentConfig))
	})
}

var descentStatuses = statusTable{
	optimize.NotTerminated:            {StatusFailure, ErrNumericalFailure, "solver stopped without a terminal status"},
	optimize.Success:                  {StatusConverged, nil, "success"},
	optimize.FunctionThreshold:        {StatusConverged, nil, "objective below threshold"},
	optimize.FunctionConvergence:      {StatusConverged, nil, "objective stalled"},
	optimize.GradientThreshold:        {StatusConverged, nil, "gradient norm below tolerance"},
	optimize.StepConvergence:          {StatusConverged, nil, "step size below tolerance"},
	optimize.FunctionNegativeInfinity: {StatusFailure, ErrNumericalFailure, "objective diverged to -Inf"},
	optimize.MethodConverge:           {StatusConverged, nil, "method converged"},
	optimize.Failure:                  {StatusFailure, ErrNumericalFailure, "line search failed"},
	optimize.IterationLimit:           {StatusIterationLimit, nil, "iteration limit reached"},
	optimize.RuntimeLimit:             {StatusIterationLimit, nil, "runtime limit reached"},
	optimize.FunctionEvaluationLimit:  {StatusIterationLimit, nil, "function evaluation limit reached"},
	optimize.GradientEvaluationLimit:  {StatusIterationLimit, nil, "gradient evaluation limit reached"},
	optimize.HessianEvaluationLimit:   {StatusIterationLimit, nil, "Hessian evaluation limit reached"},
}

// Descent drives gonum's conjugate-gradient, BFGS and steepest-descent
// minimizers under a gradient-norm convergence test.
type Descent struct {
	cfg       DescentConfig
	algorithm Algorithm
}

// NewDescent creates a descent-family optimizer. AlgorithmInherit is resolved
// against the process-wide selector here, once per optimizer.
func NewDescent(cfg DescentConfig) (Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	algorithm := cfg.Algorithm
	if algorithm == AlgorithmInherit {
		algorithm = CurrentAlgorithm()
	}
	return &Descent{cfg: cfg, algorithm: algorithm}, nil
}

// Kind implements Optimizer.
func (d *Descent) Kind() Kind { return KindDescent }

func (d *Descent) method() optimize.Method {
	step := &optimize.ConstantStepSize{Size: d.cfg.StepSize}
	switch d.algorithm {
	case ConjugateFR:
		return &optimize.CG{
			Linesearcher: &optimize.MoreThuente{DecreaseFactor: descentDecrease, CurvatureFactor: cgCurvature},
			Variant:      &optimize.FletcherReeves{},
			InitialStep:  step,
		}
	case ConjugatePR:
		return &optimize.CG{
			Linesearcher: &optimize.MoreThuente{DecreaseFactor: descentDecrease, CurvatureFactor: cgCurvature},
			Variant:      &optimize.PolakRibierePolyak{},
			InitialStep:  step,
		}
	case BFGS2:
		return &optimize.BFGS{
			Linesearcher: &optimize.MoreThuente{DecreaseFactor: descentDecrease, CurvatureFactor: quasiNewtonCurvature},
		}
	case BFGS:
		return &optimize.BFGS{
			Linesearcher: &optimize.Bisection{CurvatureFactor: quasiNewtonCurvature},
		}
	default:
		return &optimize.GradientDescent{
			Linesearcher: &optimize.Backtracking{DecreaseFactor: descentDecrease},
			StepSizer:    step,
		}
	}
}

// Run implements Optimizer.
func (d *Descent) Run(obj Objective, x0 []float64) (*Result, error) {
	slog.Debug("Starting descent minimization",
		"algorithm", d.algorithm.String(),
		"step_size", d.cfg.StepSize,
		"tol", d.cfg.Tol,
		"max_iterations", d.cfg.MaxIterations,
	)

	run := gonumRun{
		method:        d.method(),
		maxIterations: d.cfg.MaxIterations,
		gradTest:      gradientConverged(d.cfg.Tol),
		table:         descentStatuses,
	}
	res, err := run.run(obj, x0)
	if err != nil {
		return nil, err
	}

	slog.Debug("Descent minimization finished",
		"algorithm", d.algorithm.String(),
		"status", res.Status.String(),
		"message", res.Message,
		"iterations", res.Iterations,
		"f", res.F,
	)
	return res, nil
}
