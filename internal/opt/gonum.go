//go:build !nodescent || !nolbfgs

package opt

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// errSolverPanic wraps a panic raised inside gonum (line searchers panic on
// malformed directions); it is classified like optimize.Failure.
var errSolverPanic = errors.New("solver panic")

const msgMaxLineSearch = "the line-search routine reaches the maximum number of evaluations"

// outcome is this module's reading of one gonum status.
type outcome struct {
	status  Status
	kind    error // Error kind for failures, nil otherwise
	message string
}

// statusTable translates every gonum status into an outcome. Each backend
// owns one so callers never observe gonum codes.
type statusTable map[optimize.Status]outcome

func (t statusTable) lookup(s optimize.Status) outcome {
	if o, ok := t[s]; ok {
		return o
	}
	return outcome{StatusFailure, ErrNumericalFailure, "unrecognized solver status " + s.String()}
}

func ownKind(err error) bool {
	return errors.Is(err, ErrNumericalFailure) || errors.Is(err, ErrLineSearch) || errors.Is(err, ErrShapeMismatch)
}

// translate maps a gonum status and error into a Status and, for failures,
// an error wrapping one of this package's kinds.
func (t statusTable) translate(s optimize.Status, err error) (Status, string, error) {
	o := t.lookup(s)
	switch {
	case err != nil && ownKind(err):
		return StatusFailure, o.message, err
	case err != nil:
		kind := o.kind
		if kind == nil {
			kind = t.lookup(optimize.Failure).kind
		}
		return StatusFailure, o.message, fmt.Errorf("%w: %s: %v", kind, o.message, err)
	case o.kind != nil:
		return StatusFailure, o.message, fmt.Errorf("%w: %s", o.kind, o.message)
	}
	return o.status, o.message, nil
}

// monitor is the gonum Converger of every run. gonum calls it once per
// accepted iterate, so it also records the trace and resets the per-iteration
// evaluation counter.
type monitor struct {
	memo     *evalMemo
	gradTest func(x, g []float64) bool // Reported as GradientThreshold
	delta    *DeltaTracker             // Reported as FunctionConvergence
	trace    []float64
}

func (m *monitor) Init(dim int) {
	m.trace = m.trace[:0]
	if m.delta != nil {
		m.delta.Reset()
	}
}

func (m *monitor) Converged(loc *optimize.Location) optimize.Status {
	m.trace = append(m.trace, loc.F)
	m.memo.markIteration()

	if m.gradTest != nil && loc.Gradient != nil && m.gradTest(loc.X, loc.Gradient) {
		return optimize.GradientThreshold
	}
	if m.delta != nil && m.delta.Update(loc.F) {
		return optimize.FunctionConvergence
	}
	return optimize.NotTerminated
}

// gonumRun is one configured call into optimize.Minimize.
type gonumRun struct {
	method        optimize.Method
	maxIterations int
	gradTest      func(x, g []float64) bool
	delta         *DeltaTracker
	maxLineSearch int // Zero disables the per-iteration evaluation cap
	table         statusTable
}

func (r gonumRun) run(obj Objective, x0 []float64) (*Result, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil objective", ErrShapeMismatch)
	}
	n := obj.Dim()
	if n <= 0 || len(x0) != n {
		return nil, fmt.Errorf("%w: starting point has %d entries, objective expects %d", ErrShapeMismatch, len(x0), n)
	}

	memo := newEvalMemo(obj)
	mon := &monitor{memo: memo, gradTest: r.gradTest, delta: r.delta}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f, _, err := memo.at(x)
			if err != nil {
				return math.NaN()
			}
			return f
		},
		Grad: func(grad, x []float64) {
			_, g, err := memo.at(x)
			if err != nil {
				for i := range grad {
					grad[i] = math.NaN()
				}
				return
			}
			copy(grad, g)
		},
		Status: func() (optimize.Status, error) {
			if memo.err != nil {
				return optimize.Failure, memo.err
			}
			if r.maxLineSearch > 0 && memo.sinceMajor > r.maxLineSearch {
				return optimize.Failure, fmt.Errorf("%w: %s", ErrLineSearch, msgMaxLineSearch)
			}
			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{
		MajorIterations: r.maxIterations,
		Converger:       mon,
	}

	start := time.Now()
	result, err := minimizeSafely(problem, x0, settings, r.method)
	elapsed := time.Since(start)

	solverStatus := optimize.Failure
	if result != nil {
		solverStatus = result.Status
	}
	if err != nil && memo.err != nil {
		// gonum rejects non-finite values with its own error text.
		err = memo.err
	}
	status, message, err := r.table.translate(solverStatus, err)
	if err != nil {
		slog.Debug("Solver failed", "solver_status", solverStatus.String(), "evaluations", memo.evals, "error", err)
		return nil, err
	}

	res := &Result{
		X:           slices.Clone(result.X),
		F:           result.F,
		Gradient:    slices.Clone(result.Gradient),
		Status:      status,
		Message:     message,
		Iterations:  result.MajorIterations,
		Evaluations: memo.evals,
		Elapsed:     elapsed,
		Trace:       slices.Clone(mon.trace),
	}
	if len(res.Trace) == 0 {
		res.Trace = []float64{res.F}
	}
	return res, nil
}

func minimizeSafely(p optimize.Problem, x0 []float64, settings *optimize.Settings, method optimize.Method) (result *optimize.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", errSolverPanic, r)
		}
	}()
	return optimize.Minimize(p, x0, settings, method)
}
