package opt

import "time"

// Objective is a smooth function of Dim parameters. Evaluate returns the value
// at x and writes the gradient into grad; both must come from the same
// evaluation. Evaluate must not modify x.
type Objective interface {
	Dim() int
	Evaluate(x, grad []float64) (float64, error)
}

// valuer is implemented by objectives that can skip the gradient.
type valuer interface {
	Value(x []float64) (float64, error)
}

// Optimizer defines a minimization backend
type Optimizer interface {
	// Kind reports the backend family
	Kind() Kind

	// Run minimizes obj starting from x0 (which is not modified).
	// A run that stops on its iteration cap returns a usable Result with
	// StatusIterationLimit and a nil error.
	Run(obj Objective, x0 []float64) (*Result, error)
}

// Status is the terminal state of a run
type Status int

const (
	StatusConverged      Status = iota // Convergence test satisfied
	StatusIterationLimit               // Iteration budget exhausted, result unconverged
	StatusFailure                      // Aborted, see the returned error
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusIterationLimit:
		return "iteration_limit"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result holds the output of a minimization run
type Result struct {
	X        []float64 // Best iterate
	F        float64   // Objective at X
	Gradient []float64 // Gradient at X

	Status      Status
	Message     string // Backend description of the stop reason
	Iterations  int
	Evaluations int
	Elapsed     time.Duration

	// Trace holds the objective at every accepted iterate, starting point first
	Trace []float64
}
