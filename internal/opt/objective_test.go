package opt

import (
	"math"
	"slices"
)

// quadratic is f(x) = sum c_i (x_i - a_i)^2, minimum 0 at a.
type quadratic struct {
	c, a []float64
}

func newQuadratic() *quadratic {
	return &quadratic{
		c: []float64{1, 2, 3, 4},
		a: []float64{1, -2, 0.5, 3},
	}
}

func (q *quadratic) Dim() int { return len(q.c) }

func (q *quadratic) Evaluate(x, grad []float64) (float64, error) {
	var f float64
	for i := range x {
		d := x[i] - q.a[i]
		f += q.c[i] * d * d
		grad[i] = 2 * q.c[i] * d
	}
	return f, nil
}

// funcObjective adapts plain value/gradient functions.
type funcObjective struct {
	dim  int
	f    func(x []float64) float64
	grad func(grad, x []float64)
}

func (o funcObjective) Dim() int { return o.dim }

func (o funcObjective) Evaluate(x, grad []float64) (float64, error) {
	o.grad(grad, x)
	return o.f(x), nil
}

// nanObjective turns non-finite after the first evaluation.
type nanObjective struct {
	quadratic
	calls int
}

func (o *nanObjective) Evaluate(x, grad []float64) (float64, error) {
	o.calls++
	f, err := o.quadratic.Evaluate(x, grad)
	if o.calls > 1 {
		return math.NaN(), err
	}
	return f, err
}

func isNonIncreasing(trace []float64) bool {
	for i := 1; i < len(trace); i++ {
		if trace[i] > trace[i-1]+1e-12 {
			return false
		}
	}
	return true
}

func startPoint(dim int) []float64 {
	return slices.Repeat([]float64{0}, dim)
}
