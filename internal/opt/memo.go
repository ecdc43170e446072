package opt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// evalMemo pairs value and gradient callbacks that gonum issues separately
// for the same point, so both come from one Evaluate call.
type evalMemo struct {
	obj   Objective
	x     []float64
	f     float64
	grad  []float64
	err   error
	valid bool

	evals      int // Total Evaluate calls
	sinceMajor int // Evaluate calls since the last accepted iterate
}

func newEvalMemo(obj Objective) *evalMemo {
	n := obj.Dim()
	return &evalMemo{
		obj:  obj,
		x:    make([]float64, n),
		grad: make([]float64, n),
	}
}

func (m *evalMemo) at(x []float64) (float64, []float64, error) {
	if m.valid && floats.Equal(m.x, x) {
		return m.f, m.grad, m.err
	}
	copy(m.x, x)
	m.f, m.err = m.obj.Evaluate(m.x, m.grad)
	if m.err == nil {
		m.err = checkFinite(m.f, m.grad)
	}
	m.valid = true
	m.evals++
	m.sinceMajor++
	return m.f, m.grad, m.err
}

// markIteration is called once per accepted iterate.
func (m *evalMemo) markIteration() {
	m.sinceMajor = 0
}

func checkFinite(f float64, grad []float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: objective is %g", ErrNumericalFailure, f)
	}
	for i, v := range grad {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: gradient[%d] is %g", ErrNumericalFailure, i, v)
		}
	}
	return nil
}
