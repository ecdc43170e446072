package fit

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// newExampleWorkspace builds the two-channel, three-member example:
// forces [1, 2], yTilde [[1 0 2] [0 1 1]], uniform prior, theta 1.
func newExampleWorkspace(t *testing.T, opts Options) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(Inputs{
		Forces:      []float64{1, 2},
		Prior:       []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		Observables: mat.NewDense(2, 3, []float64{1, 0, 2, 0, 1, 1}),
		Theta:       1,
	}, opts)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	return ws
}

// randomInputs returns a reproducible non-trivial problem.
func randomInputs(seed int64, m, n int, theta float64) Inputs {
	rng := rand.New(rand.NewSource(seed))
	y := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			y.Set(i, j, rng.NormFloat64()*2)
		}
	}
	forces := make([]float64, m)
	sigma := make([]float64, m)
	for i := range forces {
		forces[i] = rng.NormFloat64()
		sigma[i] = 0.5 + rng.Float64()
	}
	prior := make([]float64, n)
	for j := range prior {
		prior[j] = 0.1 + rng.Float64()
	}
	return Inputs{Forces: forces, Uncertainty: sigma, Prior: prior, Observables: y, Theta: theta}
}

func randomVector(seed int64, n int, scale float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64() * scale
	}
	return v
}

func mustWorkspace(t *testing.T, in Inputs, opts Options) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(in, opts)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	return ws
}
