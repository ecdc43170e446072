package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/bioenopt/internal/opt"
	"gonum.org/v1/gonum/floats"
)

func TestWeightsNormalized(t *testing.T) {
	prior := []float64{0.1, 0.4, 0.2, 0.2, 0.1}
	cases := [][]float64{
		{0, 0, 0, 0, 0},
		{1, -1, 2, -2, 0.5},
		{700, 690, -700, 0, 1},
		{-800, -800, -800, -800, -800},
		randomVector(3, 5, 30),
	}

	for _, params := range cases {
		w, err := Weights(prior, params)
		if err != nil {
			t.Fatalf("Weights(%v): %v", params, err)
		}
		for i, v := range w {
			if v < 0 || math.IsNaN(v) {
				t.Errorf("Weight %d = %g for params %v", i, v, params)
			}
		}
		if sum := floats.Sum(w); math.Abs(sum-1) > 1e-10 {
			t.Errorf("Weights sum to %.15f for params %v", sum, params)
		}
	}
}

func TestWeightsAtZeroEqualPrior(t *testing.T) {
	prior := []float64{2, 1, 1}
	w, err := Weights(prior, []float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.5, 0.25, 0.25}
	if !floats.EqualApprox(w, want, 1e-15) {
		t.Errorf("Expected %v, got %v", want, w)
	}
}

func TestWeightsZeroPriorMember(t *testing.T) {
	w, err := Weights([]float64{0, 1, 1}, []float64{50, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if w[0] != 0 {
		t.Errorf("Zero-prior member got weight %g", w[0])
	}
	if math.Abs(w[1]-0.5) > 1e-15 {
		t.Errorf("Expected 0.5, got %g", w[1])
	}
}

func TestWeightsErrors(t *testing.T) {
	if _, err := Weights([]float64{1, -1}, []float64{0, 0}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Negative prior: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Weights([]float64{0, 0}, []float64{0, 0}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Zero prior: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Weights([]float64{1, 1}, []float64{0}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Length mismatch: expected ErrShapeMismatch, got %v", err)
	}
	if _, err := Weights([]float64{1, 1}, []float64{math.NaN(), 0}); !errors.Is(err, opt.ErrNumericalFailure) {
		t.Errorf("NaN parameter: expected ErrNumericalFailure, got %v", err)
	}
}

func TestTiltWeightsLogPartition(t *testing.T) {
	logPrior, err := logNormalized([]float64{1, 2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	params := []float64{0.3, -1.2, 4, 2}

	w := make([]float64, 4)
	logZ, err := tiltWeights(w, logPrior, params)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Log(0.25*math.Exp(0.3) + 0.5*math.Exp(-1.2) + 0.25*math.Exp(2))
	if math.Abs(logZ-want) > 1e-14 {
		t.Errorf("Expected log Z %.17g, got %.17g", want, logZ)
	}
	if w[2] != 0 {
		t.Errorf("Zero-prior member got weight %g", w[2])
	}

	// Shifting every parameter by a constant shifts log Z and keeps w.
	shifted := []float64{1000.3, 998.8, 1004, 1002}
	ws := make([]float64, 4)
	logZs, err := tiltWeights(ws, logPrior, shifted)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(logZs-(want+1000)) > 1e-10 {
		t.Errorf("Expected log Z %.17g, got %.17g", want+1000, logZs)
	}
	if !floats.EqualApprox(w, ws, 1e-13) {
		t.Errorf("Shift changed weights: %v vs %v", w, ws)
	}
}
