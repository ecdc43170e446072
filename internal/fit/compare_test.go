package fit

import (
	"errors"
	"math"
	"testing"
)

func TestRelativeDifference(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{1, 1, 0},
		{1, 2, 0.5},
		{-2, 2, 2},
		{0, 3, 1},
	}
	for _, tt := range tests {
		if got := RelativeDifference(tt.a, tt.b); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("RelativeDifference(%g, %g) = %g, expected %g", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMaxRelativeDifference(t *testing.T) {
	got, err := MaxRelativeDifference([]float64{1, 2, 4}, []float64{1, 2.2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.25) > 1e-15 {
		t.Errorf("Expected 0.25, got %g", got)
	}

	if _, err := MaxRelativeDifference([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}
