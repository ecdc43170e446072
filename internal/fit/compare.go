package fit

import (
	"fmt"
	"math"
)

// RelativeDifference returns |a−b| / max(|a|, |b|), or 0 when both are zero.
func RelativeDifference(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}

// MaxRelativeDifference returns the largest entry-wise RelativeDifference.
func MaxRelativeDifference(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d entries", ErrShapeMismatch, len(a), len(b))
	}
	var worst float64
	for i := range a {
		worst = math.Max(worst, RelativeDifference(a[i], b[i]))
	}
	return worst, nil
}
