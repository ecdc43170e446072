package opt

import "testing"

func TestDeltaTracker(t *testing.T) {
	c := NewDeltaTracker(DeltaConfig{Past: 2, Delta: 1e-3})

	values := []float64{10, 5, 2, 1.9999, 1.99985}
	stopped := -1
	for i, f := range values {
		if c.Update(f) {
			stopped = i
			break
		}
	}

	// |2 - 1.99985| / 1.99985 < 1e-3 at the fifth value
	if stopped != 4 {
		t.Errorf("Expected stop at index 4, got %d", stopped)
	}

	// After a reset the window must refill before the test can fire again.
	c.Reset()
	if c.Update(1.99985) || c.Update(1.99985) {
		t.Error("Reset did not clear history")
	}
	if !c.Update(1.99985) {
		t.Error("Expected stop once the window is full")
	}
}

func TestDeltaTrackerDisabled(t *testing.T) {
	c := NewDeltaTracker(DeltaConfig{Past: 0, Delta: 1})
	for i := 0; i < 10; i++ {
		if c.Update(1) {
			t.Fatal("Disabled tracker stopped the run")
		}
	}
}

func TestGradientTests(t *testing.T) {
	g := []float64{1e-6, -3e-6}
	if !gradientConverged(1e-5)(nil, g) {
		t.Error("Expected max|g| = 3e-6 below 1e-5")
	}
	if gradientConverged(1e-6)(nil, g) {
		t.Error("Expected max|g| = 3e-6 above 1e-6")
	}

	// ‖g‖ = 5, ‖x‖ = 100
	x := []float64{60, 80}
	g = []float64{3, 4}
	if !epsilonConverged(0.06)(x, g) {
		t.Error("Expected 0.05 below 0.06")
	}
	if epsilonConverged(0.04)(x, g) {
		t.Error("Expected 0.05 above 0.04")
	}
	// Small x does not amplify the ratio.
	if epsilonConverged(4)([]float64{0.1}, []float64{5}) {
		t.Error("Expected ‖x‖ clamped to 1")
	}
}

func TestWallTimeAdvances(t *testing.T) {
	t0 := WallTime()
	if t0 <= 0 {
		t.Fatalf("Expected positive wall time, got %f", t0)
	}
	if t1 := WallTime(); t1 < t0 {
		t.Errorf("Wall time went backwards: %f < %f", t1, t0)
	}
}
