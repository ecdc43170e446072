package fit

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCacheLifecycle(t *testing.T) {
	var c Cache
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	if _, err := c.Get(a); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Empty cache: expected ErrCacheMiss, got %v", err)
	}

	if err := c.Enable(a); err != nil {
		t.Fatal(err)
	}
	aT, err := c.Get(a)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r, cols := aT.Dims(); r != 3 || cols != 2 {
		t.Fatalf("Expected 3×2 transpose, got %d×%d", r, cols)
	}
	if !mat.Equal(aT, a.T()) {
		t.Errorf("Cached matrix is not the transpose")
	}

	b := mat.DenseCopyOf(a)
	if _, err := c.Get(b); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Different matrix: expected ErrCacheMiss, got %v", err)
	}

	c.Disable()
	if c.Enabled() {
		t.Error("Expected disabled cache")
	}
	if _, err := c.Get(a); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Disabled cache: expected ErrCacheMiss, got %v", err)
	}

	if err := c.Enable(nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Nil matrix: expected ErrShapeMismatch, got %v", err)
	}
}

func TestCacheReenableResizes(t *testing.T) {
	var c Cache
	if err := c.Enable(mat.NewDense(2, 3, nil)); err != nil {
		t.Fatal(err)
	}
	b := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	if err := c.Enable(b); err != nil {
		t.Fatal(err)
	}
	bT, err := c.Get(b)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(bT, b.T()) {
		t.Error("Re-enabled cache holds a wrong transpose")
	}
}

func TestCacheEnableRejectsEmptyMatrix(t *testing.T) {
	var c Cache
	for _, m := range []*mat.Dense{nil, {}} {
		if err := c.Enable(m); !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("Expected ErrShapeMismatch, got %v", err)
		}
		if c.Enabled() {
			t.Error("Cache enabled from an empty matrix")
		}
	}
}
