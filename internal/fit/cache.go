package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cache holds the transpose of the normalized observable matrix so the
// gradient projection reads contiguous rows instead of strided columns.
// It costs one extra n×m buffer and belongs to a single workspace.
type Cache struct {
	enabled bool
	source  *mat.Dense
	yTildeT *mat.Dense
}

// Enable stores the transpose of m and remembers m as its source.
func (c *Cache) Enable(m *mat.Dense) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("%w: empty matrix", ErrShapeMismatch)
	}
	r, cols := m.Dims()
	if c.yTildeT == nil {
		c.yTildeT = mat.NewDense(cols, r, nil)
	} else if tr, tc := c.yTildeT.Dims(); tr != cols || tc != r {
		c.yTildeT = mat.NewDense(cols, r, nil)
	}
	c.yTildeT.Copy(m.T())
	c.source = m
	c.enabled = true
	return nil
}

// Disable drops the cached transpose.
func (c *Cache) Disable() {
	c.enabled = false
	c.source = nil
	c.yTildeT = nil
}

// Enabled reports whether a transpose is currently held.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get returns the cached transpose of m. A disabled cache, or one filled
// from a different matrix, yields ErrCacheMiss.
func (c *Cache) Get(m *mat.Dense) (*mat.Dense, error) {
	if !c.enabled {
		return nil, fmt.Errorf("%w: caching disabled", ErrCacheMiss)
	}
	if m != c.source {
		return nil, fmt.Errorf("%w: stale transpose", ErrCacheMiss)
	}
	return c.yTildeT, nil
}
