package fit

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KernelMode selects how the matrix-vector products of one evaluation run.
type KernelMode int

const (
	KernelSerial   KernelMode = iota // Single goroutine
	KernelParallel                   // Fixed chunks over errgroup workers
)

func (k KernelMode) String() string {
	switch k {
	case KernelSerial:
		return "serial"
	case KernelParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// kernel computes the two projections of the evaluator. Every output entry
// is one floats.Dot over the same ordered operands in both modes, so serial
// and parallel results are bit-identical.
type kernel struct {
	mode    KernelMode
	workers int
	cols    [][]float64 // Column scratch per chunk for the uncached transpose
}

func newKernel(mode KernelMode, workers, m int) *kernel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if mode != KernelParallel {
		workers = 1
	}
	k := &kernel{mode: mode, workers: workers, cols: make([][]float64, workers)}
	for i := range k.cols {
		k.cols[i] = make([]float64, m)
	}
	slog.Debug("Evaluation kernel initialized", "mode", mode.String(), "workers", workers)
	return k
}

// chunks splits [0, n) into at most k.workers contiguous ranges and runs f
// on each. Chunk boundaries depend only on n and the worker count.
func (k *kernel) chunks(n int, f func(chunk, lo, hi int)) error {
	if k.mode != KernelParallel || k.workers == 1 || n < 2 {
		f(0, 0, n)
		return nil
	}
	workers := min(k.workers, n)
	size := (n + workers - 1) / workers

	var g errgroup.Group
	for c := 0; c < workers; c++ {
		lo, hi := c*size, min((c+1)*size, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			f(c, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// forward writes dst = a·x.
func (k *kernel) forward(dst []float64, a *mat.Dense, x []float64) error {
	rows, _ := a.Dims()
	return k.chunks(rows, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = floats.Dot(a.RawRowView(i), x)
		}
	})
}

// transposed writes dst = aᵀ·x, reading rows of aT when the cache supplies it.
func (k *kernel) transposed(dst []float64, a, aT *mat.Dense, x []float64) error {
	_, cols := a.Dims()
	if aT != nil {
		return k.chunks(cols, func(_, lo, hi int) {
			for j := lo; j < hi; j++ {
				dst[j] = floats.Dot(aT.RawRowView(j), x)
			}
		})
	}
	return k.chunks(cols, func(chunk, lo, hi int) {
		col := k.cols[chunk]
		for j := lo; j < hi; j++ {
			mat.Col(col, j, a)
			dst[j] = floats.Dot(col, x)
		}
	})
}
