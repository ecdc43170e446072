package opt

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// DefaultAlgorithm is the descent algorithm selected at process start.
const DefaultAlgorithm = BFGS2

// Settings is the per-run view of the process-wide switches. Runs should
// receive it explicitly; the package-level accessors below exist for call
// sites that only need to observe the current value.
type Settings struct {
	Algorithm Algorithm // Descent algorithm used when a config inherits it
	Parallel  bool      // Multi-core evaluation of the misfit/gradient kernel
}

// DefaultSettings returns the process defaults: BFGS2, serial kernel.
func DefaultSettings() Settings {
	return Settings{Algorithm: DefaultAlgorithm, Parallel: false}
}

// Process-wide state. Writes are expected between runs only; reads are safe
// from concurrently running evaluations.
var (
	activeAlgorithm atomic.Int32
	parallelFlag    atomic.Bool
)

func init() {
	ResetSettings()
}

// SetAlgorithm changes the process-wide descent algorithm. Out-of-range
// identifiers are rejected, never clamped.
func SetAlgorithm(a Algorithm) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	activeAlgorithm.Store(int32(a))
	slog.Debug("Descent algorithm selected", "algorithm", a.String())
	return nil
}

// CurrentAlgorithm returns the process-wide descent algorithm.
func CurrentAlgorithm() Algorithm {
	return Algorithm(activeAlgorithm.Load())
}

// SetParallel toggles parallel kernel evaluation for subsequently created workspaces.
func SetParallel(enabled bool) {
	parallelFlag.Store(enabled)
	slog.Debug("Parallel kernel toggled", "enabled", enabled)
}

// ParallelEnabled reports the process-wide parallelism flag.
func ParallelEnabled() bool {
	return parallelFlag.Load()
}

// CurrentSettings snapshots both switches.
func CurrentSettings() Settings {
	return Settings{Algorithm: CurrentAlgorithm(), Parallel: ParallelEnabled()}
}

// Apply stores s as the process-wide state.
func (s Settings) Apply() error {
	if err := SetAlgorithm(s.Algorithm); err != nil {
		return err
	}
	SetParallel(s.Parallel)
	return nil
}

// ResetSettings restores the defaults.
func ResetSettings() {
	d := DefaultSettings()
	activeAlgorithm.Store(int32(d.Algorithm))
	parallelFlag.Store(d.Parallel)
}
