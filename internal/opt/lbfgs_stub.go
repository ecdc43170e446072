//go:build nolbfgs

package opt

import "fmt"

// NewLBFGS reports the limited-memory backend as unavailable (stub for nolbfgs builds).
func NewLBFGS(_ LBFGSConfig) (Optimizer, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, unavailableMessages[KindLBFGS])
}
