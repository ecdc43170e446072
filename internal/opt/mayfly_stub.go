//go:build nomayfly

package opt

import "fmt"

// NewMayfly reports the mayfly backend as unavailable (stub for nomayfly builds).
func NewMayfly(_ MayflyConfig) (Optimizer, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, unavailableMessages[KindMayfly])
}
