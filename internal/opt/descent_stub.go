//go:build nodescent

package opt

import "fmt"

// NewDescent reports the descent backend as unavailable (stub for nodescent builds).
func NewDescent(_ DescentConfig) (Optimizer, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, unavailableMessages[KindDescent])
}
