package opt

import (
	"fmt"
	"strings"
	"sync"
)

// Kind identifies a minimizer backend family.
type Kind string

const (
	KindDescent Kind = "descent" // CG / BFGS / steepest descent line-search minimizers
	KindLBFGS   Kind = "lbfgs"   // Limited-memory quasi-Newton minimizer
	KindMayfly  Kind = "mayfly"  // Derivative-free mayfly metaheuristic
)

// Fixed messages returned when a backend was compiled out.
var unavailableMessages = map[Kind]string{
	KindDescent: "bioenopt was not compiled with the descent backend (built with -tags nodescent).",
	KindLBFGS:   "bioenopt was not compiled with the limited-memory backend (built with -tags nolbfgs).",
	KindMayfly:  "bioenopt was not compiled with the mayfly backend (built with -tags nomayfly).",
}

// BackendConfig is a configuration record for one backend family. The
// concrete type selects the backend.
type BackendConfig interface {
	Kind() Kind
}

// Factory builds an optimizer from its configuration record.
type Factory func(cfg BackendConfig) (Optimizer, error)

// NormalizeKind maps arbitrary user input to a canonical backend identifier.
func NormalizeKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "descent", "gsl", "multimin":
		return KindDescent
	case "lbfgs", "l-bfgs", "liblbfgs":
		return KindLBFGS
	case "mayfly":
		return KindMayfly
	default:
		return Kind(name)
	}
}

// SupportedKinds returns the list of backends understood by the registry.
func SupportedKinds() []Kind {
	return []Kind{KindDescent, KindLBFGS, KindMayfly}
}

func known(kind Kind) bool {
	_, ok := unavailableMessages[kind]
	return ok
}

// Registry maps backend kinds to the factories compiled into this binary.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register installs the factory for kind, replacing any previous one.
func (r *Registry) Register(kind Kind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// IsAvailable reports whether kind can be constructed from r.
func (r *Registry) IsAvailable(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[kind]
	return ok
}

// New constructs the backend selected by cfg. It fails fast with
// ErrBackendUnavailable when the backend is not compiled in.
func (r *Registry) New(cfg BackendConfig) (Optimizer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrUnknownBackend)
	}
	kind := cfg.Kind()
	if !known(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}

	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, unavailableMessages[kind])
	}
	return f(cfg)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry populated with the backends of this build.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// New constructs a backend from the default registry.
func New(cfg BackendConfig) (Optimizer, error) {
	return defaultRegistry.New(cfg)
}

// IsAvailable reports whether kind was compiled into this build.
func IsAvailable(kind Kind) bool {
	return defaultRegistry.IsAvailable(kind)
}

// UnavailableMessage returns the fixed message reported for a compiled-out kind.
func UnavailableMessage(kind Kind) string {
	return unavailableMessages[kind]
}
