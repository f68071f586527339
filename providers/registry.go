// Package providers maintains the registry of provider wire-protocol
// implementations. Concrete providers register themselves from init, so
// importing a provider package (usually for side effect) makes its kind
// available to New.
package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quillcms/quill/core"
)

// Factory builds a Provider for a given configuration.
type Factory func(cfg core.ProviderConfig) core.Provider

var (
	mu        sync.RWMutex
	factories = map[core.ProviderKind]Factory{}
)

// Register makes a provider kind available. Calling Register twice for
// the same kind panics; it indicates conflicting init registrations.
func Register(kind core.ProviderKind, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("providers: Register called twice for %q", kind))
	}
	factories[kind] = f
}

// New builds the provider implementation for cfg.Kind.
func New(cfg core.ProviderConfig) (core.Provider, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("providers: unknown provider kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(cfg), nil
}

// NewClient builds a core.Client wired to the provider selected by
// cfg.Kind.
func NewClient(cfg core.ProviderConfig, opts ...core.ClientOption) (*core.Client, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return core.NewClient(cfg, p, opts...), nil
}

// Kinds returns the registered provider kinds in sorted order.
func Kinds() []core.ProviderKind {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]core.ProviderKind, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
