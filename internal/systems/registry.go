// Package systems holds the singleton game systems plugins register during
// initialization and look up from each other once the core is ready.
package systems

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Registry maps a system kind (its Go type) to the single registered instance.
type Registry struct {
	mu      sync.RWMutex
	systems map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{systems: make(map[reflect.Type]any)}
}

// Register stores sys under the kind T. Interface kinds must be named
// explicitly: Register[Broadcaster](r, impl).
func Register[T any](r *Registry, sys T) error {
	kind := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.systems[kind]; exists {
		return fmt.Errorf("%w: %s", ErrSystemExists, kind)
	}
	r.systems[kind] = sys
	return nil
}

// Get returns the system registered under the kind T.
func Get[T any](r *Registry) (T, error) {
	kind := reflect.TypeFor[T]()

	r.mu.RLock()
	defer r.mu.RUnlock()

	sys, ok := r.systems[kind]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrSystemNotFound, kind)
	}
	return sys.(T), nil
}

// MustGet is Get for startup wiring, where a missing system is a programming error.
func MustGet[T any](r *Registry) T {
	sys, err := Get[T](r)
	if err != nil {
		panic(err)
	}
	return sys
}

// Kinds returns the sorted names of every registered system kind.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.systems))
	for k := range r.systems {
		kinds = append(kinds, k.String())
	}
	slices.Sort(kinds)
	return kinds
}
