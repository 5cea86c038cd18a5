// Package hooks is a typed publish/subscribe registry. A hook capability is a
// named contract with a fixed call signature F; publishers and subscribers only
// share the Hook value, never each other's types.
package hooks

import (
	"errors"
	"fmt"
	"sync"
)

// ErrZeroHook is returned when dispatching through a Hook not made by New.
var ErrZeroHook = errors.New("hook was not created with New")

type key struct {
	name string
}

// Hook identifies a capability whose subscribers have the call signature F.
// Two hooks created by separate New calls never collide, even with the same name.
// The zero Hook identifies nothing.
type Hook[F any] struct {
	key *key
}

// New creates a hook capability. Declare hooks as package level variables.
func New[F any](name string) Hook[F] {
	return Hook[F]{key: &key{name: name}}
}

// Name returns the name the hook was created with.
func (h Hook[F]) Name() string {
	if h.key == nil {
		return ""
	}
	return h.key.name
}

// Registry holds the ordered subscriber lists for every hook capability.
type Registry struct {
	mu   sync.RWMutex
	subs map[*key][]any
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[*key][]any)}
}

// Subscribe appends fn to the hook's subscriber list. Subscribing the same
// value twice means it will be invoked twice. It panics on the zero Hook.
func Subscribe[F any](r *Registry, h Hook[F], fn F) {
	if h.key == nil {
		panic(ErrZeroHook)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[h.key] = append(r.subs[h.key], fn)
}

// Count returns the number of subscribers currently registered for the hook.
func Count[F any](r *Registry, h Hook[F]) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs[h.key])
}

// Subscribers returns a snapshot of the hook's subscribers in subscription order.
func Subscribers[F any](r *Registry, h Hook[F]) []F {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[h.key]
	out := make([]F, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.(F))
	}
	return out
}

// Dispatch calls call once for every subscriber, in subscription order, on the
// calling goroutine. The first error stops the dispatch and is returned.
func Dispatch[F any](r *Registry, h Hook[F], call func(F) error) error {
	if h.key == nil {
		return ErrZeroHook
	}
	for i, fn := range Subscribers(r, h) {
		if err := call(fn); err != nil {
			return fmt.Errorf("hook %s subscriber %d: %w", h.Name(), i, err)
		}
	}
	return nil
}

// Resolve asks each subscriber in order for a result and returns the first one
// supplied. ok is false when no subscriber supplied a result.
func Resolve[F any, R any](r *Registry, h Hook[F], call func(F) (R, bool, error)) (res R, ok bool, err error) {
	if h.key == nil {
		return res, false, ErrZeroHook
	}
	for i, fn := range Subscribers(r, h) {
		res, ok, err = call(fn)
		if err != nil {
			var zero R
			return zero, false, fmt.Errorf("hook %s subscriber %d: %w", h.Name(), i, err)
		}
		if ok {
			return res, true, nil
		}
	}
	var zero R
	return zero, false, nil
}
