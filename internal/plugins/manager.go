// Package plugins drives the plugin lifecycle: register (to a fixed point, so
// plugins can register children), initialize, activate, then core systems ready.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-mudcore/internal/hooks"
)

var (
	ErrStarted   = errors.New("plugin manager already started")
	ErrNilPlugin = errors.New("plugin is nil")
)

type PluginManager struct {
	host *Host

	mu      sync.Mutex
	plugins []Plugin
	started bool
}

func NewPluginManager(h *Host) *PluginManager {
	if h == nil {
		h = NewHost()
	}
	return &PluginManager{host: h}
}

// Host returns the engine state shared with plugins.
func (m *PluginManager) Host() *Host {
	return m.host
}

// Register appends p to the plugin list. Registering the same plugin twice
// runs its lifecycle twice.
func (m *PluginManager) Register(ctx context.Context, p Plugin) error {
	if p == nil {
		return ErrNilPlugin
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("registering %s: %w", p.Key(), ErrStarted)
	}

	m.plugins = append(m.plugins, p)
	slog.DebugContext(ctx, "registered plugin", "key", p.Key())
	return nil
}

// Plugins returns the registered plugins in registration order.
func (m *PluginManager) Plugins() []Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Plugin, len(m.plugins))
	copy(out, m.plugins)
	return out
}

func (m *PluginManager) at(i int) (Plugin, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i >= len(m.plugins) {
		return nil, false
	}
	return m.plugins[i], true
}

// Start runs every lifecycle phase. Any failure aborts startup.
func (m *PluginManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrStarted
	}
	m.mu.Unlock()

	// The list grows while we walk it; children land at the end and are
	// visited by this same loop.
	for i := 0; ; i++ {
		p, ok := m.at(i)
		if !ok {
			break
		}

		if r, ok := p.(Registrar); ok {
			if err := r.OnRegister(ctx, m); err != nil {
				return fmt.Errorf("registering plugin %s: %w", p.Key(), err)
			}
		}

		err := hooks.Dispatch(m.host.Hooks, PluginRegistered, func(fn PluginRegisteredFunc) error {
			return fn(ctx, p)
		})
		if err != nil {
			return fmt.Errorf("registering plugin %s: %w", p.Key(), err)
		}
	}

	m.mu.Lock()
	m.started = true
	plugins := m.plugins
	m.mu.Unlock()

	for _, p := range plugins {
		if in, ok := p.(Initializer); ok {
			if err := in.Initialize(ctx, m.host); err != nil {
				return fmt.Errorf("initializing plugin %s: %w", p.Key(), err)
			}
		}
	}
	slog.InfoContext(ctx, "plugins initialized", "count", len(plugins))

	for _, p := range plugins {
		if a, ok := p.(Activator); ok {
			if err := a.Activate(ctx, m.host); err != nil {
				return fmt.Errorf("activating plugin %s: %w", p.Key(), err)
			}
		}
	}
	slog.InfoContext(ctx, "plugins activated", "count", len(plugins))

	err := hooks.Dispatch(m.host.Hooks, CoreSystemsReady, func(fn CoreSystemsReadyFunc) error {
		return fn(ctx, m.host)
	})
	if err != nil {
		return fmt.Errorf("core systems ready: %w", err)
	}

	slog.InfoContext(ctx, "core systems ready", "systems", m.host.Systems.Kinds(), "commands", m.host.Commands.Names())
	return nil
}
