package plugins

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/hooks"
	"github.com/pixil98/go-mudcore/internal/systems"
)

// Plugin is a unit of feature code. A plugin takes part in a lifecycle phase by
// also implementing Registrar, Initializer or Activator.
type Plugin interface {
	Key() string
}

// Registrar is called once when the plugin is registered, before any plugin
// is initialized. Use it to register child plugins.
type Registrar interface {
	OnRegister(ctx context.Context, m *PluginManager) error
}

// Initializer registers game systems.
type Initializer interface {
	Initialize(ctx context.Context, h *Host) error
}

// Activator registers commands and hook subscriptions.
type Activator interface {
	Activate(ctx context.Context, h *Host) error
}

// Host is the shared engine state handed to lifecycle callbacks.
type Host struct {
	Hooks    *hooks.Registry
	Systems  *systems.Registry
	Commands *commands.Registry
}

func NewHost() *Host {
	return &Host{
		Hooks:    hooks.NewRegistry(),
		Systems:  systems.NewRegistry(),
		Commands: commands.NewRegistry(),
	}
}

type (
	PluginRegisteredFunc func(ctx context.Context, p Plugin) error
	CoreSystemsReadyFunc func(ctx context.Context, h *Host) error
)

var (
	// PluginRegistered fires after each plugin's OnRegister.
	PluginRegistered = hooks.New[PluginRegisteredFunc]("plugin_registered")

	// CoreSystemsReady fires once after every plugin is activated. It is the
	// point to resolve references to other plugins' systems.
	CoreSystemsReady = hooks.New[CoreSystemsReadyFunc]("core_systems_ready")
)
