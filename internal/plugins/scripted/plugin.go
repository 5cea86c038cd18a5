// Package scripted registers commands defined as JSON assets.
package scripted

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/storage"
)

const pluginKey = "scripted"

type Plugin struct {
	specs storage.Storer[*commands.ScriptSpec]
}

func NewPlugin(specs storage.Storer[*commands.ScriptSpec]) *Plugin {
	return &Plugin{specs: specs}
}

func (p *Plugin) Key() string {
	return pluginKey
}

// Activate registers every script in id order, after the built-in commands
// registered by earlier plugins.
func (p *Plugin) Activate(ctx context.Context, h *plugins.Host) error {
	if p.specs == nil {
		return nil
	}

	for _, id := range p.specs.Ids() {
		spec, ok := p.specs.Get(id)
		if !ok {
			continue
		}

		cmd, err := spec.Compile()
		if err != nil {
			return fmt.Errorf("compiling %s: %w", id, err)
		}
		if err := h.Commands.Register(cmd); err != nil {
			return fmt.Errorf("registering %s: %w", id, err)
		}
		slog.DebugContext(ctx, "registered scripted command", "id", id, "command", cmd.Name)
	}

	return nil
}
