// Package base is the root plugin. It registers the core game systems and the
// built-in feature plugins.
package base

import (
	"context"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/dice"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/plugins/chat"
	"github.com/pixil98/go-mudcore/internal/plugins/dicegame"
	"github.com/pixil98/go-mudcore/internal/plugins/newplayer"
	"github.com/pixil98/go-mudcore/internal/systems"
)

const (
	baseKey = "base"
)

type BasePlugin struct {
	dice *dice.System
}

// NewBasePlugin creates the root plugin. A nil dice system rolls the default
// pool against the global source.
func NewBasePlugin(ds *dice.System) *BasePlugin {
	if ds == nil {
		ds = dice.NewSystem(nil, dice.DefaultPool)
	}
	return &BasePlugin{dice: ds}
}

func (p *BasePlugin) Key() string {
	return baseKey
}

func (p *BasePlugin) OnRegister(ctx context.Context, m *plugins.PluginManager) error {
	children := []plugins.Plugin{
		newplayer.NewPlugin(),
		chat.NewPlugin(),
		dicegame.NewPlugin(),
	}
	for _, c := range children {
		if err := m.Register(ctx, c); err != nil {
			return fmt.Errorf("registering %s: %w", c.Key(), err)
		}
	}
	return nil
}

func (p *BasePlugin) Initialize(ctx context.Context, h *plugins.Host) error {
	store := entity.NewStore()

	if err := systems.Register(h.Systems, store); err != nil {
		return err
	}
	if err := systems.Register(h.Systems, entity.NewActionSystem(store)); err != nil {
		return err
	}
	if err := systems.Register(h.Systems, h.Commands); err != nil {
		return err
	}
	return systems.Register(h.Systems, p.dice)
}
