package newplayer

import (
	"context"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/hooks"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/systems"
)

const pluginKey = "newplayer"

type Plugin struct {
	sys *System
}

func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Key() string {
	return pluginKey
}

func (p *Plugin) Initialize(ctx context.Context, h *plugins.Host) error {
	p.sys = NewSystem(h.Hooks)
	return systems.Register(h.Systems, p.sys)
}

func (p *Plugin) Activate(ctx context.Context, h *plugins.Host) error {
	hooks.Subscribe(h.Hooks, plugins.CoreSystemsReady, p.onCoreSystemsReady)
	return nil
}

func (p *Plugin) onCoreSystemsReady(ctx context.Context, h *plugins.Host) error {
	store, err := systems.Get[*entity.Store](h.Systems)
	if err != nil {
		return err
	}
	actions, err := systems.Get[*entity.ActionSystem](h.Systems)
	if err != nil {
		return err
	}

	err = store.RegisterKind(KindAvatar, func(b *entity.Base) entity.Entity {
		return &Avatar{Base: b}
	})
	if err != nil {
		return fmt.Errorf("registering avatar kind: %w", err)
	}

	p.sys.Bind(store, actions)
	return nil
}
