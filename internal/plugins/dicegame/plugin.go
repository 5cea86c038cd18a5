// Package dicegame lets players roll dice pools.
package dicegame

import (
	"context"
	"fmt"
	"strconv"
	"text/template"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/dice"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/hooks"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/systems"
)

const (
	pluginKey = "dicegame"

	// AttrLastRoll holds the actor's most recent roll.
	AttrLastRoll = "last_roll"

	MaxPoolSize = 50
)

const rollTemplate = `You roll {{ .Pool.Size }} {{ if eq .Pool.Size 1 }}die{{ else }}dice{{ end }}` +
	`{{ if gt .Outcome.Dice .Pool.Size }} ({{ sub .Outcome.Dice .Pool.Size }} exploded){{ end }}: ` +
	`{{ .Outcome.Values | join " " }}. ` +
	`{{ .Outcome.Successes }} {{ if eq .Outcome.Successes 1 }}success{{ else }}successes{{ end }}.`

// LastRoll is what is stored on an actor after rolling.
type LastRoll struct {
	Pool    dice.Pool    `json:"pool"`
	Outcome dice.Outcome `json:"outcome"`
}

type Plugin struct {
	dice  *dice.System
	store *entity.Store
	tmpl  *template.Template
}

func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Key() string {
	return pluginKey
}

func (p *Plugin) Activate(ctx context.Context, h *plugins.Host) error {
	tmpl, err := commands.ParseTemplate("roll", rollTemplate)
	if err != nil {
		return err
	}
	p.tmpl = tmpl

	cmds := []*commands.Command{
		{
			Name:    "roll",
			Handler: p.roll,
			Variants: []commands.Variant{
				commands.MustVariant(`^roll\s+(\d+)\s+vs\.?\s+(\d+)$`, commands.Fields("dice", "success")),
				commands.MustVariant(`^roll\s+(\d+)$`, commands.Fields("dice")),
			},
		},
		{
			Name:     "lastroll",
			Handler:  p.lastRoll,
			Variants: []commands.Variant{commands.MustVariant(`^lastroll$`, commands.NoFields)},
		},
	}
	for _, c := range cmds {
		if err := h.Commands.Register(c); err != nil {
			return fmt.Errorf("registering %s: %w", c.Name, err)
		}
	}

	hooks.Subscribe(h.Hooks, plugins.CoreSystemsReady, p.onCoreSystemsReady)
	return nil
}

func (p *Plugin) onCoreSystemsReady(ctx context.Context, h *plugins.Host) error {
	ds, err := systems.Get[*dice.System](h.Systems)
	if err != nil {
		return err
	}
	store, err := systems.Get[*entity.Store](h.Systems)
	if err != nil {
		return err
	}

	p.dice = ds
	p.store = store
	return nil
}

func (p *Plugin) roll(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	n, err := strconv.Atoi(in["dice"])
	if err != nil || n < 1 || n > MaxPoolSize {
		return commands.NewUserError(fmt.Sprintf("You can roll between 1 and %d dice.", MaxPoolSize))
	}

	pool := p.dice.Defaults().WithSize(n)
	if s, ok := in["success"]; ok {
		success, err := strconv.Atoi(s)
		if err != nil || success < 1 {
			return commands.NewUserError(fmt.Sprintf("%q is not a valid target number.", s))
		}
		pool.Success = success
	}

	outcome, err := p.dice.Roll(pool)
	if err != nil {
		return fmt.Errorf("rolling pool: %w", err)
	}

	actor, err := p.store.Get(caller.Actor)
	if err != nil {
		return err
	}
	last := LastRoll{Pool: pool, Outcome: outcome}
	if err := actor.SetAttr(AttrLastRoll, last); err != nil {
		return err
	}

	return p.send(caller, last)
}

func (p *Plugin) lastRoll(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	actor, err := p.store.Get(caller.Actor)
	if err != nil {
		return err
	}

	var last LastRoll
	found, err := actor.Attr(AttrLastRoll, &last)
	if err != nil {
		return err
	}
	if !found {
		return commands.NewUserError("You haven't rolled anything yet.")
	}
	return p.send(caller, last)
}

func (p *Plugin) send(caller *commands.Caller, last LastRoll) error {
	text, err := commands.Render(p.tmpl, last)
	if err != nil {
		return err
	}
	return caller.Send(commands.OutputRoll, text)
}
