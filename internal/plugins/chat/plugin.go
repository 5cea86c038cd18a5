// Package chat provides the basic talking and looking commands.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/hooks"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/plugins/newplayer"
	"github.com/pixil98/go-mudcore/internal/systems"
)

const pluginKey = "chat"

// Broadcaster delivers output to every connected player except exclude.
type Broadcaster interface {
	Broadcast(exclude entity.ID, out commands.Output) error
}

// Messenger delivers output to the player acting as a single entity.
type Messenger interface {
	SendTo(actor entity.ID, out commands.Output) error
}

type Plugin struct {
	store    *entity.Store
	bcast    Broadcaster
	msgr     Messenger
	commands *commands.Registry
}

func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Key() string {
	return pluginKey
}

func (p *Plugin) Activate(ctx context.Context, h *plugins.Host) error {
	p.commands = h.Commands

	cmds := []*commands.Command{
		{
			Name:     "echo",
			Handler:  p.echo,
			Variants: []commands.Variant{commands.MustVariant(`^echo[^\w]*(.*)$`, commands.Fields("echo_text"))},
		},
		{
			Name:    "say",
			Handler: p.say,
			Variants: []commands.Variant{
				commands.MustVariant(`^say\s+(.+)$`, commands.Fields("text")),
				commands.MustVariant(`^'\s*(.+)$`, commands.Fields("text")),
			},
		},
		{
			Name:     "tell",
			Handler:  p.tell,
			Variants: []commands.Variant{commands.MustVariant(`^tell\s+(\w+)\s+(.+)$`, commands.Fields("target", "text"))},
		},
		{
			Name:    "look",
			Handler: p.look,
			Variants: []commands.Variant{
				commands.MustVariant(`^look$`, commands.NoFields),
				commands.MustVariant(`^look\s+(?:at\s+)?(\w+)$`, commands.Fields("target")),
			},
		},
		{
			Name:     "describe",
			Handler:  p.describe,
			Variants: []commands.Variant{commands.MustVariant(`^describe\s+(.+)$`, commands.Fields("text"))},
		},
		{
			Name:     "help",
			Handler:  p.help,
			Variants: []commands.Variant{commands.MustVariant(`^(?:help|commands)$`, commands.NoFields)},
		},
		{
			Name:     "quit",
			Handler:  p.quit,
			Variants: []commands.Variant{commands.MustVariant(`^quit$`, commands.NoFields)},
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
	store, err := systems.Get[*entity.Store](h.Systems)
	if err != nil {
		return err
	}
	bcast, err := systems.Get[Broadcaster](h.Systems)
	if err != nil {
		return err
	}

	msgr, err := systems.Get[Messenger](h.Systems)
	if err != nil {
		return err
	}

	p.store = store
	p.bcast = bcast
	p.msgr = msgr
	return nil
}

func (p *Plugin) echo(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	return caller.Send(commands.OutputInfo, in["echo_text"])
}

func (p *Plugin) say(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	actor, err := p.store.Get(caller.Actor)
	if err != nil {
		return err
	}

	text := in["text"]
	err = p.bcast.Broadcast(caller.Actor, commands.Output{
		Kind: commands.OutputSay,
		Text: fmt.Sprintf("%s says, '%s'", newplayer.Name(actor), text),
	})
	if err != nil {
		return fmt.Errorf("broadcasting: %w", err)
	}

	return caller.Send(commands.OutputSay, fmt.Sprintf("You say, '%s'", text))
}

func (p *Plugin) tell(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	actor, err := p.store.Get(caller.Actor)
	if err != nil {
		return err
	}

	target, ok := p.findConnected(in["target"])
	if !ok {
		return commands.NewUserError(fmt.Sprintf("Nobody named %s is here.", in["target"]))
	}
	if target.ID() == caller.Actor {
		return commands.NewUserError("You mutter to yourself.")
	}

	text := in["text"]
	err = p.msgr.SendTo(target.ID(), commands.Output{
		Kind: commands.OutputSay,
		Text: fmt.Sprintf("%s tells you, '%s'", newplayer.Name(actor), text),
	})
	if err != nil {
		return fmt.Errorf("telling %s: %w", newplayer.Name(target), err)
	}

	return caller.Send(commands.OutputSay, fmt.Sprintf("You tell %s, '%s'", newplayer.Name(target), text))
}

func (p *Plugin) findConnected(name string) (entity.Entity, bool) {
	for _, e := range p.store.WithTag(entity.TagAvatar) {
		if newplayer.Connected(e) && strings.EqualFold(newplayer.Name(e), name) {
			return e, true
		}
	}
	return nil, false
}

func (p *Plugin) look(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	if target := in["target"]; target != "" {
		return p.lookAt(caller, target)
	}

	actor, err := p.store.Get(caller.Actor)
	if err != nil {
		return err
	}

	var sb strings.Builder
	desc, ok := actor.Look(entity.LookBasic)
	if !ok {
		desc = "You can't make out much about yourself."
	}
	sb.WriteString(desc)

	var others []string
	for _, e := range p.store.WithTag(entity.TagAvatar) {
		if e.ID() != caller.Actor && newplayer.Connected(e) {
			others = append(others, newplayer.Name(e))
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&sb, "\nAlso here: %s.", strings.Join(others, ", "))
	}

	return caller.Send(commands.OutputLook, sb.String())
}

func (p *Plugin) lookAt(caller *commands.Caller, name string) error {
	e, ok := p.findConnected(name)
	if !ok {
		return commands.NewUserError(fmt.Sprintf("You don't see %s here.", name))
	}
	desc, ok := e.Look(entity.LookBasic)
	if !ok {
		desc = "There is nothing remarkable about them."
	}
	return caller.Send(commands.OutputLook, desc)
}

func (p *Plugin) describe(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	if err := p.store.AddLook(caller.Actor, entity.LookBasic, in["text"]); err != nil {
		return err
	}
	return caller.Send(commands.OutputInfo, "Description set.")
}

func (p *Plugin) help(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	return caller.Send(commands.OutputInfo, "Commands: "+strings.Join(p.commands.Names(), ", "))
}

func (p *Plugin) quit(ctx context.Context, caller *commands.Caller, in commands.Input) error {
	caller.Quit = true
	return caller.Send(commands.OutputSystem, "Goodbye.")
}
