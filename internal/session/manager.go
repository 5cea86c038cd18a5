// Package session runs a connected player: it asks for a name, creates the
// avatar and routes every line the player types until they quit or drop.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/messaging"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/plugins/chat"
	"github.com/pixil98/go-mudcore/internal/plugins/newplayer"
	"github.com/pixil98/go-mudcore/internal/systems"
)

const (
	maxNameTries  = 3
	maxNameLength = 20
)

// Bus is satisfied by *messaging.NatsServer.
type Bus interface {
	messaging.Publisher
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

type Manager struct {
	host *plugins.Host
	bus  Bus

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(host *plugins.Host, bus Bus) *Manager {
	return &Manager{
		host:     host,
		bus:      bus,
		sessions: map[string]*Session{},
	}
}

// Count returns the number of sessions currently playing.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SendTo delivers out to the session acting as actor.
func (m *Manager) SendTo(actor entity.ID, out commands.Output) error {
	m.mu.RLock()
	var target *Session
	for _, s := range m.sessions {
		if s.actor == actor {
			target = s
			break
		}
	}
	m.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("no session for entity %d", actor)
	}
	return messaging.NewNatsSink(m.bus, target.id).SendOutput(out)
}

// RunSession plays a single connection until the player quits, the connection
// drops or ctx is done.
func (m *Manager) RunSession(ctx context.Context, rw io.ReadWriter) error {
	players, err := systems.Get[*newplayer.System](m.host.Systems)
	if err != nil {
		return err
	}
	bcast, err := systems.Get[chat.Broadcaster](m.host.Systems)
	if err != nil {
		return err
	}

	br := bufio.NewReader(rw)
	name, err := internal.Prompt(br, rw, "By what name are you known? ",
		internal.WithMaxTries(maxNameTries),
		internal.WithValidator(validName),
	)
	if err != nil {
		return fmt.Errorf("prompting for name: %w", err)
	}
	name = display.Capitalize(name)

	avatar, err := players.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("creating avatar: %w", err)
	}

	s := newSession(uuid.NewString(), avatar.ID(), rw)
	unsubscribe, err := s.subscribe(m.bus)
	if err != nil {
		return err
	}
	defer unsubscribe()

	m.add(s)
	defer m.remove(s)

	defer func() {
		if err := newplayer.SetConnected(avatar, false); err != nil {
			slog.WarnContext(ctx, "marking avatar disconnected", "session", s.id, "error", err)
		}
		notice := commands.Output{Kind: commands.OutputSystem, Text: fmt.Sprintf("%s has left.", name)}
		if err := bcast.Broadcast(avatar.ID(), notice); err != nil {
			slog.WarnContext(ctx, "announcing departure", "session", s.id, "error", err)
		}
	}()

	slog.InfoContext(ctx, "session started", "session", s.id, "actor", avatar.ID(), "name", name)

	notice := commands.Output{Kind: commands.OutputSystem, Text: fmt.Sprintf("%s has arrived.", name)}
	if err := bcast.Broadcast(avatar.ID(), notice); err != nil {
		return fmt.Errorf("announcing arrival: %w", err)
	}
	if err := s.SendOutput(commands.Output{Kind: commands.OutputSystem, Text: fmt.Sprintf("Welcome, %s!", name)}); err != nil {
		return err
	}

	err = s.play(ctx, br, m.host.Commands)
	slog.InfoContext(ctx, "session ended", "session", s.id, "actor", avatar.ID())
	return err
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.id)
}

func validName(str string) (bool, string) {
	if len(str) < 2 || len(str) > maxNameLength {
		return false, fmt.Sprintf("Names must be 2 to %d letters long.\n", maxNameLength)
	}
	for _, r := range str {
		if !unicode.IsLetter(r) {
			return false, "Names may only contain letters.\n"
		}
	}
	return true, ""
}
