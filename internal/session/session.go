package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/display"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/messaging"
)

const (
	promptText    = "> "
	notUnderstood = "I don't understand that."
	msgBuffer     = 32
)

// Session is one connected player acting through a single avatar.
type Session struct {
	id    string
	actor entity.ID
	conn  io.Writer

	msgs     chan commands.Output
	done     chan struct{}
	stopOnce sync.Once
}

func newSession(id string, actor entity.ID, conn io.Writer) *Session {
	return &Session{
		id:    id,
		actor: actor,
		conn:  conn,
		msgs:  make(chan commands.Output, msgBuffer),
		done:  make(chan struct{}),
	}
}

// Id returns the session's unique identifier.
func (s *Session) Id() string {
	return s.id
}

// SendOutput writes out to the connection. It must only be called from the
// goroutine running the session.
func (s *Session) SendOutput(out commands.Output) error {
	_, err := io.WriteString(s.conn, display.Wrap(out.Text)+"\n")
	return err
}

func (s *Session) subscribe(bus Bus) (func(), error) {
	unsubSession, err := bus.Subscribe(messaging.SessionSubject(s.id), s.receive)
	if err != nil {
		return nil, fmt.Errorf("subscribing session: %w", err)
	}
	unsubBroadcast, err := bus.Subscribe(messaging.BroadcastSubject, s.receive)
	if err != nil {
		unsubSession()
		return nil, fmt.Errorf("subscribing broadcasts: %w", err)
	}

	return func() {
		unsubBroadcast()
		unsubSession()
		s.stop()
	}, nil
}

// stop releases anything blocked delivering to the session.
func (s *Session) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// receive queues a message from the bus for the session goroutine.
func (s *Session) receive(data []byte) {
	env, err := messaging.Decode(data)
	if err != nil {
		slog.Warn("dropping message", "session", s.id, "error", err)
		return
	}
	if env.Exclude != 0 && env.Exclude == s.actor {
		return
	}

	select {
	case s.msgs <- env.Output:
	case <-s.done:
	}
}

func (s *Session) play(ctx context.Context, br *bufio.Reader, cmds *commands.Registry) error {
	defer s.stop()

	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(br)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-s.done:
				return
			}
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	caller := &commands.Caller{Actor: s.actor, Sink: s}

	// Show the player where they are on arrival
	if err := s.handleLine(ctx, cmds, caller, "look"); err != nil {
		return err
	}
	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case out := <-s.msgs:
			if err := s.SendOutput(out); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				// Connection closed
				return <-inputErrChan
			}

			if err := s.handleLine(ctx, cmds, caller, line); err != nil {
				return err
			}
			if caller.Quit {
				return nil
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// handleLine routes a single line. Only failures that should end the session
// are returned.
func (s *Session) handleLine(ctx context.Context, cmds *commands.Registry, caller *commands.Caller, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	matched, err := cmds.Route(ctx, caller, line)
	if err != nil {
		if ue, ok := commands.AsUserError(err); ok {
			return caller.Send(commands.OutputError, ue.Message)
		}
		return fmt.Errorf("command failed: %w", err)
	}
	if !matched {
		return caller.Send(commands.OutputError, notUnderstood)
	}
	return nil
}

func (s *Session) prompt() error {
	_, err := io.WriteString(s.conn, promptText)
	return err
}
