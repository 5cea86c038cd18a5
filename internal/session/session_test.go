package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-mudcore/internal/messaging"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/plugins/base"
	"github.com/pixil98/go-mudcore/internal/plugins/chat"
	"github.com/pixil98/go-mudcore/internal/plugins/newplayer"
	"github.com/pixil98/go-mudcore/internal/systems"
	"github.com/pixil98/go-testutil"
)

// memBus delivers published messages synchronously to current subscribers.
type memBus struct {
	mu        sync.Mutex
	next      int
	subs      map[string]map[int]func([]byte)
	published []string
}

func newMemBus() *memBus {
	return &memBus{subs: map[string]map[int]func([]byte){}}
}

func (b *memBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	b.published = append(b.published, subject)
	handlers := make([]func([]byte), 0, len(b.subs[subject]))
	for _, h := range b.subs[subject] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *memBus) Subscribe(subject string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[subject] == nil {
		b.subs[subject] = map[int]func([]byte){}
	}
	id := b.next
	b.next++
	b.subs[subject][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
	}, nil
}

type conn struct {
	io.Reader
	bytes.Buffer
}

func newConn(input string) *conn {
	return &conn{Reader: strings.NewReader(input)}
}

func (c *conn) Read(p []byte) (int, error) {
	return c.Reader.Read(p)
}

func (c *conn) Write(p []byte) (int, error) {
	return c.Buffer.Write(p)
}

func setup(t *testing.T, extra ...*commands.Command) (*Manager, *plugins.Host, *memBus) {
	t.Helper()

	bus := newMemBus()
	pm := plugins.NewPluginManager(nil)
	h := pm.Host()
	mgr := NewManager(h, bus)
	ctx := context.Background()

	if err := systems.Register[chat.Broadcaster](h.Systems, messaging.NewBroadcaster(bus)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := systems.Register[chat.Messenger](h.Systems, mgr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range extra {
		if err := h.Commands.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := pm.Register(ctx, base.NewBasePlugin(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pm.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return mgr, h, bus
}

func TestManager_RunSession(t *testing.T) {
	mgr, h, bus := setup(t)
	c := newConn("alice\nlook\njump\nsay hi\n\nquit\nlook\n")

	if err := mgr.RunSession(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := strings.Join([]string{
		"By what name are you known? ",
		"Welcome, Alice!\n",
		newplayer.DefaultLook + "\n> ",
		newplayer.DefaultLook + "\n> ",
		"I don't understand that.\n> ",
		"You say, 'hi'\n> ",
		"> ",
		"Goodbye.\n",
	}, "")
	testutil.AssertEqual(t, "transcript", c.String(), exp)
	testutil.AssertEqual(t, "sessions", mgr.Count(), 0)

	avatars := systems.MustGet[*entity.Store](h.Systems).WithTag(entity.TagAvatar)
	testutil.AssertEqual(t, "avatars", len(avatars), 1)
	testutil.AssertEqual(t, "connected", newplayer.Connected(avatars[0]), false)

	// arrival, say, departure
	testutil.AssertEqual(t, "broadcasts", strings.Join(bus.published, ","), "broadcast,broadcast,broadcast")
}

func TestManager_RunSessionEnds(t *testing.T) {
	explode := &commands.Command{
		Name: "explode",
		Handler: func(ctx context.Context, caller *commands.Caller, in commands.Input) error {
			return errors.New("boom")
		},
		Variants: []commands.Variant{commands.MustVariant(`^explode$`, commands.NoFields)},
	}

	tests := map[string]struct {
		input  string
		expErr string
	}{
		"connection closed": {
			input: "alice\nlook\n",
		},
		"system error": {
			input:  "alice\nexplode\nlook\n",
			expErr: "command failed: command explode: boom",
		},
		"invalid names": {
			input:  "x\nbob1\n!!\nalice\n",
			expErr: "prompting for name: too many tries",
		},
		"no name": {
			input:  "",
			expErr: "prompting for name: EOF",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mgr, _, _ := setup(t, explode)

			err := mgr.RunSession(context.Background(), newConn(tt.input))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "sessions", mgr.Count(), 0)
		})
	}
}

func TestManager_RunSessionCanceled(t *testing.T) {
	mgr, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer w.Close()
	go func() { _, _ = io.WriteString(w, "alice\n") }()

	rw := struct {
		io.Reader
		io.Writer
	}{r, io.Discard}

	err := mgr.RunSession(ctx, rw)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestManager_SendTo(t *testing.T) {
	mgr, _, bus := setup(t)

	err := mgr.SendTo(99, commands.Output{Text: "hello"})
	testutil.AssertErrorContains(t, err, "no session for entity 99")

	var got []string
	_, _ = bus.Subscribe(messaging.SessionSubject("abc"), func(data []byte) {
		env, err := messaging.Decode(data)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
			return
		}
		got = append(got, env.Output.Text)
	})
	mgr.add(newSession("abc", 4, io.Discard))

	if err := mgr.SendTo(4, commands.Output{Text: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "delivered", strings.Join(got, ","), "hello")
}

func TestSession_Receive(t *testing.T) {
	tests := map[string]struct {
		data    string
		expMsgs int
	}{
		"direct": {
			data:    `{"output":{"kind":"say","text":"hi"}}`,
			expMsgs: 1,
		},
		"broadcast from someone else": {
			data:    `{"exclude":6,"output":{"kind":"say","text":"hi"}}`,
			expMsgs: 1,
		},
		"own broadcast": {
			data:    `{"exclude":5,"output":{"kind":"say","text":"hi"}}`,
			expMsgs: 0,
		},
		"garbage": {
			data:    `{`,
			expMsgs: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newSession("x", 5, io.Discard)
			s.receive([]byte(tt.data))
			testutil.AssertEqual(t, "queued", len(s.msgs), tt.expMsgs)
		})
	}
}

func TestSession_ReceiveAfterStop(t *testing.T) {
	s := newSession("x", 5, io.Discard)
	for range msgBuffer {
		s.receive([]byte(`{"output":{"text":"queued"}}`))
	}
	s.stop()

	// the buffer is full so this only returns because the session stopped
	s.receive([]byte(`{"output":{"text":"late"}}`))
	testutil.AssertEqual(t, "queued", len(s.msgs), msgBuffer)
}
