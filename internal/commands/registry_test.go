package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pixil98/go-mudcore/internal/entity"
	"github.com/pixil98/go-testutil"
)

type recordSink struct {
	out []Output
}

func (s *recordSink) SendOutput(o Output) error {
	s.out = append(s.out, o)
	return nil
}

type routeCall struct {
	cmd string
	in  Input
}

func newTestRegistry(t *testing.T, calls *[]routeCall) *Registry {
	t.Helper()

	record := func(name string) HandlerFunc {
		return func(_ context.Context, _ *Caller, in Input) error {
			*calls = append(*calls, routeCall{cmd: name, in: in})
			return nil
		}
	}

	r := NewRegistry()
	cmds := []*Command{
		{
			Name:     "echo",
			Handler:  record("echo"),
			Variants: []Variant{MustVariant(`^echo[^\w]*(.*)$`, Fields("echo_text"))},
		},
		{
			Name:     "look",
			Handler:  record("look"),
			Variants: []Variant{MustVariant(`^look$`, NoFields)},
		},
		{
			Name:    "get",
			Handler: record("get"),
			Variants: []Variant{
				MustVariant(`^get (\w+) from (\w+)$`, Fields("item", "container")),
				MustVariant(`^get (\w+)$`, Fields("item")),
			},
		},
		{
			Name:     "look-shadow",
			Handler:  record("look-shadow"),
			Variants: []Variant{MustVariant(`^look$`, NoFields)},
		},
	}
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			t.Fatalf("registering %s: %v", c.Name, err)
		}
	}
	return r
}

func TestRegistry_Route(t *testing.T) {
	tests := map[string]struct {
		line       string
		expMatched bool
		expCmd     string
		expIn      Input
	}{
		"echo with text": {
			line:       "echo hello world",
			expMatched: true,
			expCmd:     "echo",
			expIn:      Input{"echo_text": "hello world"},
		},
		"echo with punctuation": {
			line:       "echo... hi",
			expMatched: true,
			expCmd:     "echo",
			expIn:      Input{"echo_text": "hi"},
		},
		"look": {
			line:       "look",
			expMatched: true,
			expCmd:     "look",
			expIn:      Input{},
		},
		"bare echo": {
			line:       "echo",
			expMatched: true,
			expCmd:     "echo",
			expIn:      Input{"echo_text": ""},
		},
		"surrounding whitespace is not trimmed": {
			line:       "  look \r",
			expMatched: false,
		},
		"first variant wins": {
			line:       "get coin from chest",
			expMatched: true,
			expCmd:     "get",
			expIn:      Input{"item": "coin", "container": "chest"},
		},
		"second variant": {
			line:       "get coin",
			expMatched: true,
			expCmd:     "get",
			expIn:      Input{"item": "coin"},
		},
		"unmatched": {
			line:       "jump",
			expMatched: false,
		},
		"empty line": {
			line:       "",
			expMatched: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var calls []routeCall
			r := newTestRegistry(t, &calls)

			matched, err := r.Route(context.Background(), &Caller{}, tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "matched", matched, tt.expMatched)
			if !tt.expMatched {
				testutil.AssertEqual(t, "calls", len(calls), 0)
				return
			}

			testutil.AssertEqual(t, "calls", len(calls), 1)
			testutil.AssertEqual(t, "command", calls[0].cmd, tt.expCmd)
			testutil.AssertEqual(t, "field count", len(calls[0].in), len(tt.expIn))
			for k, v := range tt.expIn {
				testutil.AssertEqual(t, k, calls[0].in[k], v)
			}
		})
	}
}

func TestRegistry_HandlerError(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Command{
		Name: "fail",
		Handler: func(context.Context, *Caller, Input) error {
			return NewUserError("You can't do that.")
		},
		Variants: []Variant{MustVariant(`^fail$`, nil)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matched, err := r.Route(context.Background(), &Caller{}, "fail")
	testutil.AssertEqual(t, "matched", matched, true)

	ue, ok := AsUserError(err)
	if !ok {
		t.Fatalf("expected user error, got %v", err)
	}
	testutil.AssertEqual(t, "message", ue.Message, "You can't do that.")

	_, ok = AsUserError(errors.New("plain"))
	testutil.AssertEqual(t, "plain is user error", ok, false)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	testutil.AssertErrorContains(t, r.Register(nil), "command cannot be nil")
	testutil.AssertErrorContains(t, r.Register(&Command{Name: "x"}), "handler not set")

	var calls []routeCall
	r = newTestRegistry(t, &calls)
	names := r.Names()
	testutil.AssertEqual(t, "names", len(names), 4)
	testutil.AssertEqual(t, "first", names[0], "echo")
	testutil.AssertEqual(t, "last", names[3], "look-shadow")
}

func TestCaller_Send(t *testing.T) {
	sink := &recordSink{}
	c := &Caller{Sink: sink}

	if err := c.Send(OutputInfo, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "outputs", len(sink.out), 1)
	testutil.AssertEqual(t, "kind", sink.out[0].Kind, OutputInfo)
	testutil.AssertEqual(t, "text", sink.out[0].Text, "hi")

	if err := (&Caller{}).Send(OutputInfo, "dropped"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegistry_RawLine(t *testing.T) {
	r := NewRegistry()
	var got Input
	err := r.Register(&Command{
		Name: "indent",
		Handler: func(_ context.Context, _ *Caller, in Input) error {
			got = in
			return nil
		},
		Variants: []Variant{MustVariant(`^\s+(\w+)\s*$`, Fields("word"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matched, err := r.Route(context.Background(), &Caller{}, "   hello ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "matched", matched, true)
	testutil.AssertEqual(t, "word", got["word"], "hello")

	matched, _ = r.Route(context.Background(), &Caller{}, "hello")
	testutil.AssertEqual(t, "unindented", matched, false)
}

func TestRegistry_ConcurrentSharedEntity(t *testing.T) {
	store := entity.NewStore()
	if err := store.RegisterKind("npc", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	target, err := store.Add("npc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRegistry()
	err = r.Register(&Command{
		Name: "mark",
		Handler: func(_ context.Context, c *Caller, in Input) error {
			if err := store.AddTag(c.Actor, entity.Tag(in["tag"])); err != nil {
				return err
			}
			if err := store.AddLook(c.Actor, entity.LookBasic, "marked "+in["tag"]); err != nil {
				return err
			}
			e, err := store.Get(c.Actor)
			if err != nil {
				return err
			}
			return e.SetAttr("last_mark", in["tag"])
		},
		Variants: []Variant{MustVariant(`^mark (\w+)$`, Fields("tag"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const writers, readers, rounds = 6, 6, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			caller := &Caller{Actor: target.ID()}
			for i := range rounds {
				matched, err := r.Route(context.Background(), caller, fmt.Sprintf("mark w%dr%d", w, i))
				if err != nil || !matched {
					t.Errorf("route: matched=%v err=%v", matched, err)
					return
				}
			}
		}()
	}
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				_ = store.WithTag("w0r0")
				_ = store.HasTag(target.ID(), "w1r1")
				_, _ = target.Look(entity.LookBasic)
				_ = target.Tags()
				var last string
				if _, err := target.Attr("last_mark", &last); err != nil {
					t.Errorf("attr: %v", err)
					return
				}
				_, _, _ = r.Match("mark x")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range rounds {
			_ = r.Register(&Command{
				Name:     fmt.Sprintf("extra%d", i),
				Handler:  noop,
				Variants: []Variant{MustVariant(fmt.Sprintf(`^extra%d$`, i), nil)},
			})
		}
	}()
	wg.Wait()

	testutil.AssertEqual(t, "tags", len(target.Tags()), writers*rounds)
	for w := range writers {
		testutil.AssertEqual(t, "tagged", store.HasTag(target.ID(), entity.Tag(fmt.Sprintf("w%dr%d", w, rounds-1))), true)
	}
	testutil.AssertEqual(t, "tagged entities", len(store.WithTag("w0r0")), 1)
	testutil.AssertEqual(t, "commands", len(r.Names()), rounds+1)
}
