package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-testutil"
)

func TestNatsServer_RoundTrip(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Publish("early", nil); err == nil {
		t.Fatal("expected error publishing before start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not ready")
	}

	got := make(chan []byte, 1)
	unsub, err := s.Subscribe(SessionSubject("abc"), func(data []byte) { got <- data })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unsub()

	if err := NewNatsSink(s, "abc").SendOutput(commands.Output{Kind: commands.OutputInfo, Text: "ping"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case data := <-got:
		env, err := Decode(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "text", env.Output.Text, "ping")
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}
