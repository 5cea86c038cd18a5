package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/entity"
)

// BroadcastSubject is the subject every session listens on for broadcasts.
const BroadcastSubject = "broadcast"

// Publisher is satisfied by *NatsServer.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SessionSubject is the subject a session receives its output on.
func SessionSubject(sessionId string) string {
	return fmt.Sprintf("session-%s", sessionId)
}

// Envelope is the wire form of output. Exclude is only set on broadcasts.
type Envelope struct {
	Exclude entity.ID       `json:"exclude,omitempty"`
	Output  commands.Output `json:"output"`
}

// Decode parses an envelope received on a session or broadcast subject.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, nil
}

func publish(p Publisher, subject string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	if err := p.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// NatsSink delivers a single session's output.
type NatsSink struct {
	pub     Publisher
	subject string
}

func NewNatsSink(pub Publisher, sessionId string) *NatsSink {
	return &NatsSink{pub: pub, subject: SessionSubject(sessionId)}
}

func (s *NatsSink) SendOutput(out commands.Output) error {
	return publish(s.pub, s.subject, Envelope{Output: out})
}

// Broadcaster sends output to every session.
type Broadcaster struct {
	pub Publisher
}

func NewBroadcaster(pub Publisher) *Broadcaster {
	return &Broadcaster{pub: pub}
}

// Broadcast sends out to every session except the one acting as exclude.
// Entity ids start at 1, so zero excludes nobody.
func (b *Broadcaster) Broadcast(exclude entity.ID, out commands.Output) error {
	return publish(b.pub, BroadcastSubject, Envelope{Exclude: exclude, Output: out})
}
