package commands

import "github.com/pixil98/go-mudcore/internal/entity"

// OutputKind classifies output so sinks can style or filter it.
type OutputKind string

const (
	OutputInfo   OutputKind = "info"
	OutputError  OutputKind = "error"
	OutputSay    OutputKind = "say"
	OutputLook   OutputKind = "look"
	OutputRoll   OutputKind = "roll"
	OutputSystem OutputKind = "system"
)

// Output is a single message for a player.
type Output struct {
	Kind OutputKind `json:"kind"`
	Text string     `json:"text"`
}

// Sink delivers output to a player. The core never knows the transport.
type Sink interface {
	SendOutput(Output) error
}

// Caller is whoever issued the line being routed.
type Caller struct {
	Actor entity.ID
	Sink  Sink

	// Quit signals the session layer that the caller wants to disconnect.
	Quit bool
}

// Send is shorthand for sending a single output to the caller.
func (c *Caller) Send(kind OutputKind, text string) error {
	if c.Sink == nil {
		return nil
	}
	return c.Sink.SendOutput(Output{Kind: kind, Text: text})
}
