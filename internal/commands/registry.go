// Package commands holds the command registry and routes raw input lines to
// the first command variant whose pattern matches.
package commands

import (
	"context"
	"fmt"
	"sync"
)

// Registry is the ordered list of registered commands. Registration happens
// during plugin activation; routing happens concurrently from every session.
type Registry struct {
	mu       sync.RWMutex
	commands []*Command
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends cmd. Commands registered earlier win when patterns overlap.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, cmd)
	return nil
}

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for _, c := range r.commands {
		names = append(names, c.Name)
	}
	return names
}

// Match finds the command and input line routes to without running it. line
// is matched as given; callers trim it if they want to.
func (r *Registry) Match(line string) (*Command, Input, bool) {
	r.mu.RLock()
	cmds := r.commands
	r.mu.RUnlock()

	for _, c := range cmds {
		if in, ok := c.match(line); ok {
			return c, in, true
		}
	}
	return nil, nil, false
}

// Route runs the handler of the first command matching line. matched is false
// when nothing matched; that is not an error.
func (r *Registry) Route(ctx context.Context, caller *Caller, line string) (matched bool, err error) {
	cmd, in, ok := r.Match(line)
	if !ok {
		return false, nil
	}

	if err := cmd.Handler(ctx, caller, in); err != nil {
		return true, fmt.Errorf("command %s: %w", cmd.Name, err)
	}
	return true, nil
}
