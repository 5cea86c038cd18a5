package commands

import (
	"context"
	"fmt"
	"regexp"
)

// Input holds the named fields a variant extracted from a line of input.
type Input map[string]string

// Match is a successful pattern match against a line.
type Match struct {
	line string
	idx  []int
}

func matchLine(re *regexp.Regexp, line string) (Match, bool) {
	idx := re.FindStringSubmatchIndex(line)
	if idx == nil {
		return Match{}, false
	}
	return Match{line: line, idx: idx}, true
}

// Len returns the number of groups, counting the whole match as group 0.
func (m Match) Len() int {
	return len(m.idx) / 2
}

// Group returns the text of group i. ok is false when the group did not take
// part in the match; a group that matched the empty string is ok.
func (m Match) Group(i int) (text string, ok bool) {
	if i < 0 || i >= m.Len() || m.idx[2*i] < 0 {
		return "", false
	}
	return m.line[m.idx[2*i]:m.idx[2*i+1]], true
}

// Extractor converts a successful pattern match into command input.
type Extractor func(m Match) Input

// HandlerFunc runs a command for the caller with the extracted input.
type HandlerFunc func(ctx context.Context, caller *Caller, in Input) error

// Variant is one textual form of a command.
type Variant struct {
	Pattern *regexp.Regexp
	Extract Extractor
}

// NewVariant compiles pattern and pairs it with extract. A nil extractor
// yields no fields.
func NewVariant(pattern string, extract Extractor) (Variant, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Variant{}, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Variant{Pattern: re, Extract: extract}, nil
}

// MustVariant is NewVariant for patterns fixed at compile time.
func MustVariant(pattern string, extract Extractor) Variant {
	v, err := NewVariant(pattern, extract)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Variant) match(line string) (Input, bool) {
	m, ok := matchLine(v.Pattern, line)
	if !ok {
		return nil, false
	}
	if v.Extract == nil {
		return Input{}, true
	}
	in := v.Extract(m)
	if in == nil {
		in = Input{}
	}
	return in, true
}

// NoFields extracts nothing.
func NoFields(Match) Input {
	return Input{}
}

// Fields maps capture group i+1 to names[i]. Groups that did not participate
// in the match are left out; groups that matched nothing map to "".
func Fields(names ...string) Extractor {
	return func(m Match) Input {
		in := make(Input, len(names))
		for i, name := range names {
			if text, ok := m.Group(i + 1); ok {
				in[name] = text
			}
		}
		return in
	}
}

// NamedFields maps every named capture group of re that took part in the
// match to its value.
func NamedFields(re *regexp.Regexp) Extractor {
	names := re.SubexpNames()
	return func(m Match) Input {
		in := Input{}
		for i, name := range names {
			if name == "" {
				continue
			}
			if text, ok := m.Group(i); ok {
				in[name] = text
			}
		}
		return in
	}
}

// Command is a named handler reachable through one or more variants.
type Command struct {
	Name     string
	Handler  HandlerFunc
	Variants []Variant
}

func (c *Command) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("command name not set")
	}
	if c.Handler == nil {
		return fmt.Errorf("command %q: handler not set", c.Name)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("command %q: at least one variant is required", c.Name)
	}
	for i, v := range c.Variants {
		if v.Pattern == nil {
			return fmt.Errorf("command %q: variant %d: pattern not set", c.Name, i)
		}
	}
	return nil
}

// match returns the input of the first variant matching line.
func (c *Command) match(line string) (Input, bool) {
	for _, v := range c.Variants {
		if in, ok := v.match(line); ok {
			return in, true
		}
	}
	return nil, false
}
