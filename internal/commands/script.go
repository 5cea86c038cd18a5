package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/entity"
)

// ScriptVariant is the asset form of a Variant. Fields name the pattern's
// capture groups in order; named groups in the pattern are used as well.
type ScriptVariant struct {
	Pattern string   `json:"pattern"`
	Fields  []string `json:"fields,omitempty"`
}

// ScriptSpec defines a command loaded from a JSON asset that replies to the
// caller with a rendered template.
type ScriptSpec struct {
	Name     string          `json:"name"`
	Variants []ScriptVariant `json:"variants"`
	Kind     OutputKind      `json:"kind,omitempty"`
	Template string          `json:"template"`
}

// ScriptData is what a script template sees.
type ScriptData struct {
	Actor entity.ID
	Input Input
}

func (s *ScriptSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("script spec is required")
	}

	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(s.Variants) == 0 {
		el.Add(fmt.Errorf("at least one variant is required"))
	}
	for i, v := range s.Variants {
		if _, err := v.compile(); err != nil {
			el.Add(fmt.Errorf("variant %d: %w", i, err))
		}
	}
	if s.Template == "" {
		el.Add(fmt.Errorf("template is required"))
	} else if _, err := ParseTemplate(s.Name, s.Template); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (v ScriptVariant) compile() (Variant, error) {
	variant, err := NewVariant(v.Pattern, nil)
	if err != nil {
		return Variant{}, err
	}

	positional := Fields(v.Fields...)
	named := NamedFields(variant.Pattern)
	variant.Extract = func(m Match) Input {
		in := named(m)
		for k, val := range positional(m) {
			in[k] = val
		}
		return in
	}
	return variant, nil
}

// Compile builds a registrable command from the spec.
func (s *ScriptSpec) Compile() (*Command, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script %q: %w", s.Name, err)
	}

	tmpl, err := ParseTemplate(s.Name, s.Template)
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(s.Variants))
	for _, sv := range s.Variants {
		v, err := sv.compile()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	kind := s.Kind
	if kind == "" {
		kind = OutputInfo
	}

	return &Command{
		Name:     s.Name,
		Variants: variants,
		Handler: func(ctx context.Context, caller *Caller, in Input) error {
			text, err := Render(tmpl, ScriptData{Actor: caller.Actor, Input: in})
			if err != nil {
				return fmt.Errorf("rendering %s: %w", s.Name, err)
			}
			return caller.Send(kind, text)
		},
	}, nil
}
