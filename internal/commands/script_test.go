package commands

import (
	"context"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestScriptSpec_Validate(t *testing.T) {
	tests := map[string]struct {
		spec   ScriptSpec
		expErr string
	}{
		"valid": {
			spec: ScriptSpec{
				Name:     "wave",
				Variants: []ScriptVariant{{Pattern: `^wave$`}},
				Template: "You wave.",
			},
		},
		"missing name": {
			spec: ScriptSpec{
				Variants: []ScriptVariant{{Pattern: `^wave$`}},
				Template: "You wave.",
			},
			expErr: "name is required",
		},
		"no variants": {
			spec:   ScriptSpec{Name: "wave", Template: "You wave."},
			expErr: "at least one variant is required",
		},
		"bad pattern": {
			spec: ScriptSpec{
				Name:     "wave",
				Variants: []ScriptVariant{{Pattern: `^(wave$`}},
				Template: "You wave.",
			},
			expErr: "variant 0: compiling pattern",
		},
		"missing template": {
			spec: ScriptSpec{
				Name:     "wave",
				Variants: []ScriptVariant{{Pattern: `^wave$`}},
			},
			expErr: "template is required",
		},
		"bad template": {
			spec: ScriptSpec{
				Name:     "wave",
				Variants: []ScriptVariant{{Pattern: `^wave$`}},
				Template: "{{ .Input",
			},
			expErr: "parsing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestScriptSpec_Compile(t *testing.T) {
	spec := &ScriptSpec{
		Name: "shout",
		Variants: []ScriptVariant{
			{Pattern: `^shout (?P<text>.+)$`},
			{Pattern: `^yell (.+)$`, Fields: []string{"text"}},
		},
		Kind:     OutputSay,
		Template: `You shout, "{{ .Input.text | upper }}"`,
	}

	cmd, err := spec.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRegistry()
	if err := r.Register(cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range []string{"shout hello", "yell hello"} {
		sink := &recordSink{}
		matched, err := r.Route(context.Background(), &Caller{Sink: sink}, line)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", line, err)
		}
		testutil.AssertEqual(t, "matched", matched, true)
		testutil.AssertEqual(t, "outputs", len(sink.out), 1)
		testutil.AssertEqual(t, "kind", sink.out[0].Kind, OutputSay)
		testutil.AssertEqual(t, "text", sink.out[0].Text, `You shout, "HELLO"`)
	}
}

func TestScriptSpec_CompileInvalid(t *testing.T) {
	_, err := (&ScriptSpec{Name: "x"}).Compile()
	testutil.AssertErrorContains(t, err, `script "x"`)
}
