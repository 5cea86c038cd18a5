package commands

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestExpandTemplate(t *testing.T) {
	tests := map[string]struct {
		tmpl   string
		data   any
		exp    string
		expErr string
	}{
		"plain text": {
			tmpl: "hello",
			exp:  "hello",
		},
		"field access": {
			tmpl: "{{ .Input.name }} waves.",
			data: ScriptData{Input: Input{"name": "Bob"}},
			exp:  "Bob waves.",
		},
		"sprig function": {
			tmpl: `{{ list 8 10 3 | join ", " }}`,
			exp:  "8, 10, 3",
		},
		"parse error": {
			tmpl:   "{{ .Input",
			expErr: "parsing template",
		},
		"execute error": {
			tmpl:   "{{ .Missing.Field }}",
			data:   ScriptData{},
			expErr: "executing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ExpandTemplate(tt.tmpl, tt.data)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "result", got, tt.exp)
		})
	}
}
