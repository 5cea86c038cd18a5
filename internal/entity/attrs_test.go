package entity

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

type score struct {
	Points int `json:"points"`
}

func TestAttributes_SetGet(t *testing.T) {
	var a Attributes

	if err := a.Set("score", score{Points: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got score
	found, err := a.Get("score", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "points", got.Points, 4)

	found, err = a.Get("missing", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "missing found", found, false)
}

func TestAttributes_Errors(t *testing.T) {
	var a Attributes

	err := a.Set("bad", func() {})
	testutil.AssertErrorContains(t, err, "marshal attribute")

	if err := a.Set("name", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var n int
	found, err := a.Get("name", &n)
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertErrorContains(t, err, "unmarshal attribute")
}

func TestBase_Attr(t *testing.T) {
	b := newBase(1, "npc")

	if err := b.SetAttr("name", "Alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var name string
	found, err := b.Attr("name", &name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "name", name, "Alice")
}
