package entity

import (
	"encoding/json"
	"fmt"
)

// Attributes is an entity's bag of arbitrary values keyed by attribute kind.
// Values are stored JSON encoded so plugins can share them without sharing types.
type Attributes map[string]json.RawMessage

// Set stores v under key after marshalling it to JSON.
func (a *Attributes) Set(key string, v any) error {
	if *a == nil {
		*a = Attributes{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal attribute %q: %w", key, err)
	}

	(*a)[key] = json.RawMessage(b)
	return nil
}

// Get unmarshals the value at key into out.
// Returns (found=false, nil) if not present.
func (a Attributes) Get(key string, out any) (bool, error) {
	raw, ok := a[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal attribute %q: %w", key, err)
	}
	return true, nil
}
