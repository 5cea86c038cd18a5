package entity

import (
	"slices"
	"sync"
)

// ID identifies an entity for the lifetime of the process. IDs are never reused.
type ID uint64

// Kind names a registered entity type.
type Kind string

// Tag is a value-less marker on an entity.
type Tag string

const (
	TagAvatar Tag = "is_avatar"
	TagActing Tag = "is_acting"

	LookBasic = "basic"
)

// Entity is implemented by every concrete entity kind by embedding *Base.
type Entity interface {
	ID() ID
	Kind() Kind
	AddTag(Tag)
	HasTag(Tag) bool
	Tags() []Tag
	AddLook(name, text string)
	Look(name string) (string, bool)
	SetAttr(key string, v any) error
	Attr(key string, out any) (bool, error)

	base() *Base
}

// Factory builds a concrete entity around a freshly allocated Base.
type Factory func(*Base) Entity

// Base holds an entity's identity and attributes. Mutation is guarded by a
// per-entity lock so commands from different sessions can touch the same entity.
type Base struct {
	id   ID
	kind Kind

	mu    sync.RWMutex
	tags  map[Tag]struct{}
	looks map[string]string
	attrs Attributes
}

func newBase(id ID, kind Kind) *Base {
	return &Base{
		id:    id,
		kind:  kind,
		tags:  map[Tag]struct{}{},
		looks: map[string]string{},
	}
}

func (b *Base) ID() ID     { return b.id }
func (b *Base) Kind() Kind { return b.kind }
func (b *Base) base() *Base {
	return b
}

// AddTag marks the entity. Adding a tag twice is a no-op.
func (b *Base) AddTag(t Tag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tags[t] = struct{}{}
}

func (b *Base) HasTag(t Tag) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.tags[t]
	return ok
}

// Tags returns the entity's tags, sorted.
func (b *Base) Tags() []Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tags := make([]Tag, 0, len(b.tags))
	for t := range b.tags {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}

// AddLook binds text to the look name, replacing any previous text.
func (b *Base) AddLook(name, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.looks[name] = text
}

func (b *Base) Look(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, ok := b.looks[name]
	return text, ok
}

// Looks returns a copy of every look on the entity.
func (b *Base) Looks() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	looks := make(map[string]string, len(b.looks))
	for k, v := range b.looks {
		looks[k] = v
	}
	return looks
}

func (b *Base) SetAttr(key string, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attrs.Set(key, v)
}

func (b *Base) Attr(key string, out any) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attrs.Get(key, out)
}
