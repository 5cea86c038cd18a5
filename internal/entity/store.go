// Package entity allocates entity identities and holds their tags, looks and
// attributes. The Store exclusively owns entities; everyone else holds ids or
// the non-owning references handed back by Add.
package entity

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

type Store struct {
	next atomic.Uint64

	mu        sync.RWMutex
	factories map[Kind]Factory
	entities  map[ID]Entity
}

func NewStore() *Store {
	return &Store{
		factories: make(map[Kind]Factory),
		entities:  make(map[ID]Entity),
	}
}

// RegisterKind records kind as instantiable by Add. A nil factory produces
// plain *Base entities.
func (s *Store) RegisterKind(kind Kind, f Factory) error {
	if kind == "" {
		return fmt.Errorf("entity kind cannot be empty")
	}
	if f == nil {
		f = func(b *Base) Entity { return b }
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.factories[kind]; exists {
		return fmt.Errorf("%w: %s", ErrKindExists, kind)
	}
	s.factories[kind] = f
	return nil
}

// Add allocates the next id and builds an entity of the given kind.
func (s *Store) Add(kind Kind) (Entity, error) {
	s.mu.RLock()
	f, ok := s.factories[kind]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	id := ID(s.next.Add(1))
	e := f(newBase(id, kind))
	if e == nil || e.base().id != id {
		return nil, fmt.Errorf("factory for %s did not build on the allocated base", kind)
	}

	s.mu.Lock()
	s.entities[id] = e
	s.mu.Unlock()

	return e, nil
}

func (s *Store) Get(id ID) (Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	return e, nil
}

// All returns every entity ordered by id.
func (s *Store) All() []Entity {
	return s.filter(func(Entity) bool { return true })
}

// WithTag returns every entity carrying the tag, ordered by id.
func (s *Store) WithTag(t Tag) []Entity {
	return s.filter(func(e Entity) bool { return e.HasTag(t) })
}

func (s *Store) filter(keep func(Entity) bool) []Entity {
	s.mu.RLock()
	all := make([]Entity, 0, len(s.entities))
	for _, e := range s.entities {
		all = append(all, e)
	}
	s.mu.RUnlock()

	out := all[:0]
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entity) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// AddTag tags the entity with the given id.
func (s *Store) AddTag(id ID, t Tag) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	e.AddTag(t)
	return nil
}

// HasTag reports whether the entity with the given id carries the tag.
func (s *Store) HasTag(id ID, t Tag) bool {
	e, err := s.Get(id)
	if err != nil {
		return false
	}
	return e.HasTag(t)
}

// AddLook sets a look on the entity with the given id, replacing any previous text.
func (s *Store) AddLook(id ID, name, text string) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	e.AddLook(name, text)
	return nil
}
