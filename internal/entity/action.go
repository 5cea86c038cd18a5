package entity

// ActionSystem marks entities that can act (issue commands) and finds them again.
type ActionSystem struct {
	store *Store
}

func NewActionSystem(s *Store) *ActionSystem {
	return &ActionSystem{store: s}
}

func (a *ActionSystem) MarkActing(e Entity) {
	e.AddTag(TagActing)
}

func (a *ActionSystem) IsActing(e Entity) bool {
	return e.HasTag(TagActing)
}

// Actors returns every acting entity, ordered by id.
func (a *ActionSystem) Actors() []Entity {
	return a.store.WithTag(TagActing)
}
