package dice

// System is the game system plugins use to roll pools against the server's
// configured source and default pool.
type System struct {
	src      Source
	defaults Pool
}

func NewSystem(src Source, defaults Pool) *System {
	if src == nil {
		src = GlobalSource
	}
	return &System{src: src, defaults: defaults}
}

// Defaults returns the configured default pool, without a size.
func (s *System) Defaults() Pool {
	return s.defaults
}

// Roll rolls p against the system's source.
func (s *System) Roll(p Pool) (Outcome, error) {
	return Roll(s.src, p)
}

// RollDefault rolls n dice of the default pool.
func (s *System) RollDefault(n int) (Outcome, error) {
	return Roll(s.src, s.defaults.WithSize(n))
}
