package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-mudcore/internal/dice"
)

// DiceConfig overrides the default pool. Zero values keep the defaults.
type DiceConfig struct {
	Sides         int     `json:"sides"`
	Success       int     `json:"success"`
	Explode       int     `json:"explode"`
	MaxExplosions int     `json:"max_explosions"`
	Seed          *uint64 `json:"seed,omitempty"`
}

func (c *DiceConfig) Pool() dice.Pool {
	p := dice.DefaultPool
	if c.Sides != 0 {
		p.Sides = c.Sides
	}
	if c.Success != 0 {
		p.Success = c.Success
	}
	if c.Explode != 0 {
		p.Explode = c.Explode
	}
	p.MaxExplosions = c.MaxExplosions
	return p
}

func (c *DiceConfig) Validate() error {
	return c.Pool().Validate()
}

// BuildSystem returns the dice system. Without a configured seed one is drawn
// from crypto/rand and logged so a run can be replayed.
func (c *DiceConfig) BuildSystem() (*dice.System, error) {
	var seed uint64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		s, err := dice.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seeding dice: %w", err)
		}
		seed = s
	}

	slog.Info("dice source seeded", "seed", seed)
	return dice.NewSystem(dice.NewSeededSource(seed), c.Pool()), nil
}
