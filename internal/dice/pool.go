// Package dice resolves pool rolls: N dice are rolled, each die meeting the
// success threshold counts as a success, and each die meeting the explosion
// threshold adds another die to the pool.
package dice

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Pool configures a pool roll.
type Pool struct {
	Size    int `json:"size"`
	Sides   int `json:"sides"`
	Success int `json:"success"`
	Explode int `json:"explode"`

	// MaxExplosions caps how many extra dice explosions may add. Zero means unbounded.
	MaxExplosions int `json:"max_explosions,omitempty"`
}

// DefaultPool is a pool of ten-sided dice succeeding on 8+ and exploding on 10.
var DefaultPool = Pool{
	Sides:   10,
	Success: 8,
	Explode: 10,
}

// WithSize returns a copy of the pool rolling n dice.
func (p Pool) WithSize(n int) Pool {
	p.Size = n
	return p
}

func (p Pool) Validate() error {
	el := errors.NewErrorList()

	if p.Size < 0 {
		el.Add(fmt.Errorf("pool size must not be negative"))
	}
	if p.Sides < 1 {
		el.Add(fmt.Errorf("dice must have at least one side"))
	}
	if p.MaxExplosions < 0 {
		el.Add(fmt.Errorf("max explosions must not be negative"))
	}
	if p.Explode <= 1 && p.MaxExplosions == 0 {
		el.Add(fmt.Errorf("explode threshold %d never stops without max explosions", p.Explode))
	}

	if err := el.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPool, err)
	}
	return nil
}

// Outcome is the result of a pool roll. Values holds every die evaluated: the
// original pool in order, followed by dice added by explosions.
type Outcome struct {
	Values    []int `json:"values"`
	Successes int   `json:"successes"`
}

// Dice returns the number of dice evaluated.
func (o Outcome) Dice() int {
	return len(o.Values)
}

// Roll rolls the pool using src. Given the same source sequence the outcome is
// always the same.
func Roll(src Source, p Pool) (Outcome, error) {
	if err := p.Validate(); err != nil {
		return Outcome{}, err
	}

	values := make([]int, 0, p.Size)
	for range p.Size {
		values = append(values, rollDie(src, p.Sides))
	}

	successes := 0
	explosions := 0
	for i := 0; i < len(values); i++ {
		v := values[i]
		if v >= p.Success {
			successes++
		}
		if v >= p.Explode {
			if p.MaxExplosions > 0 && explosions >= p.MaxExplosions {
				continue
			}
			explosions++
			values = append(values, rollDie(src, p.Sides))
		}
	}

	return Outcome{
		Values:    values,
		Successes: successes,
	}, nil
}

func rollDie(src Source, sides int) int {
	return src.IntN(sides) + 1
}
