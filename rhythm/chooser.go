package rhythm

import "go-melody/sequence"

// Chooser supplies the two rolls of each step. DurationChoice returns
// 1..6, ModifierChoice returns 1..3.
type Chooser interface {
	DurationChoice() int
	ModifierChoice() int
}

// IntNSource is satisfied by *rand.Rand from math/rand/v2
type IntNSource interface {
	IntN(n int) int
}

// RandomChooser rolls uniformly from a seeded source
type RandomChooser struct {
	rng IntNSource
}

// NewRandomChooser wraps rng
func NewRandomChooser(rng IntNSource) *RandomChooser {
	return &RandomChooser{rng: rng}
}

func (c *RandomChooser) DurationChoice() int {
	return c.rng.IntN(sequence.NumDurations) + 1
}

func (c *RandomChooser) ModifierChoice() int {
	return c.rng.IntN(NumModifiers) + 1
}
