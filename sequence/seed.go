package sequence

// Chromatic seed defaults: C1 .. B1
const (
	DefaultBasePitch = 24
	DefaultVelocity  = 80
	SeedLength       = 12

	// MaxBasePitch is the highest base whose row fits without clamping
	MaxBasePitch = MaxPitch - SeedLength + 1
)

// Shuffler is the randomness the seed generator needs. *rand.Rand from
// math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// ChromaticSeed returns the twelve pitches base..base+11 in a random order.
// Pitches past the top of the MIDI range are clamped.
func ChromaticSeed(base int, velocity uint8, rng Shuffler) []PitchEvent {
	seed := make([]PitchEvent, SeedLength)
	for i := range seed {
		seed[i] = PitchEvent{
			Pitch:    ClampPitch(base + i),
			Velocity: velocity,
		}
	}

	rng.Shuffle(len(seed), func(i, j int) {
		seed[i], seed[j] = seed[j], seed[i]
	})
	return seed
}
