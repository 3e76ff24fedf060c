// Package composer wires the pitch transforms and the rhythm engine into the
// two pipelines the CLI runs: the four-part canonical row and a set of
// rhythmic variations.
package composer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go-melody/debug"
	"go-melody/rhythm"
	"go-melody/sequence"
)

// Part is one named section of the canonical construction
type Part struct {
	Name   string
	Events []sequence.PitchEvent
}

// Parts returns original, reversed, inverted and reversed-inverted, in that
// order.
func Parts(original []sequence.PitchEvent) []Part {
	inverted := sequence.IntervallicInversion(original)
	return []Part{
		{Name: "Original", Events: original},
		{Name: "Reversed", Events: sequence.Reverse(original)},
		{Name: "Intervallic inversion", Events: inverted},
		{Name: "Reversed inversion", Events: sequence.Reverse(inverted)},
	}
}

// AxisPart mirrors original around axis, or around its own midpoint when
// axis is nil. It is reported alongside Parts but is not part of Canonical.
func AxisPart(original []sequence.PitchEvent, axis *float64) Part {
	a := sequence.AxisOf(original)
	if axis != nil {
		a = *axis
	}
	return Part{
		Name:   fmt.Sprintf("Axis inversion (%g)", a),
		Events: sequence.AxisInvert(original, axis),
	}
}

// Canonical concatenates the four parts into one sequence, 4x the input
// length.
func Canonical(original []sequence.PitchEvent) []sequence.PitchEvent {
	out := make([]sequence.PitchEvent, 0, 4*len(original))
	for _, p := range Parts(original) {
		out = append(out, p.Events...)
	}
	return out
}

// Options controls variation generation
type Options struct {
	TicksPerBeat int
	// MaxSteps bounds each engine run; 0 means unbounded
	MaxSteps int
	// Seed feeds the per-variation seeds. Same seed, same variations.
	Seed     uint64
	Parallel bool
	// Observer sees every engine step, tagged with the variation index
	Observer func(variation int, s rhythm.Step)
}

// Variation is one rhythmic rendering of the input
type Variation struct {
	Index  int // 1-based
	Seed   [2]uint64
	Events []sequence.MelodyEvent
	Steps  int
}

// checkEvery is how often a running engine looks at ctx
const checkEvery = 256

// Seeds derives n independent PCG seed pairs from a master seed.
func Seeds(master uint64, n int) [][2]uint64 {
	rng := rand.New(rand.NewPCG(master, master^0x9e3779b97f4a7c15))
	seeds := make([][2]uint64, n)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}
	return seeds
}

// Variations runs the rhythm engine n times over input. Each run gets its
// own engine and its own random source. Results are in variation order
// whether or not they ran in parallel.
func Variations(ctx context.Context, input []sequence.PitchEvent, n int, opts Options) ([]Variation, error) {
	if n <= 0 {
		return nil, nil
	}

	seeds := Seeds(opts.Seed, n)
	out := make([]Variation, n)

	if !opts.Parallel {
		for i := range out {
			v, err := Generate(ctx, input, i+1, seeds[i], opts)
			if err != nil {
				return out[:i], err
			}
			out[i] = v
		}
		return out, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i], errs[i] = Generate(ctx, input, i+1, seeds[i], opts)
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate builds a single variation from an explicit seed pair.
func Generate(ctx context.Context, input []sequence.PitchEvent, index int, seed [2]uint64, opts Options) (Variation, error) {
	var engineOpts []rhythm.Option
	if opts.TicksPerBeat > 0 {
		engineOpts = append(engineOpts, rhythm.WithTicksPerBeat(opts.TicksPerBeat))
	}
	if opts.Observer != nil {
		observe := opts.Observer
		engineOpts = append(engineOpts, rhythm.WithObserver(func(s rhythm.Step) {
			observe(index, s)
		}))
	}

	rng := rand.New(rand.NewPCG(seed[0], seed[1]))
	eng := rhythm.New(input, rhythm.NewRandomChooser(rng), engineOpts...)

	v := Variation{Index: index, Seed: seed}
	events := make([]sequence.MelodyEvent, 0, len(input))
	for ev := range eng.All() {
		events = append(events, ev)

		if opts.MaxSteps > 0 && eng.Steps() >= opts.MaxSteps && !eng.Done() {
			return v, fmt.Errorf("variation %d: %w after %d steps (cursor %d/%d, %s)",
				index, rhythm.ErrStepBudget, eng.Steps(), eng.Cursor(), len(input), eng.State())
		}
		if eng.Steps()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return v, fmt.Errorf("variation %d: %w", index, err)
			}
		}
	}

	v.Events = events
	v.Steps = eng.Steps()
	debug.Log("compose", "variation %d: %d input events -> %d melody events", index, len(input), len(events))
	return v, nil
}
