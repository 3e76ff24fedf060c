// Package rhythm turns a flat list of pitch events into timed notes and
// rests. Each step rolls a note value and a modifier; the "silence" modifier
// emits a rest and holds the current pitch for the next step.
package rhythm

import (
	"errors"
	"fmt"
	"iter"

	"go-melody/sequence"
)

// ErrStepBudget is returned by RunBudget when the engine is still going
// after the allowed number of steps.
var ErrStepBudget = errors.New("rhythm: step budget exhausted")

// State of the hold slot
type State int

const (
	Ready   State = iota // next step consumes the next input event
	Holding              // next step releases the held event
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Holding:
		return "holding"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Modifier is the second roll of each step
type Modifier int

const (
	ModNormal  Modifier = 1
	ModDotted  Modifier = 2
	ModSilence Modifier = 3

	NumModifiers = 3
)

var modifierNames = []string{"", "normal", "dotted", "silence"}

func (m Modifier) String() string {
	if m >= ModNormal && m <= ModSilence {
		return modifierNames[m]
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// Step describes one engine iteration, for observers
type Step struct {
	Index          int
	From           State
	To             State
	Source         sequence.PitchEvent
	DurationChoice int
	Modifier       Modifier
	Event          sequence.MelodyEvent
}

// Option configures an Engine
type Option func(*Engine)

// WithTicksPerBeat sets the resolution the six note values derive from
func WithTicksPerBeat(tpb int) Option {
	return func(e *Engine) {
		if tpb > 0 {
			e.ticksPerBeat = tpb
		}
	}
}

// WithObserver registers a callback invoked after every step
func WithObserver(fn func(Step)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// Engine is a single rhythm assignment run. It is not safe for concurrent
// use; run one engine per variation.
type Engine struct {
	input        []sequence.PitchEvent
	chooser      Chooser
	ticksPerBeat int
	durations    [sequence.NumDurations]int
	observer     func(Step)

	cursor  int
	held    sequence.PitchEvent
	holding bool
	steps   int
}

// New creates an engine over input. The input slice is not modified.
func New(input []sequence.PitchEvent, chooser Chooser, opts ...Option) *Engine {
	e := &Engine{
		input:        input,
		chooser:      chooser,
		ticksPerBeat: sequence.DefaultTicksPerBeat,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.durations = sequence.Durations(e.ticksPerBeat)
	return e
}

// State reports whether a note is currently held
func (e *Engine) State() State {
	if e.holding {
		return Holding
	}
	return Ready
}

// Cursor is the index of the next unconsumed input event
func (e *Engine) Cursor() int { return e.cursor }

// Steps taken so far
func (e *Engine) Steps() int { return e.steps }

// Held returns the held event, if any
func (e *Engine) Held() (sequence.PitchEvent, bool) {
	return e.held, e.holding
}

// Done is true once the input is exhausted and nothing is held.
func (e *Engine) Done() bool {
	return e.cursor >= len(e.input) && !e.holding
}

// Next performs one step and returns the emitted event. It returns false
// once Done.
func (e *Engine) Next() (sequence.MelodyEvent, bool) {
	if e.Done() {
		return nil, false
	}

	from := e.State()

	var current sequence.PitchEvent
	if e.holding {
		current = e.held
		e.holding = false
	} else {
		current = e.input[e.cursor]
		e.cursor++
	}

	durChoice := e.chooser.DurationChoice()
	if durChoice < 1 || durChoice > sequence.NumDurations {
		panic(fmt.Sprintf("rhythm: duration choice %d out of range", durChoice))
	}
	base := e.durations[durChoice-1]

	mod := Modifier(e.chooser.ModifierChoice())

	var ev sequence.MelodyEvent
	switch mod {
	case ModNormal:
		ev = sequence.Note{Pitch: current.Pitch, Velocity: current.Velocity, Ticks: base}
	case ModDotted:
		ev = sequence.Note{Pitch: current.Pitch, Velocity: current.Velocity, Ticks: sequence.Dotted(base)}
	case ModSilence:
		ev = sequence.Rest{Ticks: base}
		e.held = current
		e.holding = true
	default:
		panic(fmt.Sprintf("rhythm: modifier choice %d out of range", int(mod)))
	}

	e.steps++
	if e.observer != nil {
		e.observer(Step{
			Index:          e.steps,
			From:           from,
			To:             e.State(),
			Source:         current,
			DurationChoice: durChoice,
			Modifier:       mod,
			Event:          ev,
		})
	}
	return ev, true
}

// All yields events until Done. A chooser that keeps picking silence on the
// last held note keeps this going; callers that need a bound should use
// RunBudget or stop ranging.
func (e *Engine) All() iter.Seq[sequence.MelodyEvent] {
	return func(yield func(sequence.MelodyEvent) bool) {
		for {
			ev, ok := e.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Run drains the engine with no step limit.
func (e *Engine) Run() []sequence.MelodyEvent {
	out := make([]sequence.MelodyEvent, 0, len(e.input))
	for ev := range e.All() {
		out = append(out, ev)
	}
	return out
}

// RunBudget drains the engine but gives up after maxSteps steps, returning
// what was produced along with ErrStepBudget. maxSteps <= 0 means no limit.
func (e *Engine) RunBudget(maxSteps int) ([]sequence.MelodyEvent, error) {
	if maxSteps <= 0 {
		return e.Run(), nil
	}

	out := make([]sequence.MelodyEvent, 0, len(e.input))
	for !e.Done() {
		if e.steps >= maxSteps {
			return out, fmt.Errorf("%w: %d steps, cursor %d/%d, state %s",
				ErrStepBudget, e.steps, e.cursor, len(e.input), e.State())
		}
		ev, _ := e.Next()
		out = append(out, ev)
	}
	return out, nil
}
