// Package sequence holds the note model shared by the pitch transforms, the
// rhythm engine and the exporters.
package sequence

import "fmt"

// MIDI range
const (
	MinPitch = 0
	MaxPitch = 127
)

// PitchEvent is a pitched event before any rhythm is applied.
// SourceTime is carried from wherever the event came from and is never
// reinterpreted by the transforms.
type PitchEvent struct {
	Pitch      uint8
	Velocity   uint8
	SourceTime uint32
}

// WithPitch returns a copy of e with a new pitch.
func (e PitchEvent) WithPitch(p uint8) PitchEvent {
	e.Pitch = p
	return e
}

func (e PitchEvent) String() string {
	return fmt.Sprintf("%s(%d) vel=%d", PitchName(int(e.Pitch)), e.Pitch, e.Velocity)
}

// MelodyEvent is either a Note or a Rest.
type MelodyEvent interface {
	// Duration in ticks
	Duration() int
	melodyEvent()
}

// Note is a sounding event
type Note struct {
	Pitch    uint8
	Velocity uint8
	Ticks    int
}

// Rest is elapsed silence before the next note
type Rest struct {
	Ticks int
}

func (n Note) Duration() int { return n.Ticks }
func (r Rest) Duration() int { return r.Ticks }

func (Note) melodyEvent() {}
func (Rest) melodyEvent() {}

func (n Note) String() string {
	return fmt.Sprintf("note %s(%d) vel=%d %d ticks", PitchName(int(n.Pitch)), n.Pitch, n.Velocity, n.Ticks)
}

func (r Rest) String() string {
	return fmt.Sprintf("rest %d ticks", r.Ticks)
}

// TotalTicks sums the durations of a melody
func TotalTicks(events []MelodyEvent) int {
	total := 0
	for _, e := range events {
		total += e.Duration()
	}
	return total
}

// Pitches returns just the pitch numbers (handy for printing and tests)
func Pitches(seq []PitchEvent) []int {
	out := make([]int, len(seq))
	for i, e := range seq {
		out[i] = int(e.Pitch)
	}
	return out
}

// ClampPitch clamps any computed pitch into the MIDI range.
func ClampPitch(p int) uint8 {
	if p < MinPitch {
		return MinPitch
	}
	if p > MaxPitch {
		return MaxPitch
	}
	return uint8(p)
}
