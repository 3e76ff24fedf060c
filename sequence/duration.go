package sequence

import "fmt"

// DefaultTicksPerBeat is one quarter note
const DefaultTicksPerBeat = 480

// NumDurations is the number of base note values the rhythm engine picks from
const NumDurations = 6

// Durations returns the six base note values for a tick resolution:
// 1/32, 1/16, 1/8, 1/4, 1/2 and whole.
func Durations(ticksPerBeat int) [NumDurations]int {
	return [NumDurations]int{
		ticksPerBeat / 8,
		ticksPerBeat / 4,
		ticksPerBeat / 2,
		ticksPerBeat,
		ticksPerBeat * 2,
		ticksPerBeat * 4,
	}
}

// Dotted extends a duration by half, rounded down.
func Dotted(ticks int) int {
	return ticks * 3 / 2
}

// CanonicalDurations returns the twelve legal tick values (six base plus
// six dotted) for a resolution.
func CanonicalDurations(ticksPerBeat int) []int {
	base := Durations(ticksPerBeat)
	out := make([]int, 0, 2*NumDurations)
	for _, d := range base {
		out = append(out, d, Dotted(d))
	}
	return out
}

// IsCanonical reports whether ticks is one of the twelve legal values
func IsCanonical(ticks, ticksPerBeat int) bool {
	for _, d := range CanonicalDurations(ticksPerBeat) {
		if d == ticks {
			return true
		}
	}
	return false
}

// Duration names keyed by tick value at 480 tpb. Anything else falls back to
// the raw tick count.
var durationNames = map[int]string{
	60:   "1/32",
	90:   "1/32 dotted",
	120:  "1/16",
	180:  "1/16 dotted",
	240:  "1/8",
	360:  "1/8 dotted",
	480:  "1/4",
	720:  "1/4 dotted",
	960:  "1/2",
	1440: "1/2 dotted",
	1920: "whole",
	2880: "whole dotted",
}

var durationNamesSpanish = map[int]string{
	60:   "fusa",
	90:   "fusa con puntillo",
	120:  "semicorchea",
	180:  "semicorchea con puntillo",
	240:  "corchea",
	360:  "corchea con puntillo",
	480:  "negra",
	720:  "negra con puntillo",
	960:  "blanca",
	1440: "blanca con puntillo",
	1920: "redonda",
	2880: "redonda con puntillo",
}

// DurationName returns the English note-value name for a tick count
func DurationName(ticks int) string {
	if name, ok := durationNames[ticks]; ok {
		return name
	}
	return fmt.Sprintf("%d ticks", ticks)
}

// DurationNameSpanish returns the Spanish note-value name for a tick count
func DurationNameSpanish(ticks int) string {
	if name, ok := durationNamesSpanish[ticks]; ok {
		return name
	}
	return fmt.Sprintf("%d ticks", ticks)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName converts a MIDI note number to a name, e.g. 60 -> C4
func PitchName(pitch int) string {
	if pitch < 0 {
		return fmt.Sprintf("?%d", pitch)
	}
	octave := pitch/12 - 1
	return fmt.Sprintf("%s%d", noteNames[pitch%12], octave)
}
