package sequence

import "math"

// Reverse returns seq in opposite order.
func Reverse(seq []PitchEvent) []PitchEvent {
	out := make([]PitchEvent, len(seq))
	for i, e := range seq {
		out[len(seq)-1-i] = e
	}
	return out
}

// IntervallicInversion negates every melodic interval. The first event is
// kept; each following pitch is the previous OUTPUT pitch minus the input
// interval, clamped. Clamping is not undone later, so it carries forward.
func IntervallicInversion(seq []PitchEvent) []PitchEvent {
	out := make([]PitchEvent, len(seq))
	if len(seq) == 0 {
		return out
	}

	out[0] = seq[0]
	for i := 1; i < len(seq); i++ {
		interval := int(seq[i].Pitch) - int(seq[i-1].Pitch)
		pitch := ClampPitch(int(out[i-1].Pitch) - interval)
		out[i] = seq[i].WithPitch(pitch)
	}
	return out
}

// AxisOf returns the midpoint between the lowest and highest pitch.
// It is not rounded. Zero for an empty sequence.
func AxisOf(seq []PitchEvent) float64 {
	if len(seq) == 0 {
		return 0
	}
	lo, hi := seq[0].Pitch, seq[0].Pitch
	for _, e := range seq[1:] {
		lo = min(lo, e.Pitch)
		hi = max(hi, e.Pitch)
	}
	return (float64(lo) + float64(hi)) / 2
}

// AxisInvert mirrors every pitch around axis. A nil axis means AxisOf(seq).
// The mirrored value is truncated toward zero before clamping. Any axis is
// accepted, including huge or non-finite ones.
func AxisInvert(seq []PitchEvent, axis *float64) []PitchEvent {
	out := make([]PitchEvent, len(seq))
	if len(seq) == 0 {
		return out
	}

	a := AxisOf(seq)
	if axis != nil {
		a = *axis
	}

	for i, e := range seq {
		out[i] = e.WithPitch(clampMirror(2*a - float64(e.Pitch)))
	}
	return out
}

// clampMirror truncates m and clamps it while still a float, so values
// outside the int range never reach a conversion. NaN maps to MinPitch.
func clampMirror(m float64) uint8 {
	m = math.Trunc(m)
	switch {
	case m >= MaxPitch:
		return MaxPitch
	case m > MinPitch:
		return uint8(m)
	default:
		return MinPitch
	}
}

// Axis is a convenience for passing a fixed axis to AxisInvert
func Axis(a float64) *float64 {
	return &a
}
