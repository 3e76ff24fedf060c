package sequence

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ascending(from, n int) []PitchEvent {
	seq := make([]PitchEvent, n)
	for i := range seq {
		seq[i] = PitchEvent{Pitch: uint8(from + i), Velocity: 80, SourceTime: uint32(i * 10)}
	}
	return seq
}

func randomSeq(rng *rand.Rand, n int) []PitchEvent {
	seq := make([]PitchEvent, n)
	for i := range seq {
		seq[i] = PitchEvent{
			Pitch:      uint8(rng.IntN(128)),
			Velocity:   uint8(rng.IntN(128)),
			SourceTime: uint32(rng.IntN(1000)),
		}
	}
	return seq
}

func TestReverse(t *testing.T) {
	seed := ascending(24, 12)
	rev := Reverse(seed)

	assert.Equal(t, []int{35, 34, 33, 32, 31, 30, 29, 28, 27, 26, 25, 24}, Pitches(rev))
	assert.Equal(t, seed[0], rev[11], "events move, values stay")
	assert.Equal(t, 24, int(seed[0].Pitch), "input untouched")
}

func TestReverseIsInvolution(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n < 20; n++ {
		seq := randomSeq(rng, n)
		assert.Equal(t, seq, Reverse(Reverse(seq)))
	}
}

func TestIntervallicInversion(t *testing.T) {
	seed := ascending(24, 12)
	inv := IntervallicInversion(seed)

	assert.Equal(t, []int{24, 23, 22, 21, 20, 19, 18, 17, 16, 15, 14, 13}, Pitches(inv))
	for i := range seed {
		assert.Equal(t, seed[i].Velocity, inv[i].Velocity)
		assert.Equal(t, seed[i].SourceTime, inv[i].SourceTime)
	}
}

func TestIntervallicInversionClampPropagates(t *testing.T) {
	// 2 -> 7 would go to -3, clamps to 0; the next interval (-1) is then
	// applied to the clamped 0, not to -3.
	seq := []PitchEvent{{Pitch: 2}, {Pitch: 7}, {Pitch: 6}}
	inv := IntervallicInversion(seq)
	assert.Equal(t, []int{2, 0, 1}, Pitches(inv))

	seq = []PitchEvent{{Pitch: 125}, {Pitch: 120}, {Pitch: 121}}
	inv = IntervallicInversion(seq)
	assert.Equal(t, []int{125, 127, 126}, Pitches(inv))
}

func TestAxisInvert(t *testing.T) {
	seed := ascending(24, 12)
	assert.InDelta(t, 29.5, AxisOf(seed), 0)

	inv := AxisInvert(seed, nil)
	assert.Equal(t, []int{35, 34, 33, 32, 31, 30, 29, 28, 27, 26, 25, 24}, Pitches(inv))
}

func TestAxisInvertTruncates(t *testing.T) {
	// 2*10.25 - 3 = 17.5 -> 17 (toward zero, not nearest)
	out := AxisInvert([]PitchEvent{{Pitch: 3}}, Axis(10.25))
	assert.Equal(t, []int{17}, Pitches(out))

	// negative results truncate toward zero then clamp
	out = AxisInvert([]PitchEvent{{Pitch: 10}}, Axis(4.75))
	assert.Equal(t, []int{0}, Pitches(out))

	out = AxisInvert([]PitchEvent{{Pitch: 0}}, Axis(100))
	assert.Equal(t, []int{127}, Pitches(out))
}

func TestAxisInvertExtremeAxis(t *testing.T) {
	tests := []struct {
		name string
		axis float64
		want int
	}{
		{"beyond int64", 1e19, 127},
		{"far negative", -1e19, 0},
		{"positive infinity", math.Inf(1), 127},
		{"negative infinity", math.Inf(-1), 0},
		{"not a number", math.NaN(), 0},
		{"exactly top", 63.5, 127},
		{"just past top", 64, 127},
		{"exactly bottom", 0, 0},
		{"just inside bottom", 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AxisInvert([]PitchEvent{{Pitch: 0, Velocity: 70}}, Axis(tt.axis))
			assert.Equal(t, []int{tt.want}, Pitches(out))
			assert.Equal(t, uint8(70), out[0].Velocity)
		})
	}
}

func TestClampEdges(t *testing.T) {
	// inversion hits the top and stays pinned
	up := IntervallicInversion([]PitchEvent{{Pitch: 120}, {Pitch: 100}, {Pitch: 90}, {Pitch: 95}})
	assert.Equal(t, []int{120, 127, 127, 122}, Pitches(up))

	// and the bottom
	down := IntervallicInversion([]PitchEvent{{Pitch: 5}, {Pitch: 20}, {Pitch: 30}, {Pitch: 27}})
	assert.Equal(t, []int{5, 0, 0, 3}, Pitches(down))

	mirrored := AxisInvert([]PitchEvent{{Pitch: 0}, {Pitch: 127}, {Pitch: 64}}, Axis(100))
	assert.Equal(t, []int{127, 73, 127}, Pitches(mirrored))

	mirrored = AxisInvert([]PitchEvent{{Pitch: 0}, {Pitch: 127}, {Pitch: 10}}, Axis(20))
	assert.Equal(t, []int{40, 0, 30}, Pitches(mirrored))
}

func TestAxisInvertInvolution(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		seq := make([]PitchEvent, 1+rng.IntN(16))
		for j := range seq {
			seq[j] = PitchEvent{Pitch: uint8(40 + rng.IntN(48)), Velocity: 90}
		}
		axis := Axis(float64(50 + rng.IntN(28)))
		once := AxisInvert(seq, axis)
		inRange := true
		for j := range seq {
			m := int(2*(*axis)) - int(seq[j].Pitch)
			if m < MinPitch || m > MaxPitch {
				inRange = false
			}
		}
		if !inRange {
			continue
		}
		assert.Equal(t, seq, AxisInvert(once, axis))
	}
}

func TestTransformsEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Reverse(nil))
	assert.Empty(t, IntervallicInversion(nil))
	assert.Empty(t, AxisInvert(nil, nil))

	one := []PitchEvent{{Pitch: 61, Velocity: 77, SourceTime: 5}}
	assert.Equal(t, one, Reverse(one))
	assert.Equal(t, one, IntervallicInversion(one))
	assert.Equal(t, one, AxisInvert(one, nil))
}

func TestTransformProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for n := 1; n < 40; n++ {
		seq := randomSeq(rng, n)

		inv := IntervallicInversion(seq)
		require.Len(t, inv, n)
		assert.Equal(t, seq[0], inv[0])

		ax := AxisInvert(seq, nil)
		require.Len(t, ax, n)

		fixedAxis := float64(rng.IntN(200)) - 30
		fixed := AxisInvert(seq, Axis(fixedAxis))
		for _, out := range [][]PitchEvent{inv, ax, fixed} {
			for _, e := range out {
				assert.LessOrEqual(t, int(e.Pitch), MaxPitch)
			}
		}
		for i, e := range fixed {
			want := math.Trunc(2*fixedAxis - float64(seq[i].Pitch))
			want = math.Max(MinPitch, math.Min(MaxPitch, want))
			assert.Equal(t, uint8(want), e.Pitch)
		}
	}
}
