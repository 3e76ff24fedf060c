package notation

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-melody/sequence"
)

func TestQuarterLength(t *testing.T) {
	assert.Equal(t, 1.0, QuarterLength(480, 480))
	assert.Equal(t, 0.125, QuarterLength(60, 480))
	assert.Equal(t, 6.0, QuarterLength(2880, 480))
}

func TestPitchOf(t *testing.T) {
	assert.Equal(t, &Pitch{Step: "C", Octave: 4}, PitchOf(60))
	assert.Equal(t, &Pitch{Step: "C", Alter: 1, Octave: 1}, PitchOf(25))
	assert.Equal(t, &Pitch{Step: "B", Octave: 1}, PitchOf(35))
}

func TestBuildTypesAndDots(t *testing.T) {
	melody := []sequence.MelodyEvent{
		sequence.Note{Pitch: 60, Velocity: 90, Ticks: 720},
		sequence.Rest{Ticks: 240},
		sequence.Note{Pitch: 61, Velocity: 45, Ticks: 90},
	}
	score := Build(melody, DefaultOptions())
	require.Len(t, score.Parts, 1)
	require.Len(t, score.Parts[0].Measures, 1)

	notes := score.Parts[0].Measures[0].Notes
	require.Len(t, notes, 3)

	assert.Equal(t, "quarter", notes[0].Type)
	assert.NotNil(t, notes[0].Dot)
	assert.Equal(t, 720, notes[0].Duration)
	assert.Equal(t, "100.00", notes[0].Dynamics)

	assert.NotNil(t, notes[1].Rest)
	assert.Nil(t, notes[1].Pitch)
	assert.Equal(t, "eighth", notes[1].Type)
	assert.Nil(t, notes[1].Dot)

	assert.Equal(t, "32nd", notes[2].Type)
	assert.NotNil(t, notes[2].Dot)
	assert.Equal(t, "50.00", notes[2].Dynamics)
}

func TestBuildTiesAcrossBarline(t *testing.T) {
	melody := []sequence.MelodyEvent{
		sequence.Note{Pitch: 60, Velocity: 80, Ticks: 960},
		sequence.Note{Pitch: 62, Velocity: 80, Ticks: 1920},
		sequence.Rest{Ticks: 2880},
	}
	score := Build(melody, DefaultOptions())
	measures := score.Parts[0].Measures
	require.Len(t, measures, 3)

	m1 := measures[0].Notes
	require.Len(t, m1, 2)
	assert.Equal(t, 960, m1[1].Duration)
	assert.Equal(t, []Tie{{Type: "start"}}, m1[1].Ties)

	m2 := measures[1].Notes
	require.Len(t, m2, 2)
	assert.Equal(t, []Tie{{Type: "stop"}}, m2[0].Ties)
	assert.Equal(t, "half", m2[0].Type)
	assert.NotNil(t, m2[1].Rest)
	assert.Equal(t, 960, m2[1].Duration)
	assert.Nil(t, m2[1].Ties, "rests are never tied")

	m3 := measures[2].Notes
	require.Len(t, m3, 1)
	assert.Equal(t, 1920, m3[0].Duration)
	assert.Equal(t, "whole", m3[0].Type)

	total := 0
	for _, m := range measures {
		for _, n := range m.Notes {
			total += n.Duration
		}
	}
	assert.Equal(t, sequence.TotalTicks(melody), total)
}

func TestBuildNonCanonicalHasNoType(t *testing.T) {
	score := Build([]sequence.MelodyEvent{sequence.Note{Pitch: 60, Ticks: 100}}, DefaultOptions())
	n := score.Parts[0].Measures[0].Notes[0]
	assert.Empty(t, n.Type)
	assert.Equal(t, 100, n.Duration)
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Title = "Variation 1"
	require.NoError(t, Write(&buf, []sequence.MelodyEvent{sequence.Note{Pitch: 60, Velocity: 80, Ticks: 480}}, opts))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, "<!DOCTYPE score-partwise")
	assert.Contains(t, out, "<divisions>480</divisions>")
	assert.Contains(t, out, "<beat-type>4</beat-type>")
	assert.Contains(t, out, "<per-minute>120</per-minute>")
	assert.Contains(t, out, "<work-title>Variation 1</work-title>")

	// strip the prolog and decode back into the same types
	body := out[strings.Index(out, "<score-partwise"):]
	var decoded ScorePartwise
	require.NoError(t, xml.Unmarshal([]byte(body), &decoded))
	require.Len(t, decoded.Parts, 1)
	assert.Equal(t, "C", decoded.Parts[0].Measures[0].Notes[0].Pitch.Step)
}

func TestBuildEmpty(t *testing.T) {
	score := Build(nil, DefaultOptions())
	require.Len(t, score.Parts[0].Measures, 1)
	assert.Empty(t, score.Parts[0].Measures[0].Notes)
	assert.NotNil(t, score.Parts[0].Measures[0].Attributes)
}
