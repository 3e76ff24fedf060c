package midi

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-melody/sequence"
)

type span struct {
	key      uint8
	on, off  int64
	velocity uint8
}

// spans decodes note on/off pairs at absolute ticks from an SMF
func spans(t *testing.T, data []byte) []span {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)

	var out []span
	open := map[uint8]int{}
	for _, tr := range s.Tracks {
		var tick int64
		for _, ev := range tr {
			tick += int64(ev.Delta)
			msg := gomidi.Message(ev.Message)
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				open[key] = len(out)
				out = append(out, span{key: key, on: tick, velocity: vel})
			case msg.GetNoteEnd(&ch, &key):
				out[open[key]].off = tick
			}
		}
	}
	return out
}

func TestWriteMelodyTiming(t *testing.T) {
	melody := []sequence.MelodyEvent{
		sequence.Rest{Ticks: 480},
		sequence.Note{Pitch: 60, Velocity: 80, Ticks: 480},
		sequence.Note{Pitch: 62, Velocity: 81, Ticks: 240},
		sequence.Rest{Ticks: 120},
		sequence.Rest{Ticks: 60},
		sequence.Note{Pitch: 64, Velocity: 82, Ticks: 720},
		sequence.Rest{Ticks: 60},
	}

	var buf bytes.Buffer
	sum, err := WriteMelody(&buf, melody, MelodyOptions(480, 120))
	require.NoError(t, err)
	assert.Equal(t, int64(2160), sum.Ticks)
	assert.Equal(t, 3, sum.Notes)
	assert.InDelta(t, 2160.0/1920.0, sum.Measures, 1e-9)

	assert.Equal(t, []span{
		{key: 60, on: 480, off: 960, velocity: 80},
		{key: 62, on: 960, off: 1200, velocity: 81},
		{key: 64, on: 1380, off: 2100, velocity: 82},
	}, spans(t, buf.Bytes()))
}

func TestMelodyHeaderMeta(t *testing.T) {
	keySig := []byte{0xFF, 0x59, 0x02, 0x00, 0x00} // C major
	timeSig := []byte{0xFF, 0x58, 0x04, 0x04, 0x02}
	melody := []sequence.MelodyEvent{sequence.Note{Pitch: 60, Velocity: 80, Ticks: 480}}

	var buf bytes.Buffer
	_, err := WriteMelody(&buf, melody, MelodyOptions(480, 120))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(buf.Bytes(), keySig), "melody files carry a key signature")
	assert.True(t, bytes.Contains(buf.Bytes(), timeSig))

	buf.Reset()
	_, err = WritePitches(&buf, []sequence.PitchEvent{{Pitch: 60, Velocity: 80}}, PitchOptions(480, 120))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(buf.Bytes(), keySig))
	assert.False(t, bytes.Contains(buf.Bytes(), timeSig))
}

func TestReadNotesRoundTrip(t *testing.T) {
	melody := []sequence.MelodyEvent{
		sequence.Note{Pitch: 30, Velocity: 90, Ticks: 120},
		sequence.Rest{Ticks: 240},
		sequence.Note{Pitch: 31, Velocity: 91, Ticks: 120},
	}
	var buf bytes.Buffer
	_, err := WriteMelody(&buf, melody, MelodyOptions(240, 100))
	require.NoError(t, err)

	src, err := ReadNotes(bytes.NewReader(buf.Bytes()), 0)
	require.NoError(t, err)
	assert.Equal(t, 240, src.TicksPerBeat)
	assert.Equal(t, []sequence.PitchEvent{
		{Pitch: 30, Velocity: 90, SourceTime: 0},
		{Pitch: 31, Velocity: 91, SourceTime: 240},
	}, src.Events)
}

func TestReadNotesLimit(t *testing.T) {
	row := make([]sequence.PitchEvent, 20)
	for i := range row {
		row[i] = sequence.PitchEvent{Pitch: uint8(40 + i), Velocity: 80}
	}
	var buf bytes.Buffer
	_, err := WritePitches(&buf, row, PitchOptions(480, 120))
	require.NoError(t, err)

	src, err := ReadNotes(bytes.NewReader(buf.Bytes()), 12)
	require.NoError(t, err)
	require.Len(t, src.Events, 12)
	assert.Equal(t, sequence.Pitches(row[:12]), sequence.Pitches(src.Events))
}

func TestWritePitchesFirstDelay(t *testing.T) {
	row := []sequence.PitchEvent{
		{Pitch: 24, Velocity: 80, SourceTime: 96},
		{Pitch: 25, Velocity: 80, SourceTime: 500},
	}
	var buf bytes.Buffer
	sum, err := WritePitches(&buf, row, PitchOptions(480, 120))
	require.NoError(t, err)
	assert.Equal(t, int64(96+960), sum.Ticks)

	assert.Equal(t, []span{
		{key: 24, on: 96, off: 576, velocity: 80},
		{key: 25, on: 576, off: 1056, velocity: 80},
	}, spans(t, buf.Bytes()))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.mid"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "melody.mid")
	melody := []sequence.MelodyEvent{sequence.Note{Pitch: 72, Velocity: 64, Ticks: 1920}}
	_, err := WriteMelodyFile(path, melody, MelodyOptions(480, 120))
	require.NoError(t, err)

	src, err := ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{72}, sequence.Pitches(src.Events))
}

func TestReadNotesGarbage(t *testing.T) {
	_, err := ReadNotes(bytes.NewReader([]byte("not a midi file")), 0)
	assert.Error(t, err)
}

func TestTimelineEmpty(t *testing.T) {
	events, end := Timeline(nil, 0)
	assert.Empty(t, events)
	assert.Zero(t, end)

	var buf bytes.Buffer
	sum, err := WriteMelody(&buf, nil, MelodyOptions(480, 120))
	require.NoError(t, err)
	assert.Zero(t, sum.Notes)
}
