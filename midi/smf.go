package midi

import (
	"errors"
	"fmt"
	"io"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-melody/debug"
	"go-melody/sequence"
)

// ErrNoNotes is returned by callers that need at least one note start
var ErrNoNotes = errors.New("no notes found")

// Source is what the reader pulls out of a Standard MIDI File
type Source struct {
	Events       []sequence.PitchEvent
	TicksPerBeat int
}

// ReadFile opens path and reads note starts from it. limit <= 0 reads all.
// A missing file comes back wrapping fs.ErrNotExist.
func ReadFile(path string, limit int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read midi: %w", err)
	}
	defer f.Close()

	src, err := ReadNotes(f, limit)
	if err != nil {
		return nil, fmt.Errorf("read midi %s: %w", path, err)
	}
	debug.Log("midi", "read %d notes from %s (%d tpb)", len(src.Events), path, src.TicksPerBeat)
	return src, nil
}

// ReadNotes walks every track in file order and keeps note-ons with a
// non-zero velocity. SourceTime is the event's delta time.
func ReadNotes(r io.Reader, limit int) (*Source, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}

	src := &Source{TicksPerBeat: sequence.DefaultTicksPerBeat}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt > 0 {
		src.TicksPerBeat = int(mt)
	}

	for _, tr := range s.Tracks {
		for _, ev := range tr {
			var ch, key, vel uint8
			if !gomidi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) || vel == 0 {
				continue
			}
			src.Events = append(src.Events, sequence.PitchEvent{
				Pitch:      key,
				Velocity:   vel,
				SourceTime: ev.Delta,
			})
			if limit > 0 && len(src.Events) == limit {
				return src, nil
			}
		}
	}
	return src, nil
}
