package midi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-melody/debug"
	"go-melody/sequence"
)

// BeatsPerMeasure is fixed at 4/4
const BeatsPerMeasure = 4

// WriteOptions controls file layout
type WriteOptions struct {
	TicksPerBeat int
	Tempo        float64 // bpm
	TrackName    string  // omitted when empty
	Meter        bool    // write a 4/4 time signature and a C major key
	Program      int     // program change before the first note, -1 for none
	Channel      uint8
	NoteTicks    int // note length for WritePitches
}

// MelodyOptions are the defaults for rhythmic output: named track, 4/4,
// piano.
func MelodyOptions(ticksPerBeat int, tempo float64) WriteOptions {
	return WriteOptions{
		TicksPerBeat: ticksPerBeat,
		Tempo:        tempo,
		TrackName:    "Melody",
		Meter:        true,
		Program:      0,
	}
}

// PitchOptions are the defaults for plain pitch rows: quarter notes, tempo
// only.
func PitchOptions(ticksPerBeat int, tempo float64) WriteOptions {
	return WriteOptions{
		TicksPerBeat: ticksPerBeat,
		Tempo:        tempo,
		Program:      -1,
		NoteTicks:    ticksPerBeat,
	}
}

// Summary describes a written file
type Summary struct {
	Ticks    int64
	Measures float64
	Notes    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d ticks (%.2f measures), %d notes", s.Ticks, s.Measures, s.Notes)
}

// WriteMelody encodes a melody: notes as on/off pairs, rests as the delta
// before the next note-on. Trailing rests become the end-of-track delta.
func WriteMelody(w io.Writer, melody []sequence.MelodyEvent, opts WriteOptions) (Summary, error) {
	events, end := Timeline(melody, opts.Channel)
	return write(w, events, end, opts)
}

// WritePitches encodes pitch events back to back with a fixed length
func WritePitches(w io.Writer, pitches []sequence.PitchEvent, opts WriteOptions) (Summary, error) {
	noteTicks := opts.NoteTicks
	if noteTicks <= 0 {
		noteTicks = opts.TicksPerBeat
	}
	events, end := FixedTimeline(pitches, noteTicks, opts.Channel)
	return write(w, events, end, opts)
}

// WriteMelodyFile creates path and writes a melody into it
func WriteMelodyFile(path string, melody []sequence.MelodyEvent, opts WriteOptions) (Summary, error) {
	return writeFile(path, func(w io.Writer) (Summary, error) {
		return WriteMelody(w, melody, opts)
	})
}

// WritePitchesFile creates path and writes pitch events into it
func WritePitchesFile(path string, pitches []sequence.PitchEvent, opts WriteOptions) (Summary, error) {
	return writeFile(path, func(w io.Writer) (Summary, error) {
		return WritePitches(w, pitches, opts)
	})
}

func writeFile(path string, fn func(io.Writer) (Summary, error)) (Summary, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Summary{}, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return Summary{}, err
	}

	sum, err := fn(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Summary{}, fmt.Errorf("write midi %s: %w", path, err)
	}
	debug.Log("midi", "wrote %s: %s", path, sum)
	return sum, nil
}

func write(w io.Writer, events []Event, end int64, opts WriteOptions) (Summary, error) {
	tpb := opts.TicksPerBeat
	if tpb <= 0 {
		tpb = sequence.DefaultTicksPerBeat
	}
	tempo := opts.Tempo
	if tempo <= 0 {
		tempo = 120
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(tpb)

	var tr smf.Track
	if opts.TrackName != "" {
		tr.Add(0, smf.MetaTrackSequenceName(opts.TrackName))
	}
	tr.Add(0, smf.MetaTempo(tempo))
	if opts.Meter {
		tr.Add(0, smf.MetaMeter(BeatsPerMeasure, 4))
		tr.Add(0, smf.MetaKey(0, true, 0, false))
	}
	if opts.Program >= 0 {
		tr.Add(0, gomidi.ProgramChange(opts.Channel, uint8(opts.Program)))
	}

	sortByTick(events)

	sum := Summary{Ticks: end}
	var last int64
	for _, ev := range events {
		delta := uint32(ev.Tick - last)
		last = ev.Tick
		switch ev.Type {
		case NoteOn:
			tr.Add(delta, gomidi.NoteOn(ev.Channel, ev.Note, ev.Velocity))
			sum.Notes++
		case NoteOff:
			tr.Add(delta, gomidi.NoteOff(ev.Channel, ev.Note))
		}
	}
	tr.Close(uint32(max(0, end-last)))

	if err := s.Add(tr); err != nil {
		return Summary{}, err
	}
	if _, err := s.WriteTo(w); err != nil {
		return Summary{}, err
	}

	sum.Measures = float64(end) / float64(BeatsPerMeasure*tpb)
	return sum, nil
}
