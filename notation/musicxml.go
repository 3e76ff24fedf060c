// Package notation writes melodies as MusicXML partwise scores.
package notation

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go-melody/debug"
	"go-melody/midi"
	"go-melody/sequence"
)

const doctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n"

// Options for a score
type Options struct {
	TicksPerBeat int
	Tempo        int
	Title        string
	PartName     string
}

// DefaultOptions is a piano part at 480 divisions and 120 bpm
func DefaultOptions() Options {
	return Options{
		TicksPerBeat: sequence.DefaultTicksPerBeat,
		Tempo:        120,
		PartName:     "Piano",
	}
}

// QuarterLength converts ticks to quarter notes
func QuarterLength(ticks, ticksPerBeat int) float64 {
	return float64(ticks) / float64(ticksPerBeat)
}

type ScorePartwise struct {
	XMLName        xml.Name       `xml:"score-partwise"`
	Version        string         `xml:"version,attr"`
	Work           *Work          `xml:"work,omitempty"`
	Identification Identification `xml:"identification"`
	PartList       PartList       `xml:"part-list"`
	Parts          []Part         `xml:"part"`
}

type Work struct {
	Title string `xml:"work-title"`
}

type Identification struct {
	Software string      `xml:"encoding>software"`
	Fields   []MiscField `xml:"miscellaneous>miscellaneous-field,omitempty"`
}

type MiscField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

type ScorePart struct {
	ID             string         `xml:"id,attr"`
	Name           string         `xml:"part-name"`
	Instrument     Instrument     `xml:"score-instrument"`
	MIDIInstrument MIDIInstrument `xml:"midi-instrument"`
}

type Instrument struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"instrument-name"`
}

type MIDIInstrument struct {
	ID      string `xml:"id,attr"`
	Channel int    `xml:"midi-channel"`
	Program int    `xml:"midi-program"`
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

type Measure struct {
	Number     int         `xml:"number,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
	Direction  *Direction  `xml:"direction,omitempty"`
	Notes      []Note      `xml:"note"`
}

type Attributes struct {
	Divisions int    `xml:"divisions"`
	Fifths    int    `xml:"key>fifths"`
	Beats     int    `xml:"time>beats"`
	BeatType  int    `xml:"time>beat-type"`
	ClefSign  string `xml:"clef>sign"`
	ClefLine  int    `xml:"clef>line"`
}

type Direction struct {
	Placement string    `xml:"placement,attr"`
	Metronome Metronome `xml:"direction-type>metronome"`
	Sound     Sound     `xml:"sound"`
}

type Metronome struct {
	BeatUnit  string `xml:"beat-unit"`
	PerMinute int    `xml:"per-minute"`
}

type Sound struct {
	Tempo int `xml:"tempo,attr"`
}

type Note struct {
	Dynamics  string     `xml:"dynamics,attr,omitempty"`
	Rest      *struct{}  `xml:"rest,omitempty"`
	Pitch     *Pitch     `xml:"pitch,omitempty"`
	Duration  int        `xml:"duration"`
	Ties      []Tie      `xml:"tie,omitempty"`
	Voice     string     `xml:"voice"`
	Type      string     `xml:"type,omitempty"`
	Dot       *struct{}  `xml:"dot,omitempty"`
	Notations *Notations `xml:"notations,omitempty"`
}

type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type Tie struct {
	Type string `xml:"type,attr"`
}

type Notations struct {
	Tied []Tie `xml:"tied"`
}

var steps = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// PitchOf spells a MIDI note with sharps
func PitchOf(midiNote uint8) *Pitch {
	s := steps[midiNote%12]
	return &Pitch{Step: s.step, Alter: s.alter, Octave: int(midiNote)/12 - 1}
}

// noteType names a tick length, if it is one of the twelve canonical values
func noteType(ticks, tpb int) (name string, dotted bool) {
	names := [sequence.NumDurations]string{"32nd", "16th", "eighth", "quarter", "half", "whole"}
	for i, d := range sequence.Durations(tpb) {
		switch ticks {
		case d:
			return names[i], false
		case sequence.Dotted(d):
			return names[i], true
		}
	}
	return "", false
}

// Build lays the melody out in 4/4 measures. Events crossing a barline are
// split and tied.
func Build(melody []sequence.MelodyEvent, opts Options) *ScorePartwise {
	tpb := opts.TicksPerBeat
	if tpb <= 0 {
		tpb = sequence.DefaultTicksPerBeat
	}
	partName := opts.PartName
	if partName == "" {
		partName = "Piano"
	}
	measureTicks := midi.BeatsPerMeasure * tpb

	score := &ScorePartwise{
		Version: "3.1",
		Identification: Identification{
			Software: "go-melody",
			Fields:   []MiscField{{Name: "run-id", Value: debug.RunID()}},
		},
		PartList: PartList{ScoreParts: []ScorePart{{
			ID:             "P1",
			Name:           partName,
			Instrument:     Instrument{ID: "P1-I1", Name: partName},
			MIDIInstrument: MIDIInstrument{ID: "P1-I1", Channel: 1, Program: 1},
		}}},
	}
	if opts.Title != "" {
		score.Work = &Work{Title: opts.Title}
	}

	first := Measure{
		Number: 1,
		Attributes: &Attributes{
			Divisions: tpb,
			Beats:     midi.BeatsPerMeasure,
			BeatType:  4,
			ClefSign:  "G",
			ClefLine:  2,
		},
	}
	if opts.Tempo > 0 {
		first.Direction = &Direction{
			Placement: "above",
			Metronome: Metronome{BeatUnit: "quarter", PerMinute: opts.Tempo},
			Sound:     Sound{Tempo: opts.Tempo},
		}
	}

	measures := []Measure{first}
	used := 0
	for _, ev := range melody {
		remaining := ev.Duration()
		tied := false
		for remaining > 0 {
			if used == measureTicks {
				measures = append(measures, Measure{Number: len(measures) + 1})
				used = 0
			}
			chunk := min(remaining, measureTicks-used)
			remaining -= chunk
			used += chunk

			n := Note{Duration: chunk, Voice: "1"}
			if name, dotted := noteType(chunk, tpb); name != "" {
				n.Type = name
				if dotted {
					n.Dot = &struct{}{}
				}
			}

			switch e := ev.(type) {
			case sequence.Rest:
				n.Rest = &struct{}{}
			case sequence.Note:
				n.Pitch = PitchOf(e.Pitch)
				n.Dynamics = fmt.Sprintf("%.2f", float64(e.Velocity)/90*100)
				var ties []Tie
				if tied {
					ties = append(ties, Tie{Type: "stop"})
				}
				if remaining > 0 {
					ties = append(ties, Tie{Type: "start"})
				}
				if len(ties) > 0 {
					n.Ties = ties
					n.Notations = &Notations{Tied: ties}
				}
			}
			tied = true

			last := &measures[len(measures)-1]
			last.Notes = append(last.Notes, n)
		}
	}

	score.Parts = []Part{{ID: "P1", Measures: measures}}
	return score
}

// Write encodes the melody as a MusicXML document
func Write(w io.Writer, melody []sequence.MelodyEvent, opts Options) error {
	if _, err := io.WriteString(w, xml.Header+doctype); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(Build(melody, opts)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile creates path and writes the score into it
func WriteFile(path string, melody []sequence.MelodyEvent, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, melody, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write musicxml %s: %w", path, err)
	}
	debug.Log("export", "wrote %s (%d events)", path, len(melody))
	return nil
}
