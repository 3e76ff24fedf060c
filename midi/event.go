package midi

import (
	"sort"

	"go-melody/sequence"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a channel message at an absolute tick
type Event struct {
	Tick     int64
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// Timeline lays a melody out as note-on/note-off pairs at absolute ticks.
// Rests only move time forward. end is the total length, trailing rests
// included.
func Timeline(melody []sequence.MelodyEvent, channel uint8) (events []Event, end int64) {
	var tick int64
	for _, ev := range melody {
		switch e := ev.(type) {
		case sequence.Note:
			events = append(events,
				Event{Tick: tick, Type: NoteOn, Channel: channel, Note: e.Pitch, Velocity: e.Velocity},
				Event{Tick: tick + int64(e.Ticks), Type: NoteOff, Channel: channel, Note: e.Pitch},
			)
			tick += int64(e.Ticks)
		case sequence.Rest:
			tick += int64(e.Ticks)
		}
	}
	return events, tick
}

// FixedTimeline lays pitch events out back to back, each lasting noteTicks.
// The first note is delayed by its SourceTime, the rest start immediately.
func FixedTimeline(pitches []sequence.PitchEvent, noteTicks int, channel uint8) (events []Event, end int64) {
	var tick int64
	for i, p := range pitches {
		if i == 0 {
			tick += int64(p.SourceTime)
		}
		events = append(events,
			Event{Tick: tick, Type: NoteOn, Channel: channel, Note: p.Pitch, Velocity: p.Velocity},
			Event{Tick: tick + int64(noteTicks), Type: NoteOff, Channel: channel, Note: p.Pitch},
		)
		tick += int64(noteTicks)
	}
	return events, tick
}

// sortByTick orders events by tick, keeping insertion order for ties so a
// note-off never jumps ahead of the note-on it closes.
func sortByTick(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
}
