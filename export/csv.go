// Package export writes melodies as flat CSV tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go-melody/debug"
	"go-melody/sequence"
)

// Header of every melody table
var Header = []string{
	"Event_Number", "Type", "Note_Number", "Note_Name", "Velocity",
	"Duration_Ticks", "Duration_Name", "Duration_Spanish",
}

// Row renders one event. Rests leave the pitch columns blank.
func Row(number int, ev sequence.MelodyEvent) []string {
	ticks := ev.Duration()
	row := []string{strconv.Itoa(number), "", "", "", "",
		strconv.Itoa(ticks), sequence.DurationName(ticks), sequence.DurationNameSpanish(ticks)}

	switch e := ev.(type) {
	case sequence.Note:
		row[1] = "note"
		row[2] = strconv.Itoa(int(e.Pitch))
		row[3] = sequence.PitchName(int(e.Pitch))
		row[4] = strconv.Itoa(int(e.Velocity))
	case sequence.Rest:
		row[1] = "rest"
	}
	return row
}

// WriteCSV writes the header and one row per event, numbered from 1
func WriteCSV(w io.Writer, melody []sequence.MelodyEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i, ev := range melody {
		if err := cw.Write(Row(i+1, ev)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and writes the table into it
func WriteFile(path string, melody []sequence.MelodyEvent) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteCSV(f, melody)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	debug.Log("export", "wrote %s (%d rows)", path, len(melody))
	return nil
}
