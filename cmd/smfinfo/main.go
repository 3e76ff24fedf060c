package main

import (
	"fmt"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-melody/midi"
	"go-melody/sequence"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = info(os.Args[2])
	case "notes":
		err = notes(os.Args[2])
	case "events":
		err = events(os.Args[2])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("SMF inspection")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info <file>    - Time format, tracks and note count")
	fmt.Println("  notes <file>   - Note starts as the transforms see them")
	fmt.Println("  events <file>  - Every track event with absolute ticks")
}

func info(path string) error {
	s, err := smf.ReadFile(path)
	if err != nil {
		return err
	}
	src, err := midi.ReadFile(path, 0)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  format: %d\n", s.Format())
	fmt.Printf("  time:   %s\n", s.TimeFormat)
	fmt.Printf("  tracks: %d\n", len(s.Tracks))
	fmt.Printf("  notes:  %d\n", len(src.Events))
	return nil
}

func notes(path string) error {
	src, err := midi.ReadFile(path, 0)
	if err != nil {
		return err
	}
	for i, e := range src.Events {
		fmt.Printf("%4d  %-4s %3d  vel %3d  delta %d\n", i+1, sequence.PitchName(int(e.Pitch)), e.Pitch, e.Velocity, e.SourceTime)
	}
	return nil
}

func events(path string) error {
	s, err := smf.ReadFile(path)
	if err != nil {
		return err
	}
	for i, tr := range s.Tracks {
		fmt.Printf("=== Track %d ===\n", i)
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)
			fmt.Printf("%8d  %s\n", abs, gomidi.Message(ev.Message))
		}
	}
	return nil
}
