package main

import (
	"fmt"

	"go-melody/composer"
	"go-melody/config"
	"go-melody/export"
	"go-melody/midi"
	"go-melody/notation"
)

// exporter writes a variation in every configured format next to its input
type exporter struct {
	cfg        *config.Config
	input      string
	outputPath func(input, suffix string) string
}

func (e exporter) write(v composer.Variation) (paths []string, sum midi.Summary, err error) {
	name := fmt.Sprintf("_melody_v%d", v.Index)

	for _, f := range config.AllFormats {
		if !e.cfg.Wants(f) {
			continue
		}
		path := e.outputPath(e.input, name+"."+string(f))

		switch f {
		case config.FormatMIDI:
			sum, err = midi.WriteMelodyFile(path, v.Events, midi.MelodyOptions(e.cfg.TicksPerBeat, float64(e.cfg.Tempo)))
		case config.FormatMusicXML:
			opts := notation.DefaultOptions()
			opts.TicksPerBeat = e.cfg.TicksPerBeat
			opts.Tempo = e.cfg.Tempo
			opts.Title = fmt.Sprintf("Melody v%d", v.Index)
			err = notation.WriteFile(path, v.Events, opts)
		case config.FormatCSV:
			err = export.WriteFile(path, v.Events)
		}
		if err != nil {
			return paths, sum, err
		}
		paths = append(paths, path)
	}
	return paths, sum, nil
}
