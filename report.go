package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-melody/composer"
	"go-melody/midi"
	"go-melody/sequence"
	"go-melody/theme"
	"go-melody/widgets"
)

// report is the console output of the batch subcommands
type report struct {
	th     *theme.Theme
	title  lipgloss.Style
	dim    lipgloss.Style
	status lipgloss.Style
}

func newReport(th *theme.Theme) *report {
	if th == nil {
		th = theme.New(nil)
	}
	return &report{
		th:     th,
		title:  lipgloss.NewStyle().Bold(true).Foreground(th.Accent()),
		dim:    lipgloss.NewStyle().Foreground(th.Muted()),
		status: lipgloss.NewStyle().Foreground(th.Status()),
	}
}

func (r *report) pitchRow(events []sequence.PitchEvent) string {
	labels := make([]string, len(events))
	colors := make([][3]uint8, len(events))
	for i, e := range events {
		labels[i] = sequence.PitchName(int(e.Pitch))
		colors[i] = r.th.PitchRGB(int(e.Pitch))
	}
	return widgets.RenderRow(labels, colors)
}

func printSeed(r *report, path string, seed uint64, row []sequence.PitchEvent, sum midi.Summary) {
	fmt.Println(r.title.Render("Chromatic seed"))
	fmt.Println(r.dim.Render(fmt.Sprintf("seed %d", seed)))
	fmt.Printf("order: %v\n", sequence.Pitches(row))
	fmt.Printf("names: %s\n", r.pitchRow(row))
	fmt.Println(r.status.Render(fmt.Sprintf("wrote %s: %s", path, sum)))
}

func printParts(r *report, input string, parts []composer.Part, path string, sum midi.Summary) {
	fmt.Println(r.title.Render("Canonical row from " + input))
	for _, p := range parts {
		fmt.Printf("%-22s %v\n", p.Name, sequence.Pitches(p.Events))
		fmt.Printf("%-22s %s\n", "", r.pitchRow(p.Events))
	}
	fmt.Println(r.status.Render(fmt.Sprintf("wrote %s: %s", path, sum)))
}

func printInput(r *report, input string, src *midi.Source, seed uint64) {
	fmt.Println(r.title.Render(fmt.Sprintf("%s: %d notes, %d tpb", input, len(src.Events), src.TicksPerBeat)))
	fmt.Println(r.dim.Render(fmt.Sprintf("seed %d", seed)))

	sym := r.th.Symbols
	fmt.Println(widgets.RenderLegendItem(r.th.RGB(theme.RoleNote), sym.Note, "note", "pitch and note value"))
	fmt.Println(widgets.RenderLegendItem(r.th.RGB(theme.RoleRest), sym.Rest, "rest", "silence, pitch held for the next step"))
}

func printVariation(r *report, v composer.Variation, paths []string, sum midi.Summary, tpb int) {
	fmt.Println()
	fmt.Println(r.title.Render(fmt.Sprintf("Variation %d", v.Index)))

	var notes, rests int
	for _, ev := range v.Events {
		var cell string
		switch e := ev.(type) {
		case sequence.Note:
			notes++
			cell = widgets.RenderCell(r.th.PitchRGB(int(e.Pitch)), r.th.Symbols.Note)
			fmt.Printf("  %s %-4s %s\n", cell, sequence.PitchName(int(e.Pitch)), sequence.DurationName(e.Ticks))
		case sequence.Rest:
			rests++
			cell = widgets.RenderCell(r.th.RGB(theme.RoleRest), r.th.Symbols.Rest)
			fmt.Printf("  %s %-4s %s\n", cell, "rest", sequence.DurationName(e.Ticks))
		}
	}

	fmt.Println(r.dim.Render(fmt.Sprintf("%d notes, %d rests, %d steps, %.2f beats",
		notes, rests, v.Steps, float64(sequence.TotalTicks(v.Events))/float64(tpb))))
	if sum.Notes > 0 || sum.Ticks > 0 {
		fmt.Println(r.dim.Render("midi: " + sum.String()))
	}
	for _, p := range paths {
		fmt.Println(r.status.Render("wrote " + p))
	}
}

func usageText() string {
	help := widgets.RenderKeyHelp([]widgets.KeySection{
		{Title: "Commands:", Keys: []widgets.KeyBinding{
			{Key: "seed", Desc: "write a shuffled chromatic row [-o file] [-base n] [-seed n]"},
			{Key: "transform", Desc: "<in.mid> build the four-part canonical row [-o file] [-n 12] [-axis auto|pitch]"},
			{Key: "melody", Desc: "<in.mid> write rhythmic variations [-variations 3] [-seed n] [-max-steps n] [-parallel] [-formats mid,musicxml,csv]"},
			{Key: "browse", Desc: "<in.mid> browse variations interactively"},
			{Key: "config", Desc: "write the effective config [-o file]"},
		}},
		{Title: "Common flags:", Keys: []widgets.KeyBinding{
			{Key: "-config", Desc: "config file (default ~/.config/go-melody/config.yaml)"},
			{Key: "-debug", Desc: "write a debug log"},
		}},
	})
	return strings.Join([]string{"go-melody", "", help}, "\n")
}
