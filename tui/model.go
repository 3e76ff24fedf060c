package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-melody/composer"
	"go-melody/sequence"
	"go-melody/theme"
	"go-melody/widgets"
)

// WriteFunc exports a variation and returns the paths it wrote
type WriteFunc func(v composer.Variation) ([]string, error)

type Model struct {
	Input      []sequence.PitchEvent
	Parts      []composer.Part
	Variations []composer.Variation
	Options    composer.Options
	Theme      *theme.Theme
	Write      WriteFunc

	rng      *rand.Rand
	selected int
	scroll   int
	height   int
	status   string
	quitting bool
}

// regeneratedMsg carries a freshly rolled variation
type regeneratedMsg struct {
	variation composer.Variation
	err       error
}

// writtenMsg reports an export
type writtenMsg struct {
	paths []string
	err   error
}

func NewModel(parts []composer.Part, input []sequence.PitchEvent, variations []composer.Variation, opts composer.Options, th *theme.Theme, write WriteFunc) Model {
	return Model{
		Input:      input,
		Parts:      parts,
		Variations: variations,
		Options:    opts,
		Theme:      th,
		Write:      write,
		rng:        rand.New(rand.NewPCG(opts.Seed, uint64(len(variations)))),
		height:     24,
	}
}

// Selected returns the index of the highlighted variation
func (m Model) Selected() int { return m.selected }

// Status is the last message shown in the footer
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return nil
}

func Regenerate(input []sequence.PitchEvent, index int, seed [2]uint64, opts composer.Options) tea.Cmd {
	return func() tea.Msg {
		v, err := composer.Generate(context.Background(), input, index, seed, opts)
		return regeneratedMsg{variation: v, err: err}
	}
}

func WriteVariation(write WriteFunc, v composer.Variation) tea.Cmd {
	return func() tea.Msg {
		paths, err := write(v)
		return writtenMsg{paths: paths, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "j", "down":
			if m.selected < len(m.Variations)-1 {
				m.selected++
				m.scroll = 0
			}

		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.scroll = 0
			}

		case "J", "pgdown":
			m.scroll++

		case "K", "pgup":
			m.scroll = max(0, m.scroll-1)

		case "r":
			if len(m.Variations) == 0 {
				return m, nil
			}
			seed := [2]uint64{m.rng.Uint64(), m.rng.Uint64()}
			m.status = fmt.Sprintf("regenerating v%d...", m.selected+1)
			return m, Regenerate(m.Input, m.selected+1, seed, m.Options)

		case "w":
			if len(m.Variations) == 0 || m.Write == nil {
				return m, nil
			}
			m.status = fmt.Sprintf("writing v%d...", m.selected+1)
			return m, WriteVariation(m.Write, m.Variations[m.selected])
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height

	case regeneratedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.Variations[msg.variation.Index-1] = msg.variation
		m.status = fmt.Sprintf("v%d regenerated: %d events", msg.variation.Index, len(msg.variation.Events))

	case writtenMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = "wrote " + strings.Join(msg.paths, ", ")
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Status())

	tpb := m.Options.TicksPerBeat
	if tpb <= 0 {
		tpb = sequence.DefaultTicksPerBeat
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-melody  %d input notes  %d variations  %d tpb",
		len(m.Input), len(m.Variations), tpb)))
	out.WriteString("\n\n")

	for _, p := range m.Parts {
		out.WriteString(fmt.Sprintf("%-22s ", p.Name))
		out.WriteString(m.pitchRow(p.Events))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	for i, v := range m.Variations {
		prefix := "  "
		if i == m.selected {
			prefix = string(m.Theme.Symbols.Selected) + " "
		}
		line := fmt.Sprintf("%sv%d  %3d events  %6d ticks  seed %016x", prefix, v.Index,
			len(v.Events), sequence.TotalTicks(v.Events), v.Seed[0])
		if i == m.selected {
			out.WriteString(headerStyle.Render(line))
		} else {
			out.WriteString(dimStyle.Render(line))
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")

	if len(m.Variations) > 0 {
		out.WriteString(m.eventList(m.Variations[m.selected], tpb))
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("j/k:variation  J/K:scroll  r:regenerate  w:write  q:quit"))
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}
	return out.String()
}

func (m Model) pitchRow(events []sequence.PitchEvent) string {
	labels := make([]string, len(events))
	colors := make([][3]uint8, len(events))
	for i, e := range events {
		labels[i] = fmt.Sprintf("%-3s", sequence.PitchName(int(e.Pitch)))
		colors[i] = m.Theme.PitchRGB(int(e.Pitch))
	}
	return widgets.RenderRow(labels, colors)
}

// eventList shows a window of the selected variation, one event per line
func (m Model) eventList(v composer.Variation, tpb int) string {
	rows := max(4, m.height-len(m.Parts)-len(m.Variations)-10)
	start := min(m.scroll*rows, max(0, len(v.Events)-1))
	end := min(len(v.Events), start+rows)

	sym := m.Theme.Symbols
	var out strings.Builder
	for i := start; i < end; i++ {
		ev := v.Events[i]
		ticks := ev.Duration()
		width := min(widgets.BarWidth(ticks, tpb), 48)

		var label string
		var bar string
		switch e := ev.(type) {
		case sequence.Note:
			label = fmt.Sprintf("%s %-4s", widgets.RenderCell(m.Theme.PitchRGB(int(e.Pitch)), sym.Note), sequence.PitchName(int(e.Pitch)))
			role := theme.RoleNote
			if isDotted(ticks, tpb) {
				role = theme.RoleDotted
			}
			bar = widgets.RenderBar(m.Theme.RGB(role), sym.Bar, width)
		case sequence.Rest:
			label = fmt.Sprintf("%s %-4s", widgets.RenderCell(m.Theme.RGB(theme.RoleRest), sym.Rest), "rest")
			bar = widgets.RenderBar(m.Theme.RGB(theme.RoleRest), sym.Rest, width)
		}
		out.WriteString(fmt.Sprintf("%4d %s %-14s %s\n", i+1, label, sequence.DurationName(ticks), bar))
	}
	if end < len(v.Events) {
		out.WriteString(fmt.Sprintf("     ... %d more\n", len(v.Events)-end))
	}
	return out.String()
}

func isDotted(ticks, tpb int) bool {
	for _, d := range sequence.Durations(tpb) {
		if ticks == sequence.Dotted(d) {
			return true
		}
	}
	return false
}
