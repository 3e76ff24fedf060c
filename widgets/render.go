package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderCell renders a single colored symbol
func RenderCell(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// RenderBar renders width cells of the same symbol in one color
func RenderBar(color [3]uint8, symbol rune, width int) string {
	if width <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(strings.Repeat(string(symbol), width))
}

// BarWidth is the number of cells for a duration, one cell per 1/32 note.
// Anything shorter still gets one cell.
func BarWidth(ticks, ticksPerBeat int) int {
	unit := max(1, ticksPerBeat/8)
	return max(1, ticks/unit)
}

// RenderRow renders labelled cells separated by spaces, e.g. a pitch row
func RenderRow(labels []string, colors [][3]uint8) string {
	var out strings.Builder
	for i, label := range labels {
		if i > 0 {
			out.WriteString(" ")
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(colors[i%len(colors)])))
		out.WriteString(style.Render(label))
	}
	return out.String()
}

// RenderLegendItem renders a single legend item: "● Name - description"
func RenderLegendItem(color [3]uint8, symbol rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderCell(color, symbol), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
