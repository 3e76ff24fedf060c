package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Note     rune // ● sounding event
	Rest     rune // · silence
	Bar      rune // ▇ duration bar cell
	Selected rune // ▶ selected row
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Note:     '●',
			Rest:     '·',
			Bar:      '▇',
			Selected: '▶',
		},
	}
}

// Load builds a theme from a .gpl palette, or the built-in one when path is
// empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return New(nil), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted  = 0.2
	RoleFG     = 0.4
	RoleAccent = 0.5
	RoleRest   = 0.3
	RoleNote   = 0.7
	RoleDotted = 0.85
	RoleStatus = 1.0
)

func (t *Theme) FG() lipgloss.Color     { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color  { return t.Color(RoleMuted) }
func (t *Theme) Status() lipgloss.Color { return t.Color(RoleStatus) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// PitchRGB spreads the twelve pitch classes across the palette
func (t *Theme) PitchRGB(pitch int) RGB {
	return t.Palette.Lookup(0.35 + 0.65*float64(pitch%12)/11)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
