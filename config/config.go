package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"go-melody/sequence"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Format is an export target
type Format string

const (
	FormatMIDI     Format = "mid"
	FormatMusicXML Format = "musicxml"
	FormatCSV      Format = "csv"
)

// AllFormats in the order they are written
var AllFormats = []Format{FormatMIDI, FormatMusicXML, FormatCSV}

// UIConfig stores browser preferences
type UIConfig struct {
	Palette string `yaml:"palette,omitempty"` // path to a GIMP .gpl palette
}

// Config is the main configuration structure
type Config struct {
	BasePitch    int      `yaml:"basePitch"`
	Velocity     int      `yaml:"velocity"`
	TicksPerBeat int      `yaml:"ticksPerBeat"`
	Tempo        int      `yaml:"tempo"`
	FirstN       int      `yaml:"firstN"`     // note-ons read by transform
	Variations   int      `yaml:"variations"` // melodies generated by melody
	MaxSteps     int      `yaml:"maxSteps,omitempty"`
	Seed         uint64   `yaml:"seed,omitempty"` // 0 = pick one per run
	Parallel     bool     `yaml:"parallel,omitempty"`
	OutputDir    string   `yaml:"outputDir,omitempty"`
	Formats      []Format `yaml:"formats,omitempty"`
	UI           UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BasePitch:    sequence.DefaultBasePitch,
		Velocity:     sequence.DefaultVelocity,
		TicksPerBeat: sequence.DefaultTicksPerBeat,
		Tempo:        120,
		FirstN:       sequence.SeedLength,
		Variations:   3,
		Formats:      slices.Clone(AllFormats),
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-melody"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default location, or returns defaults if
// there is none
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing fields keep their defaults; a
// missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating directories as needed
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges
func (c *Config) Validate() error {
	switch {
	case c.BasePitch < sequence.MinPitch || c.BasePitch > sequence.MaxBasePitch:
		return fmt.Errorf("%w: basePitch %d outside %d-%d", ErrInvalid, c.BasePitch, sequence.MinPitch, sequence.MaxBasePitch)
	case c.Velocity < 1 || c.Velocity > 127:
		return fmt.Errorf("%w: velocity %d outside 1-127", ErrInvalid, c.Velocity)
	case c.TicksPerBeat < 8 || c.TicksPerBeat > 0x7FFF:
		return fmt.Errorf("%w: ticksPerBeat %d outside 8-32767", ErrInvalid, c.TicksPerBeat)
	case c.Tempo <= 0:
		return fmt.Errorf("%w: tempo %d", ErrInvalid, c.Tempo)
	case c.Variations < 0:
		return fmt.Errorf("%w: variations %d", ErrInvalid, c.Variations)
	case c.MaxSteps < 0:
		return fmt.Errorf("%w: maxSteps %d", ErrInvalid, c.MaxSteps)
	}
	for _, f := range c.Formats {
		if !slices.Contains(AllFormats, f) {
			return fmt.Errorf("%w: unknown format %q", ErrInvalid, f)
		}
	}
	return nil
}

// Wants reports whether format f should be written
func (c *Config) Wants(f Format) bool {
	return slices.Contains(c.Formats, f)
}
