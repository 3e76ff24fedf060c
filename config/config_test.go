package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFilePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variations: 5\nseed: 42\nformats: [csv]\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Variations)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 480, cfg.TicksPerBeat, "unset fields keep defaults")
	assert.True(t, cfg.Wants(FormatCSV))
	assert.False(t, cfg.Wants(FormatMIDI))
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("basePitch: 200\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	require.NoError(t, os.WriteFile(path, []byte("formats: [wav]\n"), 0644))
	_, err = LoadFile(path)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidateBasePitchFitsRow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BasePitch = 116
	assert.NoError(t, cfg.Validate())

	cfg.BasePitch = 117
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid, "a row from 117 would clamp to duplicate 127s")

	cfg.BasePitch = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Variations = 7
	require.NoError(t, cfg.Save())

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "go-melody", "config.yaml"), path)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Variations)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Parallel = true
	cfg.UI.Palette = "plasma.gpl"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
