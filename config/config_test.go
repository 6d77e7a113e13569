package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray allium.toml in
// the working tree leaks into the loaded config.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseDir, cfg.BaseDir)
	assert.Equal(t, "127.0.0.1:55355", cfg.RetroArchAddr)
	assert.Equal(t, 300*time.Millisecond, cfg.CommandTimeout)
	assert.Equal(t, time.Second, cfg.SaveTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.QuitPollInterval)
	assert.Equal(t, 10, cfg.QuitPollAttempts)
	assert.Equal(t, 10, cfg.HistoryCapacity)
	assert.Equal(t, 9, cfg.CandidateLimit)
	assert.Equal(t, "fbdev", cfg.DisplayDriver)
	assert.True(t, cfg.Rotated180)
	assert.Equal(t, "127.0.0.1:8192", cfg.UIListenAddr)

	// derived paths hang off the base dir
	assert.Equal(t, filepath.Join(DefaultBaseDir, "state", "session.toml"), cfg.SessionFile)
	assert.Equal(t, filepath.Join(DefaultBaseDir, "state", "history.json"), cfg.HistoryFile)
	assert.Equal(t, filepath.Join(DefaultBaseDir, "screenshots"), cfg.ScreenshotsDir)
	assert.Equal(t, filepath.Join(DefaultBaseDir, "switcherd.log"), cfg.LogFile)
}

func TestConfigFileOverrides(t *testing.T) {
	chdirTemp(t)

	base := t.TempDir()
	require.NoError(t, os.WriteFile("allium.toml", []byte(`
base_dir = "`+base+`"

[retroarch]
addr = "127.0.0.1:50000"
quit_poll_attempts = 3

[display]
driver = "sdl"
rotated_180 = false
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, base, cfg.BaseDir)
	assert.Equal(t, "127.0.0.1:50000", cfg.RetroArchAddr)
	assert.Equal(t, 3, cfg.QuitPollAttempts)
	assert.Equal(t, "sdl", cfg.DisplayDriver)
	assert.False(t, cfg.Rotated180)

	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.HistoryCapacity)

	// derived paths follow the overridden base dir
	assert.Equal(t, filepath.Join(base, "state", "history.json"), cfg.HistoryFile)
}

func TestEnvironmentOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ALLIUM_RETROARCH_ADDR", "10.0.0.5:55355")
	t.Setenv("ALLIUM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:55355", cfg.RetroArchAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}
