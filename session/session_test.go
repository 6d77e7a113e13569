package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state", "session.toml"))

	gi := New("Pokemon Crystal", "/roms/GBC/crystal.gbc", "gambatte",
		"retroarch", []string{"-L", "gambatte_libretro.so", "/roms/GBC/crystal.gbc"},
		true, false)
	require.NoError(t, s.Save(gi))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, gi, got)
}

func TestLoadMissingIsNil(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.toml"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "session.toml"))

	require.NoError(t, s.Save(New("A", "/roms/a.gb", "gambatte", "retroarch", nil, true, false)))
	require.NoError(t, s.Save(New("B", "/roms/b.gba", "mgba", "retroarch", []string{"-v"}, true, true)))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "/roms/b.gba", got.Path)
	assert.True(t, got.NeedsSwap)
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	s := NewStore(path)

	require.NoError(t, s.Save(New("A", "/roms/a.gb", "gambatte", "retroarch", nil, true, false)))
	require.NoError(t, s.Delete())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting again is fine
	require.NoError(t, s.Delete())
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "session.toml"))

	require.NoError(t, s.Save(New("A", "/roms/a.gb", "gambatte", "retroarch", nil, true, false)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.toml", entries[0].Name())
}
