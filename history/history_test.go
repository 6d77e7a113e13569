package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock hands out strictly increasing timestamps so recency ordering is
// deterministic even when many launches land in the same second.
func fixedClock(start int64) func() time.Time {
	t := start
	return func() time.Time {
		t++
		return time.Unix(t, 0)
	}
}

func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.json"), capacity)
	require.NoError(t, err)
	s.now = fixedClock(1_700_000_000)
	return s
}

func entry(path string) Entry {
	return Entry{
		Name:    filepath.Base(path),
		Path:    path,
		Core:    "gambatte",
		Command: "retroarch",
		Args:    []string{"-L", "gambatte_libretro.so", path},
		HasMenu: true,
	}
}

func TestRecordLaunchBoundsCapacity(t *testing.T) {
	s := newTestStore(t, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.RecordLaunch(entry(fmt.Sprintf("/roms/game%02d.gb", i))))
	}

	assert.Equal(t, 3, s.Len())

	// the survivors are the three most recent, newest first
	recent := s.Recent("", 10)
	require.Len(t, recent, 3)
	assert.Equal(t, "/roms/game09.gb", recent[0].Path)
	assert.Equal(t, "/roms/game08.gb", recent[1].Path)
	assert.Equal(t, "/roms/game07.gb", recent[2].Path)
}

func TestRecordLaunchIsIdempotentOnPath(t *testing.T) {
	s := newTestStore(t, 10)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.RecordLaunch(entry("/roms/b.gb")))

	first := s.Recent("", 10)
	require.Len(t, first, 2)
	aPlayed := first[1].LastPlayed

	// relaunch a: no duplicate, timestamp refreshed, moved to front
	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))

	recent := s.Recent("", 10)
	require.Len(t, recent, 2)
	assert.Equal(t, "/roms/a.gb", recent[0].Path)
	assert.Greater(t, recent[0].LastPlayed, aPlayed)
}

func TestRecentExcludesActivePath(t *testing.T) {
	s := newTestStore(t, 10)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.RecordLaunch(entry("/roms/b.gb")))

	recent := s.Recent("/roms/b.gb", 9)
	require.Len(t, recent, 1)
	assert.Equal(t, "/roms/a.gb", recent[0].Path)

	for _, e := range s.Recent("/roms/a.gb", 9) {
		assert.NotEqual(t, "/roms/a.gb", e.Path)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	s := newTestStore(t, 10)

	for i := 0; i < 6; i++ {
		require.NoError(t, s.RecordLaunch(entry(fmt.Sprintf("/roms/game%d.gb", i))))
	}

	recent := s.Recent("", 4)
	assert.Len(t, recent, 4)

	// sorted by timestamp descending
	for i := 1; i < len(recent); i++ {
		assert.GreaterOrEqual(t, recent[i-1].LastPlayed, recent[i].LastPlayed)
	}
}

func TestRecentEmptyStore(t *testing.T) {
	s := newTestStore(t, 10)
	assert.Empty(t, s.Recent("/roms/anything.gb", 9))
}

func TestRecentNonPositiveLimit(t *testing.T) {
	s := newTestStore(t, 10)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.RecordLaunch(entry("/roms/b.gb")))

	// at most limit entries, even when limit is zero or nonsense
	assert.Empty(t, s.Recent("", 0))
	assert.Empty(t, s.Recent("", -1))
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, 10)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.Remove("/roms/a.gb"))
	assert.Equal(t, 0, s.Len())

	// removing an absent path is a no-op, never an error
	require.NoError(t, s.Remove("/roms/never-seen.gb"))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s, err := NewStore(path, 10)
	require.NoError(t, err)
	s.now = fixedClock(1_700_000_000)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.RecordLaunch(entry("/roms/b.gb")))

	reopened, err := NewStore(path, 10)
	require.NoError(t, err)

	recent := reopened.Recent("", 10)
	require.Len(t, recent, 2)
	assert.Equal(t, "/roms/b.gb", recent[0].Path)
	assert.Equal(t, "/roms/a.gb", recent[1].Path)
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	s, err := NewStore(path, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestReopenWithSmallerCapacityTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s, err := NewStore(path, 10)
	require.NoError(t, err)
	s.now = fixedClock(1_700_000_000)
	for i := 0; i < 6; i++ {
		require.NoError(t, s.RecordLaunch(entry(fmt.Sprintf("/roms/game%d.gb", i))))
	}

	small, err := NewStore(path, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, small.Len())
	assert.Equal(t, "/roms/game5.gb", small.Recent("", 10)[0].Path)
}

func TestSetScreenshot(t *testing.T) {
	s := newTestStore(t, 10)

	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	require.NoError(t, s.SetScreenshot("/roms/a.gb", "/shots/abc.png"))

	recent := s.Recent("", 1)
	require.Len(t, recent, 1)
	assert.Equal(t, "/shots/abc.png", recent[0].Screenshot)

	// screenshot survives a relaunch that does not supply one
	require.NoError(t, s.RecordLaunch(entry("/roms/a.gb")))
	assert.Equal(t, "/shots/abc.png", s.Recent("", 1)[0].Screenshot)

	// unknown path is ignored
	require.NoError(t, s.SetScreenshot("/roms/never.gb", "/shots/x.png"))
}

func TestScreenshotPath(t *testing.T) {
	a := ScreenshotPath("/shots", "/roms/GB/zelda.gb")
	b := ScreenshotPath("/shots", "/roms/GBC/zelda.gb")

	// same title replayed maps to the same file; same base name in a
	// different directory does not collide
	assert.Equal(t, a, ScreenshotPath("/shots", "/roms/GB/zelda.gb"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, "/shots", filepath.Dir(a))
	assert.Equal(t, ".png", filepath.Ext(a))
}
