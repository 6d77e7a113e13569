// Package session persists the record of the single currently-running title.
// Whichever component launches a game owns the write; the switcher only ever
// reads it and overwrites it as the final step of a switch.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/op/go-logging"
	toml "github.com/pelletier/go-toml/v2"
)

var log = logging.MustGetLogger("session")

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// GameInfo describes the running title. It is overwritten, never appended,
// on every launch.
type GameInfo struct {
	Name      string   `toml:"name"`
	Path      string   `toml:"path"`
	Core      string   `toml:"core"`
	Command   string   `toml:"command"`
	Args      []string `toml:"args"`
	HasMenu   bool     `toml:"has_menu"`
	NeedsSwap bool     `toml:"needs_swap"`
	StartTime int64    `toml:"start_time"`
}

func New(name, path, core, command string, args []string, hasMenu, needsSwap bool) *GameInfo {
	return &GameInfo{
		Name:      name,
		Path:      path,
		Core:      core,
		Command:   command,
		Args:      args,
		HasMenu:   hasMenu,
		NeedsSwap: needsSwap,
		StartTime: time.Now().Unix(),
	}
}

// Store reads and writes the session record at a fixed path. Writes go
// through a temp file and rename so a crash mid-write leaves either the old
// record or the new one, never a mix.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the current session record, or nil when no game is running
// (no record on disk).
func (s *Store) Load() (*GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: read %s: %w", s.path, err)
	}

	var gi GameInfo
	if err := toml.Unmarshal(b, &gi); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", s.path, err)
	}

	return &gi, nil
}

func (s *Store) Save(gi *GameInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}

	b, err := toml.Marshal(gi)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("session: temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(b)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: write: %w", err)
	}

	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: chmod: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("session: rename: %w", err)
	}

	log.Debugf("saved session: %s (%s)", gi.Name, gi.Path)
	return nil
}

// Delete removes the session record. Absence is not an error; it simply
// means no game is running.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
