// Package history keeps the bounded, durable record of recently launched
// titles that the game switcher offers as switch targets. Entries are keyed
// by content path; the store never grows past its capacity.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("history")

// DefaultCapacity bounds the store. The switcher UI shows at most one fewer
// (the active title is excluded).
const DefaultCapacity = 10

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// Entry is one remembered title. LastPlayed is unix seconds; Screenshot is
// the path of the frame captured the last time the title was left, empty if
// none was taken.
type Entry struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Core       string   `json:"core"`
	Command    string   `json:"command"`
	Args       []string `json:"args"`
	HasMenu    bool     `json:"has_menu"`
	NeedsSwap  bool     `json:"needs_swap"`
	Screenshot string   `json:"screenshot,omitempty"`
	LastPlayed int64    `json:"last_played"`
}

// Store is the process-wide history singleton. Mutations are serialized and
// flushed to disk with a temp-file rename before they return, so an unclean
// shutdown loses at most the write in flight. Readers always observe a
// consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	path     string
	capacity int

	// most-recent-first; order is the authority when timestamps collide
	entries []Entry

	now func() time.Time
}

// NewStore opens or creates the history file at path. A decode failure is
// degraded to an empty store with a warning; history is a convenience, not
// data the rest of the system may refuse to start without.
func NewStore(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	s := &Store{
		path:     path,
		capacity: capacity,
		now:      time.Now,
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("history: read %s: %w", path, err)
	}

	if err := json.Unmarshal(b, &s.entries); err != nil {
		log.Warningf("discarding unreadable history file %s: %v", path, err)
		s.entries = nil
		return s, nil
	}

	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].LastPlayed > s.entries[j].LastPlayed
	})

	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}

	return s, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RecordLaunch upserts by content path: an existing entry is refreshed and
// moved to most-recent rather than duplicated. Beyond capacity the oldest
// entry is evicted.
func (s *Store) RecordLaunch(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.LastPlayed = s.now().Unix()

	for i := range s.entries {
		if s.entries[i].Path == e.Path {
			// carry the previous screenshot forward unless the caller
			// supplied a fresh one
			if e.Screenshot == "" {
				e.Screenshot = s.entries[i].Screenshot
			}
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}

	s.entries = append([]Entry{e}, s.entries...)

	if len(s.entries) > s.capacity {
		evicted := s.entries[len(s.entries)-1]
		s.entries = s.entries[:len(s.entries)-1]
		log.Debugf("evicted %s (last played %d)", evicted.Path, evicted.LastPlayed)
	}

	return s.flushLocked()
}

// Recent returns up to limit entries, most recently played first, omitting
// the entry whose path equals excludingPath. The switcher passes the active
// session's path so it never offers the game already running.
func (s *Store) Recent(excludingPath string, limit int) []Entry {
	if limit <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for _, e := range s.entries {
		if e.Path == excludingPath {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Remove deletes the entry for path if present. Removing an absent path is a
// no-op, never an error.
func (s *Store) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Path == path {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.flushLocked()
		}
	}
	return nil
}

// SetScreenshot records the screenshot path for an existing entry. Missing
// entries are ignored; the screenshot will be attached on the next launch.
func (s *Store) SetScreenshot(path, screenshot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Path == path {
			s.entries[i].Screenshot = screenshot
			return s.flushLocked()
		}
	}
	return nil
}

func (s *Store) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("history: mkdir: %w", err)
	}

	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.json.tmp")
	if err != nil {
		return fmt.Errorf("history: temp file: %w", err)
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
		return fmt.Errorf("history: write: %w", err)
	}

	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("history: chmod: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("history: rename: %w", err)
	}

	return nil
}
