// Package history persists the palette's usage history: how often and how
// recently each candidate was invoked. The whole map is stored as one JSON
// blob under a well-known key in the state database, loaded once when a
// palette session opens and written back after every recorded use.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/twistedx/cmdeck/internal/logging"
	"github.com/twistedx/cmdeck/internal/palette"
	"github.com/twistedx/cmdeck/internal/statedb"
)

var log = logging.ForComponent(logging.CompHistory)

// MetaKey is the metadata key the usage blob is stored under.
const MetaKey = "palette_usage_v1"

// Store holds the in-memory usage map and its persistence.
// Safe for concurrent use; the scoring path only ever sees snapshots.
type Store struct {
	db    *statedb.StateDB
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]palette.Usage

	reload singleflight.Group

	// notifySave, when set, is called after each successful persist so the
	// file watcher can ignore our own writes.
	notifySave func()
}

// NewStore creates a store over db. Call Load before first use.
func NewStore(db *statedb.StateDB) *Store {
	return &Store{
		db:      db,
		clock:   time.Now,
		entries: make(map[string]palette.Usage),
	}
}

// Load reads the usage blob from the database. Missing or corrupt data
// degrades to an empty map rather than an error: a broken history file must
// never break search.
func (s *Store) Load() error {
	raw, err := s.db.GetMeta(MetaKey)
	if err != nil {
		return fmt.Errorf("history: load: %w", err)
	}

	entries := make(map[string]palette.Usage)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			log.Warn("usage_blob_corrupt", slog.String("error", err.Error()))
			entries = make(map[string]palette.Usage)
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Reload re-reads the blob, collapsing concurrent callers (the watcher can
// fire several events for one external write).
func (s *Store) Reload() error {
	_, err, _ := s.reload.Do("reload", func() (any, error) {
		return nil, s.Load()
	})
	return err
}

// Snapshot returns a copy of the usage map for one scoring pass.
func (s *Store) Snapshot() map[string]palette.Usage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]palette.Usage, len(s.entries))
	for id, u := range s.entries {
		out[id] = u
	}
	return out
}

// Get returns the entry for a candidate id.
func (s *Store) Get(id string) (palette.Usage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.entries[id]
	return u, ok
}

// RecordUse increments the use count for id, stamps the current time, and
// persists immediately.
func (s *Store) RecordUse(id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	u := s.entries[id]
	u.UseCount++
	u.LastUsedAt = s.clock().Unix()
	s.entries[id] = u
	s.mu.Unlock()

	return s.persist()
}

// Reset drops all usage history and persists the empty map.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.entries = make(map[string]palette.Usage)
	s.mu.Unlock()
	return s.persist()
}

func (s *Store) persist() error {
	s.mu.RLock()
	blob, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	if err := s.db.SetMeta(MetaKey, string(blob)); err != nil {
		return fmt.Errorf("history: persist: %w", err)
	}
	if err := s.db.Touch(); err != nil {
		return fmt.Errorf("history: touch: %w", err)
	}
	if s.notifySave != nil {
		s.notifySave()
	}
	return nil
}

// SetSaveNotifier registers a callback invoked after each persist.
func (s *Store) SetSaveNotifier(fn func()) {
	s.notifySave = fn
}
