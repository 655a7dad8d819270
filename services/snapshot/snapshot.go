package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"seoulfit/discoveryworker/internal/crawler"
	"seoulfit/discoveryworker/logger"
)

// Entry is one brand's timestamped product snapshot. Entries are written
// whole by the discovery run that produced them and never mutated after.
// A failed crawl is recorded the same way as an empty storefront: an entry
// with no products and a current timestamp.
type Entry struct {
	Products  []crawler.Product `json:"products"`
	CrawledAt time.Time         `json:"crawled_at"`
	BrandName string            `json:"brand_name,omitempty"`
}

// Store maps brand ids to product snapshots, persisted as one JSON file.
// Persistence is whole-store: the file is read wholesale at the start of a
// discovery run and written wholesale at the end. Concurrent processes
// writing the same file race on last-write-wins; keep a single writer.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
}

// Load reads the snapshot file into a new store. A missing or corrupt file
// loads as an empty store, so every brand looks like a cache miss.
func Load(path string) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.ForStore().Warn().Err(err).Str("path", path).Msg("Snapshot file unreadable, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.ForStore().Warn().Err(err).Str("path", path).Msg("Snapshot file corrupt, starting empty")
		s.entries = make(map[string]Entry)
	}
	return s
}

// Get returns the entry for a brand id.
func (s *Store) Get(brandID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[brandID]
	return e, ok
}

// Put stores (or overwrites) the entry for a brand id.
func (s *Store) Put(brandID string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[brandID] = e
}

// Fresh reports whether the brand's entry was captured less than ttl ago.
// An entry exactly ttl old is stale.
func (s *Store) Fresh(brandID string, ttl time.Duration, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[brandID]
	if !ok {
		return false
	}
	return now.Sub(e.CrawledAt) < ttl
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Persist serializes the whole mapping back to the snapshot file. There are
// no partial writes.
func (s *Store) Persist() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
