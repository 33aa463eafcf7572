// Package cache persists inventory snapshots to a single JSON file with
// atomic replace-on-write semantics: a concurrent reader observes either the
// old snapshot or the fully-written new one, never a partial record.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

var (
	// ErrCorrupt means a cache file exists but could not be parsed or has
	// an unknown schema version. Callers treat it as cache-miss and
	// refetch; it never aborts the process.
	ErrCorrupt = errors.New("cache file is corrupt")
	// ErrPersistence wraps filesystem failures while writing the cache.
	ErrPersistence = errors.New("cache persistence failed")
)

// Store reads and writes the on-disk cache record.
type Store struct {
	path   string
	maxAge time.Duration
	now    func() time.Time
}

// NewStore returns a store backed by the given file path. maxAge is the
// freshness window used by IsStale.
func NewStore(path string, maxAge time.Duration) *Store {
	return &Store{path: path, maxAge: maxAge, now: time.Now}
}

// Load reads the persisted snapshot. The boolean is false when no cache file
// exists. A present-but-unparseable file returns ErrCorrupt.
func (s *Store) Load() (models.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if snap.Version != models.SnapshotVersion {
		return models.Snapshot{}, false, fmt.Errorf("%w: unsupported schema version %d", ErrCorrupt, snap.Version)
	}
	return snap, true, nil
}

// IsStale reports whether the snapshot must be refetched: forced refresh, no
// snapshot at all, or fetch timestamp older than the freshness window.
func (s *Store) IsStale(snap models.Snapshot, found, force bool) bool {
	if force || !found {
		return true
	}
	return snap.Age(s.now()) > s.maxAge
}

// Save writes the snapshot atomically: marshal to a temp file in the cache
// directory, then rename over the previous record. A crash mid-write leaves
// the old cache intact.
func (s *Store) Save(snap models.Snapshot) error {
	snap.Version = models.SnapshotVersion

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// FormatAge renders a cache age the way the CLI reports it, e.g.
// "2 days, 3 hours, 14 minutes".
func FormatAge(age time.Duration) string {
	minutes := int(age.Minutes())
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	minutes = minutes % 60

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%d day%s, ", days, plural(days))
	}
	if hours > 0 {
		out += fmt.Sprintf("%d hour%s, ", hours, plural(hours))
	}
	out += fmt.Sprintf("%d minute%s", minutes, plural(minutes))
	return out
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
