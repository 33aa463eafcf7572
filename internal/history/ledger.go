// Package history keeps a bounded, append-only ledger of past connection
// attempts in a JSON file. History is best-effort auditing: a failed write
// must never abort the connection that triggered it, and a corrupt ledger is
// treated as empty rather than blocking cache operations.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// ErrPersistence wraps filesystem failures while writing the ledger.
var ErrPersistence = errors.New("history persistence failed")

// Ledger reads and appends connection history entries.
type Ledger struct {
	path  string
	bound int
	now   func() time.Time
}

// NewLedger returns a ledger backed by the given file, retaining at most
// bound entries (oldest dropped first).
func NewLedger(path string, bound int) *Ledger {
	if bound <= 0 {
		bound = 10
	}
	return &Ledger{path: path, bound: bound, now: time.Now}
}

// load returns the persisted entries, most-recent-first. Unreadable or
// unparseable files yield an empty ledger.
func (l *Ledger) load() []models.HistoryEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Record appends an entry with the current timestamp, pruning the oldest
// entries beyond the retention bound. Writes go through a temp file and
// rename so concurrent invocations cannot interleave.
func (l *Ledger) Record(machine, host string, mode models.ConnectionMode, success bool) error {
	entries := l.load()

	entry := models.HistoryEntry{
		Machine:   machine,
		Host:      host,
		Timestamp: l.now(),
		Mode:      mode,
		Success:   success,
	}
	entries = append([]models.HistoryEntry{entry}, entries...)
	if len(entries) > l.bound {
		entries = entries[:l.bound]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".tmp-*")
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
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Recent returns up to limit entries, most-recent-first. limit <= 0 means
// all retained entries.
func (l *Ledger) Recent(limit int) []models.HistoryEntry {
	entries := l.load()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// RecentDistinctMachines returns machine names deduplicated to their most
// recent occurrence, most-recent-first. This backs the no-argument view.
func (l *Ledger) RecentDistinctMachines(limit int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range l.load() {
		if seen[e.Machine] {
			continue
		}
		seen[e.Machine] = true
		names = append(names, e.Machine)
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}
