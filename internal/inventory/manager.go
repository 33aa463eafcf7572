// Package inventory is the core surface consumed by the CLI: cached reads of
// the bastion inventory, search, connection history, and reconciliation of
// local edits back to the bastion.
package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PAPAMICA/wallix-ssh/internal/cache"
	"github.com/PAPAMICA/wallix-ssh/internal/history"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
	"github.com/PAPAMICA/wallix-ssh/internal/query"
)

var (
	// ErrInvalidUpdateRequest means the update request failed validation
	// before any side effect.
	ErrInvalidUpdateRequest = errors.New("invalid update request")
	// ErrMachineNotFound means the named machine is not in the inventory.
	ErrMachineNotFound = errors.New("machine not found")
	// ErrRemoteUpdateFailed means the bastion rejected or never received
	// the update; the local cache is untouched.
	ErrRemoteUpdateFailed = errors.New("remote update failed")
)

// DirectoryClient is the slice of the bastion API the manager depends on.
type DirectoryClient interface {
	FetchInventory() (models.Snapshot, error)
	// SubmitUpdate pushes a fully-merged device document to the bastion.
	SubmitUpdate(models.Machine) error
}

// Manager wires the cache store, history ledger and directory client
// together. One instance serves one command invocation; the loaded snapshot
// is never mutated in place.
type Manager struct {
	store  *cache.Store
	ledger *history.Ledger
	client DirectoryClient
	logger *slog.Logger
}

// NewManager builds the facade. All collaborators are explicit; there is no
// package-level state.
func NewManager(store *cache.Store, ledger *history.Ledger, client DirectoryClient, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, ledger: ledger, client: client, logger: logger}
}

// Snapshot returns a usable inventory snapshot: the cached one when fresh,
// otherwise a remote fetch followed by a cache rewrite. A corrupt cache
// degrades to a refetch; a failed fetch degrades to the stale cache when one
// exists.
func (m *Manager) Snapshot(force bool) (models.Snapshot, error) {
	snap, found, err := m.store.Load()
	if err != nil {
		m.logger.Warn("cache unreadable, refreshing", "error", err)
		found = false
	}
	if !m.store.IsStale(snap, found, force) {
		m.logger.Info("cache found", "age", cache.FormatAge(time.Since(snap.FetchedAt)))
		return snap, nil
	}

	fresh, fetchErr := m.client.FetchInventory()
	if fetchErr != nil {
		if found {
			m.logger.Warn("fetch failed, serving stale cache", "error", fetchErr)
			return snap, nil
		}
		return models.Snapshot{}, fetchErr
	}

	if err := m.store.Save(fresh); err != nil {
		// Recoverable: the caller still gets a fresh snapshot, the next
		// invocation just fetches again.
		m.logger.Warn("failed to persist cache", "error", err)
	}
	return fresh, nil
}

// ListMachines runs the query engine over a usable snapshot.
func (m *Manager) ListMachines(criteria models.FilterCriteria, force bool) ([]models.Machine, error) {
	snap, err := m.Snapshot(force)
	if err != nil {
		return nil, err
	}
	return query.Search(snap, criteria)
}

// RefreshResult reports what a forced refresh changed.
type RefreshResult struct {
	Snapshot models.Snapshot
	// Added lists machines that were not present in the previous cache.
	Added []models.Machine
}

// RefreshCache fetches the inventory unconditionally, rewrites the cache and
// reports machines that appeared since the previous snapshot.
func (m *Manager) RefreshCache() (RefreshResult, error) {
	old, found, err := m.store.Load()
	if err != nil {
		m.logger.Warn("previous cache unreadable", "error", err)
		found = false
	}

	fresh, err := m.client.FetchInventory()
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{Snapshot: fresh}
	if found {
		known := make(map[string]bool, len(old.Machines))
		for _, mach := range old.Machines {
			known[mach.Name] = true
		}
		for _, mach := range fresh.Machines {
			if !known[mach.Name] {
				result.Added = append(result.Added, mach)
			}
		}
	}

	if err := m.store.Save(fresh); err != nil {
		return result, err
	}
	return result, nil
}

// RecentHistory returns the most recent connection attempts.
func (m *Manager) RecentHistory(n int) []models.HistoryEntry {
	return m.ledger.Recent(n)
}

// RecentMachines returns distinct recently-connected machine names.
func (m *Manager) RecentMachines(n int) []string {
	return m.ledger.RecentDistinctMachines(n)
}

// ConnectionAttempted records a connection outcome. History is best-effort:
// a failed write is logged, never propagated, so it cannot abort a session.
func (m *Manager) ConnectionAttempted(machine, host string, mode models.ConnectionMode, success bool) {
	if err := m.ledger.Record(machine, host, mode, success); err != nil {
		m.logger.Warn("failed to record connection history", "error", err)
	}
}

// Find resolves a machine by exact name from a usable snapshot.
func (m *Manager) Find(name string, force bool) (models.Machine, error) {
	snap, err := m.Snapshot(force)
	if err != nil {
		return models.Machine{}, err
	}
	mach, ok := snap.Find(name)
	if !ok {
		return models.Machine{}, fmt.Errorf("%w: %q", ErrMachineNotFound, name)
	}
	return mach, nil
}
