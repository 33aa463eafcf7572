package inventory

import (
	"fmt"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// UpdateState is the terminal state of an update attempt.
type UpdateState string

const (
	// Rejected: validation or the remote call failed; no local state
	// changed.
	Rejected UpdateState = "rejected"
	// CacheSynced: the bastion accepted the update and the local cache
	// reflects it.
	CacheSynced UpdateState = "cache-synced"
	// CacheSyncFailed: the bastion accepted the update but persisting the
	// cache failed. The divergence is bounded: the next staleness check or
	// forced refresh reconciles it.
	CacheSyncFailed UpdateState = "cache-sync-failed"
)

// UpdateOutcome reports how an update ended. Warning carries the persistence
// failure on CacheSyncFailed; it is nil otherwise.
type UpdateOutcome struct {
	State   UpdateState
	Machine models.Machine
	Warning error
}

// ApplyUpdate validates the request, pushes the change to the bastion, then
// syncs the local cache. The order is fixed: the cache is never written
// before the bastion confirms, so a failure at any step leaves local and
// remote state consistent with each other.
func (m *Manager) ApplyUpdate(req models.UpdateRequest) (UpdateOutcome, error) {
	if err := req.Validate(); err != nil {
		return UpdateOutcome{State: Rejected}, fmt.Errorf("%w: %v", ErrInvalidUpdateRequest, err)
	}

	snap, err := m.Snapshot(false)
	if err != nil {
		return UpdateOutcome{State: Rejected}, err
	}
	current, ok := snap.Find(req.Machine)
	if !ok {
		return UpdateOutcome{State: Rejected}, fmt.Errorf("%w: %q", ErrMachineNotFound, req.Machine)
	}

	// Merge: unset fields keep their current value, the bastion API wants
	// the complete document.
	updated := current
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Tags != nil {
		updated.Tags = req.Tags
	}

	if err := m.client.SubmitUpdate(updated); err != nil {
		return UpdateOutcome{State: Rejected}, fmt.Errorf("%w: %v", ErrRemoteUpdateFailed, err)
	}

	if err := m.store.Save(snap.WithMachine(updated)); err != nil {
		m.logger.Warn("update applied remotely but cache sync failed", "machine", req.Machine, "error", err)
		return UpdateOutcome{State: CacheSyncFailed, Machine: updated, Warning: err}, nil
	}
	return UpdateOutcome{State: CacheSynced, Machine: updated}, nil
}
