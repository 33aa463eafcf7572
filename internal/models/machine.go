package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SnapshotVersion is the on-disk schema marker for cached snapshots. Bump it
// when the cache format changes so stale formats are rejected on load.
const SnapshotVersion = 1

// Service names as the bastion reports them.
const (
	ServiceSSH = "SSH"
	ServiceRDP = "RDP"
)

// Target is one host/account pair a machine can be reached through.
type Target struct {
	Host    string `json:"host"`
	Account string `json:"account,omitempty"`
}

// Machine is a single bastion-managed device. Name is the unique,
// case-sensitive key within a snapshot.
type Machine struct {
	Name               string            `json:"name"`
	Host               string            `json:"host"`
	Services           []string          `json:"services"`
	Tags               map[string]string `json:"tags,omitempty"`
	Description        string            `json:"description,omitempty"`
	Targets            []Target          `json:"targets,omitempty"`
	InteractiveAccount bool              `json:"interactive_account,omitempty"`
}

// HasService reports whether the machine exposes the named service,
// case-insensitively.
func (m Machine) HasService(service string) bool {
	for _, s := range m.Services {
		if strings.EqualFold(s, service) {
			return true
		}
	}
	return false
}

// TagList renders the tag map as sorted "key:value" strings for display.
func (m Machine) TagList() []string {
	out := make([]string, 0, len(m.Tags))
	for k, v := range m.Tags {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}

// Snapshot is an immutable, timestamped copy of the bastion inventory. It is
// owned by the cache store and must not be mutated after load; reconciliation
// builds a new snapshot instead.
type Snapshot struct {
	Version   int       `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
	Machines  []Machine `json:"machines"`
}

// Age returns how long ago the snapshot was fetched.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Find returns the machine with the given name, or false when absent.
func (s Snapshot) Find(name string) (Machine, bool) {
	for _, m := range s.Machines {
		if m.Name == name {
			return m, true
		}
	}
	return Machine{}, false
}

// WithMachine returns a copy of the snapshot with the named machine replaced.
// The receiver is left untouched.
func (s Snapshot) WithMachine(updated Machine) Snapshot {
	out := s
	out.Machines = make([]Machine, len(s.Machines))
	copy(out.Machines, s.Machines)
	for i, m := range out.Machines {
		if m.Name == updated.Name {
			out.Machines[i] = updated
			break
		}
	}
	return out
}

// ConnectionMode distinguishes which bastion account a session used.
type ConnectionMode string

const (
	ModeStandard    ConnectionMode = "standard"
	ModeInteractive ConnectionMode = "interactive"
)

// HistoryEntry records one connection attempt. Entries are append-only.
type HistoryEntry struct {
	Machine   string         `json:"machine"`
	Host      string         `json:"host,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Mode      ConnectionMode `json:"mode"`
	Success   bool           `json:"success"`
}

// FilterCriteria is the value object driving a search. The zero value
// matches every machine.
type FilterCriteria struct {
	// Term is a free-text term matched (case-insensitively) against name,
	// host and description, with fuzzy fallback on the name.
	Term string
	// Pattern is an optional regular expression matched against name, host
	// and description.
	Pattern string
	// Services, when non-empty, keeps machines exposing at least one of the
	// listed services.
	Services []string
	// Tags, when non-empty, requires every key to be present with the exact
	// value.
	Tags map[string]string
}

// IsZero reports whether the criteria impose no constraint at all.
func (c FilterCriteria) IsZero() bool {
	return c.Term == "" && c.Pattern == "" && len(c.Services) == 0 && len(c.Tags) == 0
}

// UpdateRequest is a local edit to push back to the bastion. Nil fields are
// left unchanged on the remote side.
type UpdateRequest struct {
	Machine     string
	Description *string
	Tags        map[string]string
}

// Validate checks the request shape before any network action.
func (r UpdateRequest) Validate() error {
	if strings.TrimSpace(r.Machine) == "" {
		return fmt.Errorf("machine name is required")
	}
	if r.Description == nil && r.Tags == nil {
		return fmt.Errorf("at least one of description or tags must be set")
	}
	for k := range r.Tags {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("tag keys must be non-empty")
		}
	}
	return nil
}
