package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

func newTestLedger(t *testing.T, bound int) *Ledger {
	t.Helper()
	l := NewLedger(filepath.Join(t.TempDir(), "history.json"), bound)
	// Deterministic, strictly increasing timestamps.
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := newTestLedger(t, 10)

	require.NoError(t, l.Record("web-1", "10.0.0.1", models.ModeStandard, true))
	require.NoError(t, l.Record("db-1", "10.0.0.9", models.ModeInteractive, false))

	entries := l.Recent(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "db-1", entries[0].Machine)
	assert.Equal(t, models.ModeInteractive, entries[0].Mode)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "web-1", entries[1].Machine)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
}

func TestRecordEnforcesRetentionBound(t *testing.T) {
	const bound = 10
	l := newTestLedger(t, bound)

	for i := 0; i < bound+5; i++ {
		require.NoError(t, l.Record(fmt.Sprintf("m-%02d", i), "", models.ModeStandard, true))
	}

	entries := l.Recent(0)
	require.Len(t, entries, bound)
	// The bound most recent survive: m-14 down to m-05.
	assert.Equal(t, "m-14", entries[0].Machine)
	assert.Equal(t, "m-05", entries[bound-1].Machine)
}

func TestRecentLimit(t *testing.T) {
	l := newTestLedger(t, 10)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(fmt.Sprintf("m-%d", i), "", models.ModeStandard, true))
	}

	assert.Len(t, l.Recent(3), 3)
	assert.Len(t, l.Recent(0), 5)
}

func TestRecentDistinctMachines(t *testing.T) {
	l := newTestLedger(t, 10)
	for _, name := range []string{"web-1", "db-1", "web-1", "app-1", "db-1"} {
		require.NoError(t, l.Record(name, "", models.ModeStandard, true))
	}

	// Most recent occurrence wins, most-recent-first.
	assert.Equal(t, []string{"db-1", "app-1", "web-1"}, l.RecentDistinctMachines(0))
	assert.Equal(t, []string{"db-1", "app-1"}, l.RecentDistinctMachines(2))
}

func TestCorruptLedgerTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	l := NewLedger(path, 10)
	assert.Empty(t, l.Recent(0))

	// Recording over a corrupt ledger starts fresh instead of failing.
	require.NoError(t, l.Record("web-1", "", models.ModeStandard, true))
	assert.Len(t, l.Recent(0), 1)
}
