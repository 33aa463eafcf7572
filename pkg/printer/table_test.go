package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

func TestMachineTable(t *testing.T) {
	machines := []models.Machine{
		{
			Name:        "web-1",
			Host:        "10.0.0.1",
			Services:    []string{models.ServiceSSH},
			Tags:        map[string]string{"env": "prod"},
			Description: "front web",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, MachineTable(&buf, machines, false))
	out := buf.String()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "env:prod")
	assert.Contains(t, out, "front web")

	buf.Reset()
	require.NoError(t, MachineTable(&buf, machines, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1"))
}

func TestHistoryTable(t *testing.T) {
	entries := []models.HistoryEntry{
		{Machine: "web-1", Host: "10.0.0.1", Timestamp: time.Now(), Mode: models.ModeStandard, Success: true},
		{Machine: "db-1", Timestamp: time.Now(), Mode: models.ModeInteractive, Success: false},
	}

	var buf bytes.Buffer
	require.NoError(t, HistoryTable(&buf, entries))
	out := buf.String()

	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "interactive")
	// Missing host renders a placeholder.
	assert.Contains(t, out, "-")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	long := strings.Repeat("x", 60)
	assert.Less(t, len([]rune(Truncate(long, 10))), 12)
}

func TestServiceIcon(t *testing.T) {
	assert.Equal(t, "🪟 ", ServiceIcon([]string{"SSH", "RDP"}))
	assert.Equal(t, "🐧 ", ServiceIcon([]string{"ssh"}))
	assert.Empty(t, ServiceIcon(nil))
}

func TestEmptyValueOrDefault(t *testing.T) {
	assert.Equal(t, "<none>", EmptyValueOrDefault("", "<none>"))
	assert.Equal(t, "x", EmptyValueOrDefault("x", "<none>"))
}
