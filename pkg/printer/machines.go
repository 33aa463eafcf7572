package printer

import (
	"io"
	"strconv"
	"strings"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

const descriptionWidth = 48

// ServiceIcon returns the platform icon shown next to a machine name.
func ServiceIcon(services []string) string {
	for _, s := range services {
		if strings.EqualFold(s, models.ServiceRDP) {
			return "🪟 "
		}
	}
	for _, s := range services {
		if strings.EqualFold(s, models.ServiceSSH) {
			return "🐧 "
		}
	}
	return ""
}

// MachineTable renders the machine list. With numbered set, rows get a
// 1-based index column so the user can pick one to connect to.
func MachineTable(out io.Writer, machines []models.Machine, numbered bool) error {
	t := NewTablePrinter(out)
	if numbered {
		t.SetHeaders("#", "Name", "Host", "Services", "Tags", "Description")
	} else {
		t.SetHeaders("Name", "Host", "Services", "Tags", "Description")
	}
	for i, m := range machines {
		row := []any{
			ServiceIcon(m.Services) + m.Name,
			m.Host,
			strings.Join(m.Services, ", "),
			strings.Join(m.TagList(), ", "),
			Truncate(m.Description, descriptionWidth),
		}
		if numbered {
			row = append([]any{strconv.Itoa(i + 1)}, row...)
		}
		t.AddRow(row...)
	}
	return t.Render()
}

// HistoryTable renders recent connection attempts, most recent first.
func HistoryTable(out io.Writer, entries []models.HistoryEntry) error {
	t := NewTablePrinter(out)
	t.SetHeaders("#", "Name", "Host", "Mode", "Result", "Last connection")
	for i, e := range entries {
		result := "ok"
		if !e.Success {
			result = "failed"
		}
		t.AddRow(
			strconv.Itoa(i+1),
			e.Machine,
			EmptyValueOrDefault(e.Host, "-"),
			string(e.Mode),
			result,
			FormatTimestampShort(e.Timestamp),
		)
	}
	return t.Render()
}
