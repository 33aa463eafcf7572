// Package printer renders CLI output: kubectl-style tables, JSON/YAML dumps
// and status messages.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// OutputType defines the output format.
type OutputType string

const (
	OutputTypeTable OutputType = "table"
	OutputTypeJSON  OutputType = "json"
	OutputTypeYAML  OutputType = "yaml"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("14")).
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// PrintTitle prints a bordered panel title, like the original tool's rich
// panels.
func PrintTitle(title string) {
	fmt.Println(titleStyle.Render(title))
}

// PrintJSON writes indented JSON to out.
func PrintJSON(out io.Writer, data any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML writes YAML to out.
func PrintYAML(out io.Writer, data any) error {
	enc := yaml.NewEncoder(out)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	_, _ = fmt.Fprintf(os.Stdout, "✓ %s\n", message)
}

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	_, _ = fmt.Fprintf(os.Stdout, "Warning: %s\n", message)
}

// PrintInfo prints a plain message.
func PrintInfo(message string) {
	_, _ = fmt.Fprintf(os.Stdout, "%s\n", message)
}

// FormatTimestampShort formats a timestamp for table cells.
func FormatTimestampShort(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatAge formats elapsed time as a kubectl-style age string.
func FormatAge(t time.Time) string {
	duration := time.Since(t)

	if days := int(duration.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if hours := int(duration.Hours()); hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	if minutes := int(duration.Minutes()); minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(duration.Seconds()))
}
