package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/truncate"
)

// TablePrinter renders aligned tables through tabwriter.
type TablePrinter struct {
	writer    *tabwriter.Writer
	headers   []string
	rows      [][]string
	noHeaders bool
}

// Option configures the TablePrinter.
type Option func(*TablePrinter)

// WithNoHeaders disables header output.
func WithNoHeaders() Option {
	return func(p *TablePrinter) {
		p.noHeaders = true
	}
}

// NewTablePrinter creates a table printer with kubectl-style formatting.
func NewTablePrinter(out io.Writer, opts ...Option) *TablePrinter {
	if out == nil {
		out = os.Stdout
	}
	p := &TablePrinter{
		writer: tabwriter.NewWriter(out, 0, 0, 3, ' ', 0),
		rows:   make([][]string, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetHeaders sets the table headers.
func (p *TablePrinter) SetHeaders(headers ...string) {
	p.headers = headers
}

// AddRow adds a data row to the table.
func (p *TablePrinter) AddRow(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprintf("%v", v)
	}
	p.rows = append(p.rows, row)
}

// Render outputs the formatted table.
func (p *TablePrinter) Render() error {
	if len(p.rows) == 0 && len(p.headers) == 0 {
		return nil
	}
	if !p.noHeaders && len(p.headers) > 0 {
		_, _ = fmt.Fprintln(p.writer, strings.ToUpper(strings.Join(p.headers, "\t")))
	}
	for _, row := range p.rows {
		_, _ = fmt.Fprintln(p.writer, strings.Join(row, "\t"))
	}
	return p.writer.Flush()
}

// Truncate shortens a cell value to width runes with an ellipsis.
func Truncate(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "…")
}

// EmptyValueOrDefault returns the value or a placeholder when empty.
func EmptyValueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
