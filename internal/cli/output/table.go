package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Table holds tabular data ready for rendering.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table as aligned columns.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(t.Headers) > 0 {
		for i, h := range t.Headers {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, h)
		}
		fmt.Fprintln(tw)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// TableFormatter renders values as ASCII tables. Values that are not
// already a *Table are rendered as a key-value listing via JSON-ish
// fallback in the JSON formatter; commands build tables explicitly.
type TableFormatter struct{}

// Format writes data as a table when it is one, otherwise falls back
// to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if t, ok := data.(*Table); ok {
		return t.Render(w)
	}
	return (&JSONFormatter{}).Format(w, data)
}

// FormatTime renders a timestamp for table cells; zero or nil times
// render as a dash.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatScopes renders a scope list for a table cell.
func FormatScopes(scopes []string) string {
	if len(scopes) == 0 {
		return "-"
	}
	out := scopes[0]
	for _, s := range scopes[1:] {
		out += "," + s
	}
	return out
}
