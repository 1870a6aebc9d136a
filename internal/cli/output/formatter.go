// Package output provides output formatting for ampauth-cli.
package output

import "io"

// Format selects how command output is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter renders a value to a writer.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for the named format. Unknown
// formats fall back to table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
