package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRender(t *testing.T) {
	table := &Table{Headers: []string{"ID", "NAME"}}
	table.AddRow("amptk-1", "ci")
	table.AddRow("amptk-2", "deploy")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "amptk-1")
	assert.Contains(t, lines[2], "deploy")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, map[string]string{"name": "ci"}))
	assert.JSONEq(t, `{"name":"ci"}`, buf.String())
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON))
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatTable))
	assert.IsType(t, &TableFormatter{}, NewFormatter("bogus"))
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(nil))
	zero := time.Time{}
	assert.Equal(t, "-", FormatTime(&zero))
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-03-01 12:30", FormatTime(&ts))
}

func TestFormatScopes(t *testing.T) {
	assert.Equal(t, "-", FormatScopes(nil))
	assert.Equal(t, "read", FormatScopes([]string{"read"}))
	assert.Equal(t, "read,write", FormatScopes([]string{"read", "write"}))
}
