package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/ingest"
)

func TestTableAlignsColumns(t *testing.T) {
	result := &datasource.Result{
		Columns: []string{"id", "name"},
		Rows: [][]string{
			{"1", "Alice"},
			{"20", "Bob"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "id  name", lines[0])
	assert.Equal(t, "--  -----", lines[1])
	assert.Equal(t, "1   Alice", lines[2])
	assert.Equal(t, "20  Bob", lines[3])
	assert.Equal(t, "2 rows", lines[5])
}

func TestTableSingularRowCount(t *testing.T) {
	result := &datasource.Result{
		Columns: []string{"n"},
		Rows:    [][]string{{"1"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, result))
	assert.Contains(t, buf.String(), "1 row\n")
	assert.NotContains(t, buf.String(), "1 rows")
}

func TestTableEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, nil))
	assert.Equal(t, "(no results)\n", buf.String())
}

func TestTableWideValueSetsWidth(t *testing.T) {
	result := &datasource.Result{
		Columns: []string{"c"},
		Rows:    [][]string{{"a long value"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, result))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "c", lines[0])
	assert.Equal(t, strings.Repeat("-", len("a long value")), lines[1])
}

func TestStats(t *testing.T) {
	stats := []ingest.ColumnStats{
		{Name: "amount", NonNull: 3, Distinct: 3, Numeric: true, Min: 10, Max: 30, Mean: 20},
		{Name: "name", NonNull: 3, Distinct: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Stats(&buf, stats))

	out := buf.String()
	assert.Contains(t, out, "column")
	assert.Contains(t, out, "amount")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "30")
	assert.Contains(t, out, "20")

	// Non-numeric columns render dashes for the numeric fields.
	nameLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "name") {
			nameLine = line
		}
	}

	require.NotEmpty(t, nameLine)
	assert.Contains(t, nameLine, "-")
}
