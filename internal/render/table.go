// Package render writes tabular results as aligned plain text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/ingest"
)

// Table writes a result as an aligned text table with a header rule and a
// trailing row count.
func Table(w io.Writer, result *datasource.Result) error {
	if result == nil || len(result.Columns) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = len(col)
	}

	for _, row := range result.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := writeRow(w, result.Columns, widths); err != nil {
		return err
	}

	rule := make([]string, len(result.Columns))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}

	if err := writeRow(w, rule, widths); err != nil {
		return err
	}

	for _, row := range result.Rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}

	noun := "rows"
	if len(result.Rows) == 1 {
		noun = "row"
	}

	_, err := fmt.Fprintf(w, "\n%d %s\n", len(result.Rows), noun)

	return err
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))

	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}

		padded[i] = cell + strings.Repeat(" ", width-len(cell))
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))

	return err
}

// Stats writes per-column summary statistics as an aligned table.
func Stats(w io.Writer, stats []ingest.ColumnStats) error {
	result := &datasource.Result{
		Columns: []string{"column", "non_null", "distinct", "min", "max", "mean"},
	}

	for _, col := range stats {
		minText, maxText, meanText := "-", "-", "-"
		if col.Numeric {
			minText = formatFloat(col.Min)
			maxText = formatFloat(col.Max)
			meanText = formatFloat(col.Mean)
		}

		result.Rows = append(result.Rows, []string{
			col.Name,
			strconv.Itoa(col.NonNull),
			strconv.Itoa(col.Distinct),
			minText,
			maxText,
			meanText,
		})
	}

	return Table(w, result)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
