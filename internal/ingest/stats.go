package ingest

import (
	"strconv"

	"github.com/askdb/askdb/internal/datasource"
)

// ColumnStats summarizes one column of a parsed file. Min, Max and Mean are
// populated only when every non-null value parses as a number.
type ColumnStats struct {
	Name     string
	NonNull  int
	Distinct int
	Numeric  bool
	Min      float64
	Max      float64
	Mean     float64
}

// Summarize computes per-column statistics for a parsed result. The "NULL"
// sentinel produced by the parsers is treated as a missing value.
func Summarize(result *datasource.Result) []ColumnStats {
	stats := make([]ColumnStats, len(result.Columns))

	for i, name := range result.Columns {
		col := ColumnStats{Name: name, Numeric: true}
		seen := make(map[string]bool)
		sum := 0.0

		for _, row := range result.Rows {
			if i >= len(row) || row[i] == "NULL" {
				continue
			}

			value := row[i]
			col.NonNull++
			seen[value] = true

			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				col.Numeric = false
				continue
			}

			if !col.Numeric {
				continue
			}

			if col.NonNull == 1 || parsed < col.Min {
				col.Min = parsed
			}

			if col.NonNull == 1 || parsed > col.Max {
				col.Max = parsed
			}

			sum += parsed
		}

		col.Distinct = len(seen)

		if col.NonNull == 0 {
			col.Numeric = false
		}

		if col.Numeric {
			col.Mean = sum / float64(col.NonNull)
		} else {
			col.Min, col.Max, col.Mean = 0, 0, 0
		}

		stats[i] = col
	}

	return stats
}
