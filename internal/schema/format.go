package schema

import (
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/datasource"
)

const (
	// EmptySnapshotText is returned when the snapshot has no tables, so
	// prompt construction always has non-empty schema context.
	EmptySnapshotText = "No schema information available"

	// UnavailableText is returned by the cache when a build fails.
	UnavailableText = "Schema information unavailable"
)

// usageNotes is the fixed guidance block appended after all tables. It is
// prompt boilerplate, not data.
const usageNotes = `
NOTES:
- Use table and column names exactly as shown above
- Add appropriate WHERE clauses to filter data
- Use LIMIT to restrict result set size
- Use explicit JOINs when querying related tables`

// Format renders a snapshot into the deterministic, token-efficient text
// form embedded in generation prompts. It is a pure function of its input:
// the same snapshot always produces the same text.
func Format(snapshot Snapshot) string {
	if len(snapshot) == 0 {
		return EmptySnapshotText
	}

	var sb strings.Builder

	sb.WriteString("DATABASE SCHEMA INFORMATION:\n")

	for _, table := range snapshot {
		sb.WriteString("\nTable: ")
		sb.WriteString(table.Name)
		sb.WriteString("\nColumns:\n")

		for _, col := range table.Columns {
			sb.WriteString("  - ")
			sb.WriteString(col.Name)
			sb.WriteString(" (")
			sb.WriteString(col.DataType)

			if col.MaxLength != nil {
				fmt.Fprintf(&sb, "(%d)", *col.MaxLength)
			}

			if !col.Nullable {
				sb.WriteString(", NOT NULL")
			}

			if col.Default != nil {
				sb.WriteString(", DEFAULT: ")
				sb.WriteString(*col.Default)
			}

			sb.WriteString(")\n")
		}

		if len(table.SampleRows) > 0 {
			sb.WriteString("Sample data:\n")

			// The builder bounds the sample size; every row it kept is shown.
			for i, row := range table.SampleRows {
				fmt.Fprintf(&sb, "  Row %d: %s\n", i+1, formatRow(table.Columns, row))
			}
		}

		if len(table.References) > 0 {
			sb.WriteString("Relationships:\n")

			for _, rel := range table.References {
				target := rel.TargetTable
				if rel.TargetColumn != "" {
					target += "." + rel.TargetColumn
				}

				fmt.Fprintf(&sb, "  - %s references %s\n", rel.SourceColumn, target)
			}
		}
	}

	sb.WriteString(usageNotes)

	return sb.String()
}

// formatRow renders one sample row in column declaration order, which keeps
// the output deterministic regardless of map iteration order.
func formatRow(columns []datasource.ColumnInfo, row map[string]string) string {
	parts := make([]string, 0, len(columns))

	for _, col := range columns {
		value, ok := row[col.Name]
		if !ok {
			continue
		}

		parts = append(parts, col.Name+"="+value)
	}

	return strings.Join(parts, ", ")
}
