// Package datasource provides read access to relational databases: catalog
// introspection for the schema builder and plain query execution for the ask
// pipeline.
package datasource

import "context"

// ColumnInfo describes one column as reported by the catalog, in the table's
// ordinal position order.
type ColumnInfo struct {
	Name      string
	DataType  string
	MaxLength *int64
	Nullable  bool
	Default   *string
}

// Relationship describes one foreign key edge: a source column referencing a
// target column in another table.
type Relationship struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// Result is the tabular output of an executed query. All values are already
// rendered as display text; NULL is rendered as "NULL".
type Result struct {
	Columns []string
	Rows    [][]string
}

// Source is the read surface the schema snapshot builder and the query
// executor consume. Implementations must not write to the database.
type Source interface {
	// TableNames lists the tables visible to the connected credential,
	// ordered by name.
	TableNames(ctx context.Context) ([]string, error)

	// TableColumns returns ordered column metadata for a named table.
	TableColumns(ctx context.Context, table string) ([]ColumnInfo, error)

	// SampleRows fetches up to limit rows from a table with no filter,
	// rendered as column name -> display text.
	SampleRows(ctx context.Context, table string, limit int) ([]map[string]string, error)

	// Relationships returns all foreign key edges visible to the connected
	// credential, ordered by source table then source column.
	Relationships(ctx context.Context) ([]Relationship, error)

	// Query executes an arbitrary statement and returns its result set.
	Query(ctx context.Context, query string) (*Result, error)
}
