package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL/MariaDB driver
	_ "github.com/lib/pq"               // PostgreSQL driver
	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	_ "modernc.org/sqlite"              // Pure Go SQLite driver

	"github.com/askdb/askdb/internal/errors"
)

// Dialect identifies the SQL dialect of a connected database.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
	DialectDuckDB   Dialect = "duckdb"
)

// driverName maps a dialect to the registered database/sql driver name.
func driverName(d Dialect) (string, error) {
	switch d {
	case DialectMySQL:
		return "mysql", nil
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	case DialectDuckDB:
		return "duckdb", nil
	default:
		return "", errors.Newf(errors.ErrTypeConfig, "unsupported database driver: %s", d)
	}
}

// SQLSource implements Source over a database/sql connection.
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to a database and verifies the connection.
func Open(dialect Dialect, dsn string, maxOpen, maxIdle int) (*SQLSource, error) {
	name, err := driverName(dialect)
	if err != nil {
		return nil, err
	}

	if dsn == "" {
		return nil, errors.New(errors.ErrTypeConfig, "database DSN is required").
			WithSuggestion("set ASKDB_DB_DSN")
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to open database")
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to ping database")
	}

	return &SQLSource{db: db, dialect: dialect}, nil
}

// NewSQLSource wraps an existing connection. Used by tests and callers that
// manage the pool themselves.
func NewSQLSource(db *sql.DB, dialect Dialect) *SQLSource {
	return &SQLSource{db: db, dialect: dialect}
}

// Close closes the underlying connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is alive.
func (s *SQLSource) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrTypeDatabase, "database connection failed")
	}

	return nil
}

// Dialect returns the dialect this source was opened with.
func (s *SQLSource) Dialect() Dialect {
	return s.dialect
}

// TableNames lists tables visible to the connected credential, ordered by name.
func (s *SQLSource) TableNames(ctx context.Context) ([]string, error) {
	var query string

	switch s.dialect {
	case DialectMySQL:
		query = `SELECT table_name FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	case DialectPostgres:
		query = `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	case DialectDuckDB:
		query = `SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'main' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	case DialectSQLite:
		query = `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	default:
		return nil, errors.Newf(errors.ErrTypeConfig, "unsupported dialect: %s", s.dialect)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to enumerate tables")
	}
	defer rows.Close()

	var tables []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan table name")
		}

		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to enumerate tables")
	}

	return tables, nil
}

// TableColumns returns ordered column metadata for a named table.
func (s *SQLSource) TableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	if s.dialect == DialectSQLite {
		return s.sqliteColumns(ctx, table)
	}

	return s.infoSchemaColumns(ctx, table)
}

// infoSchemaColumns reads column metadata from information_schema, which
// MySQL, PostgreSQL, and DuckDB all expose with the same shape.
func (s *SQLSource) infoSchemaColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := `SELECT column_name, data_type, is_nullable, column_default, character_maximum_length
		FROM information_schema.columns
		WHERE table_name = ` + s.placeholder(1) + s.schemaFilter() + `
		ORDER BY ordinal_position`

	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get columns for table %s", table)
	}
	defer rows.Close()

	var columns []ColumnInfo

	for rows.Next() {
		var (
			col        ColumnInfo
			nullable   string
			defaultVal sql.NullString
			maxLength  sql.NullInt64
		)

		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &defaultVal, &maxLength); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan column metadata")
		}

		col.Nullable = strings.EqualFold(nullable, "YES")
		if defaultVal.Valid {
			col.Default = &defaultVal.String
		}

		if maxLength.Valid {
			col.MaxLength = &maxLength.Int64
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get columns for table %s", table)
	}

	return columns, nil
}

// sqliteColumns reads column metadata via PRAGMA table_info, SQLite's
// catalog surface.
func (s *SQLSource) sqliteColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", s.quoteIdent(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get columns for table %s", table)
	}
	defer rows.Close()

	var columns []ColumnInfo

	for rows.Next() {
		var (
			cid        int
			col        ColumnInfo
			notNull    int
			defaultVal sql.NullString
			pk         int
		)

		if err := rows.Scan(&cid, &col.Name, &col.DataType, &notNull, &defaultVal, &pk); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan column metadata")
		}

		col.Nullable = notNull == 0
		if defaultVal.Valid {
			col.Default = &defaultVal.String
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get columns for table %s", table)
	}

	return columns, nil
}

// SampleRows fetches up to limit rows with no filter.
func (s *SQLSource) SampleRows(ctx context.Context, table string, limit int) ([]map[string]string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", s.quoteIdent(table), limit)

	result, err := s.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	samples := make([]map[string]string, 0, len(result.Rows))

	for _, row := range result.Rows {
		sample := make(map[string]string, len(result.Columns))
		for i, col := range result.Columns {
			sample[col] = row[i]
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// Relationships returns the database's foreign key edges. MySQL exposes them
// directly on key_column_usage; PostgreSQL and DuckDB need the constraint
// catalog join; SQLite reports them per table via PRAGMA foreign_key_list.
func (s *SQLSource) Relationships(ctx context.Context) ([]Relationship, error) {
	if s.dialect == DialectSQLite {
		return s.sqliteRelationships(ctx)
	}

	var query string

	switch s.dialect {
	case DialectMySQL:
		query = `SELECT table_name, column_name, referenced_table_name, referenced_column_name
			FROM information_schema.key_column_usage
			WHERE referenced_table_name IS NOT NULL AND table_schema = DATABASE()
			ORDER BY table_name, column_name`
	case DialectPostgres, DialectDuckDB:
		query = `SELECT tc.table_name, kcu.column_name, ccu.table_name, ccu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
			JOIN information_schema.constraint_column_usage ccu
				ON ccu.constraint_name = tc.constraint_name
			WHERE tc.constraint_type = 'FOREIGN KEY'` + s.constraintSchemaFilter() + `
			ORDER BY tc.table_name, kcu.column_name`
	default:
		return nil, errors.Newf(errors.ErrTypeConfig, "unsupported dialect: %s", s.dialect)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to get table relationships")
	}
	defer rows.Close()

	var rels []Relationship

	for rows.Next() {
		var rel Relationship
		if err := rows.Scan(&rel.SourceTable, &rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan relationship")
		}

		rels = append(rels, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to get table relationships")
	}

	return rels, nil
}

// sqliteRelationships walks every table's PRAGMA foreign_key_list.
func (s *SQLSource) sqliteRelationships(ctx context.Context) ([]Relationship, error) {
	tables, err := s.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	var rels []Relationship

	for _, table := range tables {
		query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", s.quoteIdent(table))

		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get foreign keys for table %s", table)
		}

		for rows.Next() {
			var (
				id, seq            int
				target, from       string
				to                 sql.NullString
				onUpdate, onDelete string
				match              string
			)

			if err := rows.Scan(&id, &seq, &target, &from, &to, &onUpdate, &onDelete, &match); err != nil {
				rows.Close()
				return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan foreign key")
			}

			rel := Relationship{
				SourceTable:  table,
				SourceColumn: from,
				TargetTable:  target,
			}

			// A NULL target column means the FK references the primary key.
			if to.Valid {
				rel.TargetColumn = to.String
			}

			rels = append(rels, rel)
		}

		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to get foreign keys for table %s", table)
		}

		rows.Close()
	}

	return rels, nil
}

// Query executes an arbitrary statement and renders the result set as text.
func (s *SQLSource) Query(ctx context.Context, query string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "query execution failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to read result columns")
	}

	result := &Result{Columns: columns}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan result row")
		}

		row := make([]string, len(columns))
		for i := range values {
			row[i] = renderValue(values[i])
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "query execution failed")
	}

	return result, nil
}

// renderValue converts a scanned value to display text. NULL renders as
// "NULL" everywhere so formatted output is consistent.
func renderValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// quoteIdent quotes a table identifier for the active dialect.
func (s *SQLSource) quoteIdent(name string) string {
	if s.dialect == DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}

	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// placeholder returns the positional parameter marker for the active dialect.
func (s *SQLSource) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}

	return "?"
}

// constraintSchemaFilter narrows constraint catalog lookups to the active schema.
func (s *SQLSource) constraintSchemaFilter() string {
	switch s.dialect {
	case DialectPostgres:
		return " AND tc.table_schema = 'public'"
	case DialectDuckDB:
		return " AND tc.table_schema = 'main'"
	default:
		return ""
	}
}

// schemaFilter narrows information_schema lookups to the active schema.
func (s *SQLSource) schemaFilter() string {
	switch s.dialect {
	case DialectMySQL:
		return " AND table_schema = DATABASE()"
	case DialectPostgres:
		return " AND table_schema = 'public'"
	case DialectDuckDB:
		return " AND table_schema = 'main'"
	default:
		return ""
	}
}
