// Package schema builds, formats, and caches point-in-time descriptions of a
// live database schema for inclusion in generation prompts.
package schema

import (
	"context"

	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/logging"
)

// DefaultSampleRows is the bounded sample size fetched per table.
const DefaultSampleRows = 3

// Table describes one table: ordered column metadata, a small sample of rows
// rendered as display text, and the foreign key edges leaving it.
type Table struct {
	Name       string
	Columns    []datasource.ColumnInfo
	SampleRows []map[string]string
	References []datasource.Relationship
}

// Snapshot is a point-in-time structural description of the database,
// ordered by table name. It is rebuilt whole; never patched.
type Snapshot []Table

// Builder assembles snapshots from a data source's catalog surface.
type Builder struct {
	src        datasource.Source
	sampleRows int
}

// NewBuilder creates a snapshot builder. sampleRows <= 0 falls back to
// DefaultSampleRows.
func NewBuilder(src datasource.Source, sampleRows int) *Builder {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	return &Builder{src: src, sampleRows: sampleRows}
}

// Build assembles a fresh snapshot from the live data source.
//
// Per-table failures are tolerated: a table whose metadata or sample fetch
// fails is skipped and the rest of the build continues, because an
// approximately-complete schema is more useful than none. Only a failure to
// enumerate tables at all is returned as an error.
func (b *Builder) Build(ctx context.Context) (Snapshot, error) {
	names, err := b.src.TableNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeSchema, "failed to enumerate tables")
	}

	references := make(map[string][]datasource.Relationship)

	rels, err := b.src.Relationships(ctx)
	if err != nil {
		// Relationships enrich the prompt but are not required for it.
		logging.Warnf("failed to get table relationships: %v", err)
	}

	for _, rel := range rels {
		references[rel.SourceTable] = append(references[rel.SourceTable], rel)
	}

	snapshot := make(Snapshot, 0, len(names))

	for _, name := range names {
		columns, err := b.src.TableColumns(ctx, name)
		if err != nil {
			logging.Warnf("skipping table %s: %v", name, err)
			continue
		}

		if len(columns) == 0 {
			logging.Debugf("skipping table %s: no columns reported", name)
			continue
		}

		samples, err := b.src.SampleRows(ctx, name, b.sampleRows)
		if err != nil {
			// Metadata alone is still worth showing.
			logging.Warnf("no sample rows for table %s: %v", name, err)

			samples = nil
		}

		snapshot = append(snapshot, Table{
			Name:       name,
			Columns:    columns,
			SampleRows: samples,
			References: references[name],
		})
	}

	logging.Debugf("built schema snapshot with %d tables", len(snapshot))

	return snapshot, nil
}
