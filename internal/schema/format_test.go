package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askdb/askdb/internal/datasource"
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

// customersSnapshot mirrors the schema used throughout the formatter tests:
// customers(id int not null, name varchar(50), city varchar(50)).
func customersSnapshot() Snapshot {
	return Snapshot{
		{
			Name: "customers",
			Columns: []datasource.ColumnInfo{
				{Name: "id", DataType: "int", Nullable: false},
				{Name: "name", DataType: "varchar", MaxLength: int64Ptr(50), Nullable: true},
				{Name: "city", DataType: "varchar", MaxLength: int64Ptr(50), Nullable: true},
			},
			SampleRows: []map[string]string{
				{"id": "1", "name": "Asha", "city": "Pune"},
				{"id": "2", "name": "Ben", "city": "NULL"},
			},
		},
	}
}

func TestFormatCustomersEndToEnd(t *testing.T) {
	out := Format(customersSnapshot())

	assert.Contains(t, out, "Table: customers")
	assert.Contains(t, out, "- id (int, NOT NULL)")
	assert.Contains(t, out, "- name (varchar(50))")
	assert.Contains(t, out, "Sample data:")
	assert.Equal(t, 2, strings.Count(out, "  Row "))
	assert.Contains(t, out, "Row 1: id=1, name=Asha, city=Pune")
	assert.Contains(t, out, "Row 2: id=2, name=Ben, city=NULL")
}

func TestFormatIsDeterministic(t *testing.T) {
	snapshot := customersSnapshot()

	first := Format(snapshot)
	second := Format(snapshot)

	assert.Equal(t, first, second)
}

func TestFormatEmptySnapshot(t *testing.T) {
	assert.Equal(t, EmptySnapshotText, Format(nil))
	assert.Equal(t, EmptySnapshotText, Format(Snapshot{}))
	assert.NotEmpty(t, Format(nil))
}

func TestFormatDefaultValue(t *testing.T) {
	snapshot := Snapshot{
		{
			Name: "orders",
			Columns: []datasource.ColumnInfo{
				{Name: "status", DataType: "varchar", MaxLength: int64Ptr(20), Nullable: false, Default: strPtr("'pending'")},
			},
		},
	}

	out := Format(snapshot)
	assert.Contains(t, out, "- status (varchar(20), NOT NULL, DEFAULT: 'pending')")
	assert.NotContains(t, out, "Sample data:")
}

func TestFormatGuidanceBlock(t *testing.T) {
	out := Format(customersSnapshot())

	assert.Contains(t, out, "NOTES:")
	assert.Contains(t, out, "LIMIT")
	assert.Contains(t, out, "JOIN")
	assert.Contains(t, out, "exactly as shown above")
}

func TestFormatMultipleTablesSeparated(t *testing.T) {
	snapshot := Snapshot{
		{Name: "a", Columns: []datasource.ColumnInfo{{Name: "x", DataType: "int"}}},
		{Name: "b", Columns: []datasource.ColumnInfo{{Name: "y", DataType: "int"}}},
	}

	out := Format(snapshot)

	assert.Contains(t, out, "\n\nTable: b")
	assert.Less(t, strings.Index(out, "Table: a"), strings.Index(out, "Table: b"))
}

func TestFormatRendersAllProvidedSampleRows(t *testing.T) {
	// Bounding the sample size is the builder's job; the formatter shows
	// whatever it was given, so a larger configured sample size takes effect.
	snapshot := Snapshot{
		{
			Name:    "t",
			Columns: []datasource.ColumnInfo{{Name: "id", DataType: "int"}},
			SampleRows: []map[string]string{
				{"id": "1"}, {"id": "2"}, {"id": "3"}, {"id": "4"}, {"id": "5"},
			},
		},
	}

	out := Format(snapshot)
	assert.Equal(t, 5, strings.Count(out, "  Row "))
	assert.Contains(t, out, "Row 5: id=5")
}

func TestFormatRelationships(t *testing.T) {
	snapshot := Snapshot{
		{
			Name:    "orders",
			Columns: []datasource.ColumnInfo{{Name: "id", DataType: "int"}},
			References: []datasource.Relationship{
				{SourceTable: "orders", SourceColumn: "customer_id", TargetTable: "customers", TargetColumn: "id"},
				{SourceTable: "orders", SourceColumn: "product_id", TargetTable: "products"},
			},
		},
	}

	out := Format(snapshot)
	assert.Contains(t, out, "Relationships:")
	assert.Contains(t, out, "  - customer_id references customers.id")
	// No target column reported (implicit primary key reference).
	assert.Contains(t, out, "  - product_id references products")
}

func TestFormatOmitsEmptyRelationships(t *testing.T) {
	out := Format(customersSnapshot())
	assert.NotContains(t, out, "Relationships:")
}
