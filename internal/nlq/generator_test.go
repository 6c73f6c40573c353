package nlq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	askerrors "github.com/askdb/askdb/internal/errors"
)

// spyGenerator records prompts and returns a canned response or error.
type spyGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *spyGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt

	if s.err != nil {
		return "", s.err
	}

	return s.response, nil
}

func TestGenerateSQLUnconfigured(t *testing.T) {
	gen := NewGenerator(nil, "MySQL/MariaDB", 100)

	// A cancelled context proves the config check fires before any
	// capability interaction would happen.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.GenerateSQL(ctx, "list customers", "schema")
	require.Error(t, err)
	assert.True(t, askerrors.IsType(err, askerrors.ErrTypeConfig))
}

func TestGenerateSQLWrapsCapabilityFailure(t *testing.T) {
	spy := &spyGenerator{err: errors.New("request timeout")}
	gen := NewGenerator(spy, "PostgreSQL", 100)

	_, err := gen.GenerateSQL(context.Background(), "list customers", "schema")
	require.Error(t, err)
	assert.True(t, askerrors.IsType(err, askerrors.ErrTypeGeneration))
	assert.Contains(t, err.Error(), "request timeout")
	assert.Equal(t, 1, spy.calls)
}

func TestGenerateSQLPromptContract(t *testing.T) {
	spy := &spyGenerator{response: "SELECT 1"}
	gen := NewGenerator(spy, "PostgreSQL", 100)

	schemaText := "Table: customers\nColumns:\n  - id (int, NOT NULL)"
	_, err := gen.GenerateSQL(context.Background(), "customers who ordered exactly once", schemaText)
	require.NoError(t, err)

	prompt := spy.lastPrompt
	assert.Contains(t, prompt, "PostgreSQL")
	assert.Contains(t, prompt, schemaText)
	assert.Contains(t, prompt, "customers who ordered exactly once")
	assert.Contains(t, prompt, "LIMIT 100")
	assert.Contains(t, prompt, "INNER JOIN")
	assert.Contains(t, prompt, "HAVING COUNT(*) = 1")
	assert.Contains(t, prompt, "c.* or customers.*")
	assert.Contains(t, prompt, "no markdown formatting")
}

func TestGenerateSQLCustomLimit(t *testing.T) {
	spy := &spyGenerator{response: "SELECT 1"}
	gen := NewGenerator(spy, "SQLite", 25)

	_, err := gen.GenerateSQL(context.Background(), "q", "s")
	require.NoError(t, err)
	assert.Contains(t, spy.lastPrompt, "LIMIT 25")
}

func TestGenerateSQLStripsFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"tagged fence", "```sql\nSELECT 1\n```"},
		{"plain fence", "```\nSELECT 1\n```"},
		{"no fence", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyGenerator{response: tt.raw}
			gen := NewGenerator(spy, "MySQL/MariaDB", 100)

			candidate, err := gen.GenerateSQL(context.Background(), "q", "s")
			require.NoError(t, err)
			assert.Equal(t, "SELECT 1", candidate)
		})
	}
}

func TestGenerateSQLReturnsCandidateVerbatim(t *testing.T) {
	// No validation happens on the candidate; even a statement the caller
	// would never execute passes through untouched.
	spy := &spyGenerator{response: "DROP TABLE customers"}
	gen := NewGenerator(spy, "MySQL/MariaDB", 100)

	candidate, err := gen.GenerateSQL(context.Background(), "q", "s")
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE customers", candidate)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tagged fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"plain fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"no fence", "SELECT 1", "SELECT 1"},
		{"leading fence only", "```sql\nSELECT 1", "SELECT 1"},
		{"trailing fence only", "SELECT 1\n```", "SELECT 1"},
		{"surrounding whitespace", "  \n```sql\nSELECT 1\n```\n  ", "SELECT 1"},
		{"empty input", "", ""},
		{"bare fences", "```sql\n```", ""},
		{"multiline statement", "```sql\nSELECT a,\n  b\nFROM t\n```", "SELECT a,\n  b\nFROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFences(tt.input))
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	once := StripFences("```sql\nSELECT 1\n```")
	twice := StripFences(once)

	assert.Equal(t, once, twice)
}
