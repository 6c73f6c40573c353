package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points ASKDB_CONFIG at a temp path so tests never pick up a
// real config file from the host.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("ASKDB_CONFIG", filepath.Join(t.TempDir(), "config.json"))
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "30s", cfg.Database.QueryTimeout)
	assert.Equal(t, 3, cfg.Query.SampleRows)
	assert.Equal(t, 100, cfg.Query.DefaultLimit)
	assert.Equal(t, 0.1, cfg.LLM.Temperature)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ASKDB_DB_DRIVER", "postgres")
	t.Setenv("ASKDB_LLM_PROVIDER", "openai")
	t.Setenv("ASKDB_LLM_API_KEY", "sk-test")
	t.Setenv("ASKDB_QUERY_SAMPLE_ROWS", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.Query.SampleRows)
	assert.True(t, cfg.LLM.Configured())
}

func TestLoadConfigEnvPrefixAppliedOnce(t *testing.T) {
	isolateConfig(t)

	// The prefix comes from env.Options alone; a doubled name must not match.
	t.Setenv("ASKDB_ASKDB_DB_DRIVER", "postgres")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)

	t.Setenv("ASKDB_DB_DSN", "user:pw@tcp(localhost:3306)/shop")
	t.Setenv("ASKDB_LLM_API_KEY", "sk-live")

	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "user:pw@tcp(localhost:3306)/shop", cfg.Database.DSN)
	assert.Equal(t, "sk-live", cfg.LLM.APIKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"database": {"driver": "sqlite", "dsn": "/tmp/test.db"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("ASKDB_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN)
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
	}{
		{"bad driver", "ASKDB_DB_DRIVER", "oracle"},
		{"bad provider", "ASKDB_LLM_PROVIDER", "bard"},
		{"bad log level", "ASKDB_LOG_LEVEL", "verbose"},
		{"bad log format", "ASKDB_LOG_FORMAT", "yaml"},
		{"bad timeout", "ASKDB_DB_QUERY_TIMEOUT", "soon"},
		{"bad temperature", "ASKDB_LLM_TEMPERATURE", "3.5"},
		{"bad default limit", "ASKDB_QUERY_DEFAULT_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			t.Setenv(tt.envKey, tt.envVal)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDialect(t *testing.T) {
	tests := []struct {
		driver  string
		dialect string
	}{
		{"mysql", "MySQL/MariaDB"},
		{"postgres", "PostgreSQL"},
		{"sqlite", "SQLite"},
		{"duckdb", "DuckDB"},
		{"unknown", "SQL"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := DatabaseConfig{Driver: tt.driver}
			assert.Equal(t, tt.dialect, cfg.Dialect())
		})
	}
}

func TestLLMConfigured(t *testing.T) {
	assert.False(t, LLMConfig{}.Configured())
	assert.False(t, LLMConfig{Provider: "openai"}.Configured())
	assert.True(t, LLMConfig{Provider: "openai", APIKey: "sk"}.Configured())
	assert.True(t, LLMConfig{Provider: "gemini", APIKey: "k"}.Configured())
	assert.True(t, LLMConfig{Provider: "ollama"}.Configured())
}

func TestQueryTimeoutDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, DatabaseConfig{QueryTimeout: "10s"}.QueryTimeoutDuration())
	assert.Equal(t, 30*time.Second, DatabaseConfig{QueryTimeout: "bogus"}.QueryTimeoutDuration())
}
