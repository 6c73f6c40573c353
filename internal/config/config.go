package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `json:"database"`
	LLM      LLMConfig      `json:"llm"`
	Query    QueryConfig    `json:"query"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig represents data source configuration
type DatabaseConfig struct {
	Driver       string `json:"driver"        env:"DB_DRIVER"        envDefault:"mysql"`
	DSN          string `json:"dsn"           env:"DB_DSN"`
	QueryTimeout string `json:"query_timeout" env:"DB_QUERY_TIMEOUT" envDefault:"30s"`
	MaxOpenConns int    `json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	MaxIdleConns int    `json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
}

// LLMConfig represents text-generation provider configuration
type LLMConfig struct {
	Provider    string  `json:"provider"    env:"LLM_PROVIDER"`
	Model       string  `json:"model"       env:"LLM_MODEL"       envDefault:"gemini-2.0-flash"`
	APIKey      string  `json:"api_key"     env:"LLM_API_KEY"`
	BaseURL     string  `json:"base_url"    env:"LLM_BASE_URL"`
	Temperature float64 `json:"temperature" env:"LLM_TEMPERATURE" envDefault:"0.1"`
	MaxTokens   int     `json:"max_tokens"  env:"LLM_MAX_TOKENS"  envDefault:"1024"`
}

// QueryConfig represents query pipeline configuration
type QueryConfig struct {
	SampleRows   int `json:"sample_rows"   env:"QUERY_SAMPLE_ROWS"   envDefault:"3"`
	DefaultLimit int `json:"default_limit" env:"QUERY_DEFAULT_LIMIT" envDefault:"100"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"`   // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"`   // text, json
	Output string `json:"output" env:"LOG_OUTPUT" envDefault:"stderr"` // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"   envDefault:"~/.config/askdb/logs/askdb.log"`
}

// LoadConfig loads configuration from the config file and environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Load from config file if it exists
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadConfigFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply environment variable overrides using env library (also sets defaults)
	if err := env.ParseWithOptions(config, env.Options{
		Prefix: "ASKDB_",
	}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadConfigFromFile loads configuration from a JSON file
func loadConfigFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// mergeConfigs merges source configuration into target configuration
func mergeConfigs(target, source *Config) {
	var mergeValues func(t, s reflect.Value)
	mergeValues = func(t, s reflect.Value) {
		if t.Kind() != s.Kind() {
			return
		}

		if t.Kind() == reflect.Struct {
			for i := range s.NumField() {
				mergeValues(t.Field(i), s.Field(i))
			}
		} else if !s.IsZero() {
			t.Set(s)
		}
	}

	mergeValues(reflect.ValueOf(target).Elem(), reflect.ValueOf(source).Elem())
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	validDrivers := map[string]bool{
		"mysql": true, "postgres": true, "sqlite": true, "duckdb": true,
	}
	if !validDrivers[strings.ToLower(config.Database.Driver)] {
		return fmt.Errorf(
			"invalid database driver: %s (must be mysql, postgres, sqlite, or duckdb)",
			config.Database.Driver,
		)
	}

	// Empty provider means the generation features are unconfigured, which is allowed.
	validProviders := map[string]bool{
		"": true, "openai": true, "anthropic": true, "gemini": true, "ollama": true,
	}
	if !validProviders[strings.ToLower(config.LLM.Provider)] {
		return fmt.Errorf(
			"invalid LLM provider: %s (must be openai, anthropic, gemini, or ollama)",
			config.LLM.Provider,
		)
	}

	if config.LLM.Temperature < 0 || config.LLM.Temperature > 2 {
		return fmt.Errorf("LLM temperature must be between 0 and 2: %g", config.LLM.Temperature)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf(
			"invalid log level: %s (must be debug, info, warn, or error)",
			config.Logging.Level,
		)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", config.Logging.Format)
	}

	validLogOutputs := map[string]bool{
		"stdout": true, "stderr": true, "file": true,
	}
	if !validLogOutputs[strings.ToLower(config.Logging.Output)] {
		return fmt.Errorf(
			"invalid log output: %s (must be stdout, stderr, or file)",
			config.Logging.Output,
		)
	}

	if _, err := time.ParseDuration(config.Database.QueryTimeout); err != nil {
		return fmt.Errorf("invalid database query timeout: %s", config.Database.QueryTimeout)
	}

	if config.Query.SampleRows < 0 {
		return fmt.Errorf("sample row count must not be negative: %d", config.Query.SampleRows)
	}

	if config.Query.DefaultLimit <= 0 {
		return fmt.Errorf("default result limit must be positive: %d", config.Query.DefaultLimit)
	}

	return nil
}

// QueryTimeoutDuration returns the parsed query timeout
func (c DatabaseConfig) QueryTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.QueryTimeout)
	if err != nil {
		return 30 * time.Second
	}

	return d
}

// Dialect returns the human-readable SQL dialect name for the configured
// driver, used when building generation prompts.
func (c DatabaseConfig) Dialect() string {
	switch strings.ToLower(c.Driver) {
	case "mysql":
		return "MySQL/MariaDB"
	case "postgres":
		return "PostgreSQL"
	case "sqlite":
		return "SQLite"
	case "duckdb":
		return "DuckDB"
	default:
		return "SQL"
	}
}

// Configured reports whether the text-generation provider is usable: a
// provider must be named, and hosted providers additionally need an API key.
func (c LLMConfig) Configured() bool {
	switch strings.ToLower(c.Provider) {
	case "openai", "anthropic", "gemini":
		return c.APIKey != ""
	case "ollama":
		return true
	default:
		return false
	}
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config) error {
	configPath := getConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	if configPath := os.Getenv("ASKDB_CONFIG"); configPath != "" {
		return expandPath(configPath)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(homeDir, ".config", "askdb", "config.json")
}

// expandPath expands ~ to home directory in file paths
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ExpandAllPaths expands all paths in the configuration
func (c *Config) ExpandAllPaths() {
	c.Logging.File = expandPath(c.Logging.File)

	if strings.ToLower(c.Database.Driver) == "sqlite" ||
		strings.ToLower(c.Database.Driver) == "duckdb" {
		c.Database.DSN = expandPath(c.Database.DSN)
	}
}
