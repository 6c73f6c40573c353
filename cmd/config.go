package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the active configuration",
	Long:  `Show the current active configuration merged from the config file and environment variables. Secrets are redacted.`,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Println("Active Configuration:")

	fmt.Println("\nDatabase:")
	fmt.Printf("  Driver: %s\n", cfg.Database.Driver)
	fmt.Printf("  DSN: %s\n", redactDSN(cfg.Database.DSN))
	fmt.Printf("  Query Timeout: %s\n", cfg.Database.QueryTimeout)
	fmt.Printf("  Max Open Connections: %d\n", cfg.Database.MaxOpenConns)
	fmt.Printf("  Max Idle Connections: %d\n", cfg.Database.MaxIdleConns)

	fmt.Println("\nLLM:")

	provider := cfg.LLM.Provider
	if provider == "" {
		provider = "(not configured)"
	}

	fmt.Printf("  Provider: %s\n", provider)
	fmt.Printf("  Model: %s\n", cfg.LLM.Model)
	fmt.Printf("  API Key: %s\n", redactSecret(cfg.LLM.APIKey))

	if cfg.LLM.BaseURL != "" {
		fmt.Printf("  Base URL: %s\n", cfg.LLM.BaseURL)
	}

	fmt.Printf("  Temperature: %g\n", cfg.LLM.Temperature)
	fmt.Printf("  Max Tokens: %d\n", cfg.LLM.MaxTokens)

	fmt.Println("\nQuery:")
	fmt.Printf("  Sample Rows: %d\n", cfg.Query.SampleRows)
	fmt.Printf("  Default Limit: %d\n", cfg.Query.DefaultLimit)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level: %s\n", cfg.Logging.Level)
	fmt.Printf("  Format: %s\n", cfg.Logging.Format)
	fmt.Printf("  Output: %s\n", cfg.Logging.Output)

	if cfg.Logging.Output == "file" {
		fmt.Printf("  File: %s\n", cfg.Logging.File)
	}

	return nil
}

// redactSecret keeps a short prefix so keys can be told apart.
func redactSecret(s string) string {
	if s == "" {
		return "(not set)"
	}

	if len(s) <= 6 {
		return "******"
	}

	return s[:4] + strings.Repeat("*", 6)
}

// redactDSN hides the credential portion of a DSN.
func redactDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}

	// user:pass@host forms hide everything before the @.
	if idx := strings.LastIndex(dsn, "@"); idx >= 0 {
		return "****@" + dsn[idx+1:]
	}

	return dsn
}
