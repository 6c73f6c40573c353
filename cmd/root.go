// Package cmd wires the CLI commands to the query pipeline.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/llm"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/nlq"
	"github.com/askdb/askdb/internal/schema"
)

// cfg is populated by the persistent pre-run and shared by all commands.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "askdb",
	Short: "Ask your database questions in plain language",
	Long: `askdb converts natural language questions into SQL against a connected
database. It introspects the live schema (tables, columns, sample rows) to
ground generation, and can execute the result, explain queries in plain
language, and suggest improvements.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	ctx := context.Background()
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeConfig, "failed to load configuration")
	}

	loaded.ExpandAllPaths()

	if err := logging.InitializeLogger(loaded.Logging); err != nil {
		logging.SetupFallbackLogger()
		logging.Warnf("failed to initialize logger, using fallback: %v", err)
	}

	cfg = loaded

	return nil
}

// openSource connects to the configured database. Callers own the Close.
func openSource() (*datasource.SQLSource, error) {
	return datasource.Open(
		datasource.Dialect(cfg.Database.Driver),
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
}

// buildGenerator returns the configured text-generation client, or nil when
// the provider is unconfigured. Downstream consumers treat nil as "generation
// features unavailable" rather than an error at startup.
func buildGenerator() llm.Generator {
	if !cfg.LLM.Configured() {
		return nil
	}

	client, err := llm.NewClient(llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		logging.ErrorWithErr("failed to create LLM client", err)
		return nil
	}

	return client
}

// newQueryGenerator builds the question-to-SQL generator for the configured
// dialect.
func newQueryGenerator() *nlq.Generator {
	return nlq.NewGenerator(buildGenerator(), cfg.Database.Dialect(), cfg.Query.DefaultLimit)
}

// newSchemaCache builds a schema cache over a live source.
func newSchemaCache(src datasource.Source) *schema.Cache {
	return schema.NewCache(schema.NewBuilder(src, cfg.Query.SampleRows))
}
