package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/render"
)

var (
	askRun     bool
	askExplain bool
	askNoCache bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Convert a natural language question into SQL",
	Long: `Convert a natural language question into a SQL query grounded in the live
database schema. By default the generated SQL is printed without being
executed; pass --run to execute it and display the results.

Examples:
  askdb ask "customers who ordered exactly once"
  askdb ask --run "top 10 products by revenue"
  askdb ask --run --explain "orders placed last month"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askRun, "run", false, "Execute the generated SQL and display results")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "Also print a plain-language explanation")
	askCmd.Flags().BoolVar(&askNoCache, "no-cache", false, "Rebuild the schema snapshot instead of using the cached one")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New(errors.ErrTypeValidation, "question must not be empty")
	}

	requestID := uuid.New().String()
	logger := logging.WithField("request_id", requestID).WithField("question", question)
	logger.Debug("handling ask request")

	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	cache := newSchemaCache(src)
	formattedSchema := cache.GetOrBuild(ctx, !askNoCache)

	gen := newQueryGenerator()

	sp := newSpinner("generating SQL...")
	sp.Start()

	query, err := gen.GenerateSQL(ctx, question, formattedSchema)

	sp.Stop()

	if err != nil {
		return err
	}

	fmt.Println(query)

	if askExplain {
		fmt.Printf("\n%s\n", gen.Explain(ctx, query))
	}

	if !askRun {
		return nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, cfg.Database.QueryTimeoutDuration())
	defer cancel()

	result, err := src.Query(queryCtx, query)
	if err != nil {
		return err
	}

	fmt.Println()

	return render.Table(os.Stdout, result)
}

func newSpinner(suffix string) *spinner.Spinner {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " " + suffix
	sp.Writer = os.Stderr

	return sp
}
