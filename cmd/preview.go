package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/datasource"
	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/ingest"
	"github.com/askdb/askdb/internal/render"
)

var (
	previewLimit int
	previewStats bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Preview a tabular file (CSV, TSV, JSON, or plain text)",
	Long: `Parse a local tabular file and display its contents as a table. The format
is detected from the file extension, falling back to content sniffing.

Examples:
  askdb preview orders.csv
  askdb preview --limit 5 --stats events.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewLimit, "limit", 20, "Maximum number of rows to display")
	previewCmd.Flags().BoolVar(&previewStats, "stats", false, "Display per-column summary statistics")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, args []string) error {
	if previewLimit < 1 {
		return errors.New(errors.ErrTypeValidation, "limit must be at least 1")
	}

	result, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
	}

	shown := result
	if len(result.Rows) > previewLimit {
		shown = &datasource.Result{
			Columns: result.Columns,
			Rows:    result.Rows[:previewLimit],
		}
	}

	if err := render.Table(os.Stdout, shown); err != nil {
		return err
	}

	if len(result.Rows) > previewLimit {
		fmt.Printf("(showing %d of %d rows)\n", previewLimit, len(result.Rows))
	}

	if previewStats {
		fmt.Println()

		return render.Stats(os.Stdout, ingest.Summarize(result))
	}

	return nil
}
