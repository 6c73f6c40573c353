package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaRefresh bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Display the database schema as seen by the query generator",
	Long: `Display the formatted schema snapshot (tables, columns, sample rows) that
grounds SQL generation. Pass --refresh to discard any cached snapshot and
rebuild from the live database.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaRefresh, "refresh", false, "Rebuild the snapshot from the live database")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	cache := newSchemaCache(src)
	if schemaRefresh {
		cache.Invalidate()
	}

	fmt.Print(cache.GetOrBuild(cmd.Context(), true))

	return nil
}
