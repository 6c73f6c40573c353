package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/errors"
)

var explainCmd = &cobra.Command{
	Use:   "explain <sql>",
	Short: "Explain a SQL query in plain language",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

var adviseCmd = &cobra.Command{
	Use:   "advise <sql>",
	Short: "Suggest improvements for a SQL query",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvise,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(adviseCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return errors.New(errors.ErrTypeValidation, "query must not be empty")
	}

	fmt.Println(newQueryGenerator().Explain(cmd.Context(), query))

	return nil
}

func runAdvise(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return errors.New(errors.ErrTypeValidation, "query must not be empty")
	}

	fmt.Println(newQueryGenerator().Advise(cmd.Context(), query))

	return nil
}
