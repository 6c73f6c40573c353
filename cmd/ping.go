package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify the database connection and provider configuration",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(_ *cobra.Command, _ []string) error {
	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("database: OK (%s)\n", cfg.Database.Dialect())

	if cfg.LLM.Configured() {
		fmt.Printf("llm: configured (%s, model %s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	} else {
		fmt.Println("llm: not configured (SQL generation unavailable)")
	}

	return nil
}
