package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/ledger"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent batch-run history",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 20, "number of runs to show")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := l.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("reading run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-12s %-10s %-8s %-7s %s\n", "ID", "DATE", "PROCESSED", "SKIPPED", "FAILED", "STARTED")
	for _, r := range runs {
		fmt.Printf("%-6d %-12s %-10d %-8d %-7d %s\n",
			r.ID, r.Date, r.Processed, r.Skipped, r.Failed,
			r.Started.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
