package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/internal/ledger"
	"github.com/pdiddy/paper-digest/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one batch run: fetch, summarize, and store the day's papers",
	Long: `Run fetches the catalog window ending on the given date, summarizes each
new paper, and stores one record per paper under the date partition. Papers
already stored for the date are skipped, and one bad paper never aborts the
run. The outcome is recorded in the run ledger.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().String("date", "", "date partition to process, YYYY-MM-DD (default today)")
	runCmd.Flags().String("report", "", "write a YAML run report to this file")

	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	st, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	p, err := newPipeline(cfg, st)
	if err != nil {
		return err
	}

	report, runErr := p.Run(ctx, date, os.Stdout)

	// The ledger keeps partial outcomes too.
	if l, err := ledger.Open(cfg.LedgerPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening ledger: %v\n", err)
	} else {
		if err := l.Record(ctx, report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
		}
		l.Close()
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReport(path, report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing report: %v\n", err)
		}
	}

	// Per-paper failures are reported in the summary line but do not fail
	// the command; only run-level errors do.
	return runErr
}

func writeReport(path string, report pipeline.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
