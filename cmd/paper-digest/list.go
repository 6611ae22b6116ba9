package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored summaries for a date",
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("date", "", "date partition to list, YYYY-MM-DD (default today)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	records, skipped, err := st.List(ctx, date)
	if err != nil {
		return fmt.Errorf("listing %s: %w", date, err)
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d malformed record(s) skipped\n", skipped)
	}

	if len(records) == 0 {
		fmt.Printf("No summaries stored for %s\n", date)
		return nil
	}

	fmt.Printf("%d summary record(s) for %s:\n", len(records), date)
	for _, rec := range records {
		fmt.Printf("  %s  %s\n", rec.ArxivID, rec.Title)
		if len(rec.Authors) > 0 {
			fmt.Printf("              %s\n", strings.Join(rec.Authors, ", "))
		}
	}
	return nil
}
