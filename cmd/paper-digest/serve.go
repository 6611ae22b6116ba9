package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-digest/internal/ledger"
	"github.com/pdiddy/paper-digest/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the web reader and run the batch pipeline on a schedule",
	Long: `Serve hosts the read-only summary browser and triggers batch runs on the
configured cron schedule. The reader and the pipeline share the store; a run
in progress never blocks reads.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("schedule", "", "cron expression for batch runs (default from config)")
	serveCmd.Flags().Bool("no-schedule", false, "serve the reader without scheduled batch runs")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if schedule, _ := cmd.Flags().GetString("schedule"); schedule != "" {
		cfg.Schedule = schedule
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	srv, err := web.NewServer(st, cfg.Web, log)
	if err != nil {
		return fmt.Errorf("building web reader: %w", err)
	}

	var scheduler *cron.Cron
	if noSchedule, _ := cmd.Flags().GetBool("no-schedule"); !noSchedule {
		p, err := newPipeline(cfg, st)
		if err != nil {
			return err
		}
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		defer l.Close()

		scheduler = cron.New()
		_, err = scheduler.AddFunc(cfg.Schedule, func() {
			date := time.Now().Format("2006-01-02")
			log.Info("scheduled run starting", zap.String("date", date))

			report, runErr := p.Run(ctx, date, os.Stdout)
			if recErr := l.Record(ctx, report); recErr != nil {
				log.Warn("recording run failed", zap.Error(recErr))
			}
			if runErr != nil {
				log.Error("scheduled run failed", zap.String("date", date), zap.Error(runErr))
				return
			}
			log.Info("scheduled run complete",
				zap.String("date", date),
				zap.Int("processed", report.Processed),
				zap.Int("skipped", report.Skipped),
				zap.Int("failed", report.Failed))
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
		scheduler.Start()
		log.Info("scheduler started", zap.String("schedule", cfg.Schedule))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	log.Info("shutting down")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
