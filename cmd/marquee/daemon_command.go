package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"marquee/internal/journal"
	"marquee/internal/logging"
	"marquee/internal/pipeline"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run reconciliation on the configured schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := []pipeline.Option{}
			jnl, err := journal.Open(cfg.Store.JournalPath)
			if err != nil {
				logger.Warn("journal unavailable", logging.Error(err))
			} else {
				defer jnl.Close()
				opts = append(opts, pipeline.WithJournal(jnl))
			}
			p := pipeline.New(cfg, logger, opts...)

			runOnce := func() {
				if _, err := p.Run(signalCtx); err != nil {
					logger.Error("reconcile failed", logging.Error(err))
				}
			}

			scheduler := cron.New()
			if _, err := scheduler.AddFunc(cfg.Daemon.Schedule, runOnce); err != nil {
				return fmt.Errorf("daemon.schedule %q: %w", cfg.Daemon.Schedule, err)
			}

			logger.Info("daemon started", logging.String("schedule", cfg.Daemon.Schedule))
			runOnce()
			scheduler.Start()
			<-signalCtx.Done()
			<-scheduler.Stop().Done()
			logger.Info("daemon stopped")
			return nil
		},
	}
}
