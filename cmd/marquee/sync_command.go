package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/journal"
	"marquee/internal/logging"
	"marquee/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation pass against the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			opts := []pipeline.Option{}
			jnl, err := journal.Open(cfg.Store.JournalPath)
			if err != nil {
				logger.Warn("journal unavailable", logging.Error(err))
			} else {
				defer jnl.Close()
				opts = append(opts, pipeline.WithJournal(jnl))
			}

			summary, err := pipeline.New(cfg, logger, opts...).Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Retained %d events (%d from feed, %d expired)\n",
				summary.Retained, summary.FeedEntries, summary.Expired)
			return nil
		},
	}
}
