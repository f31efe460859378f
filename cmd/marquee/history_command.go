package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconciliation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			jnl, err := journal.Open(cfg.Store.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer jnl.Close()

			runs, err := jnl.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := ""
				if !run.FinishedAt.IsZero() {
					duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				detail := run.Error
				if detail == "" {
					detail = fmt.Sprintf("%d feed / %d kept / %d expired", run.FeedEntries, run.Retained, run.Expired)
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Status,
					duration,
					strconv.FormatBool(run.FromCache),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Started", "Status", "Duration", "Cached", "Detail"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
