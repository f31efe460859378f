package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/store"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Show the current events table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			records, err := store.Load(cfg.Store.Path, cfg.Location())
			if err != nil {
				return fmt.Errorf("load store: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No events. Run `marquee sync` first.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ID,
					rec.Title,
					rec.Start.Format("Mon 02 Jan 15:04"),
					rec.Place,
					string(rec.Origin),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Start", "Place", "Source"}, rows))
			return nil
		},
	}
}
