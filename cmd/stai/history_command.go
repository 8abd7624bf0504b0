package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stai/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcription runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			store, err := history.Open(cmd.Context(), cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, runs)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcription runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", run.ID),
					run.CreatedAt.Local().Format(time.DateTime),
					run.SourceKind,
					truncate(run.Source, 48),
					run.Model,
					string(run.Status),
					formatRunDuration(run.Duration),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Started", "Kind", "Source", "Model", "Status", "Duration"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
