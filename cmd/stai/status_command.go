package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stai/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			statuses = append(statuses, deps.CheckWhisperCLI(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{status.Name, state, status.Command, status.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Status", "Command", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "whisper.cpp root: %s\n", cfg.Whisper.Root)
			fmt.Fprintf(out, "model directory:  %s\n", cfg.WhisperModelsDir())
			return nil
		},
	}
}
