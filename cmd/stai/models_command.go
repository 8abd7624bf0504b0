package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stai/internal/logging"
	"stai/internal/services/whisper"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage whisper.cpp model weights",
	}

	modelsCmd.AddCommand(newModelsListCommand(ctx))
	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))

	return modelsCmd
}

func newModelsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available and installed models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			svc := whisper.NewService(cfg, logging.NewNop())
			statuses, err := svc.ModelStatuses()
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, statuses)
			}

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				size := ""
				if status.Installed {
					size = formatSize(status.SizeBytes)
				}
				rows = append(rows, []string{status.Name, yesNo(status.Installed), size})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Installed", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <model>",
		Short: "Download a model's ggml weights via whisper.cpp's script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			svc := whisper.NewService(cfg, logger)
			model := args[0]
			if err := svc.DownloadModel(cmd.Context(), model); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s ready at %s\n", model, svc.ModelPath(model))
			return nil
		},
	}
}
