package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"assetnamer/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [directory]",
		Short: "Run environment checks: directories, vision API, ffmpeg",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			inputDir := ""
			if len(args) == 1 {
				inputDir = args[0]
			}

			results := preflight.RunAll(cmd.Context(), cfg, inputDir)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows))

			if failures := preflight.Failed(results); len(failures) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failures))
			}
			return nil
		},
	}
}
