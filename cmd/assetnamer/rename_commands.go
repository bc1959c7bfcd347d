package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assetnamer/internal/batch"
	"assetnamer/internal/config"
	"assetnamer/internal/ledger"
	"assetnamer/internal/preflight"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var patternName string
	var template string

	cmd := &cobra.Command{
		Use:   "preview <directory>",
		Short: "Show the rename plan for a directory without touching any files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(cfg *config.Config, store *ledger.Store, orch *batch.Orchestrator) error {
				plan, err := orch.Plan(cmd.Context(), batch.Request{
					InputDir:        args[0],
					PatternName:     patternName,
					PatternOverride: template,
					DryRun:          true,
				})
				if err != nil {
					return err
				}
				writePlan(cmd.OutOrStdout(), plan)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&patternName, "pattern", "p", "", "Named pattern from the configured library")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Inline naming template, overrides --pattern")
	return cmd
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var patternName string
	var template string
	var yes bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "rename <directory>",
		Short: "Describe, plan, and rename the media files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(cfg *config.Config, store *ledger.Store, orch *batch.Orchestrator) error {
				out := cmd.OutOrStdout()

				if !skipPreflight {
					inputDir, err := config.ExpandPath(args[0])
					if err != nil {
						return err
					}
					results := preflight.RunAll(cmd.Context(), cfg, inputDir)
					if failures := preflight.Failed(results); len(failures) > 0 {
						for _, failure := range failures {
							fmt.Fprintf(out, "preflight failed: %s: %s\n", failure.Name, failure.Detail)
						}
						return fmt.Errorf("%d preflight check(s) failed", len(failures))
					}
				}

				plan, err := orch.Plan(cmd.Context(), batch.Request{
					InputDir:        args[0],
					PatternName:     patternName,
					PatternOverride: template,
				})
				if err != nil {
					return err
				}
				writePlan(out, plan)
				if plan.Proposed() == 0 {
					return nil
				}

				if !yes {
					if !confirm(out, cmd.InOrStdin(), fmt.Sprintf("Rename %d files", plan.Proposed())) {
						if err := orch.Abandon(cmd.Context(), plan.BatchID, "declined by user"); err != nil {
							return err
						}
						fmt.Fprintln(out, "Aborted.")
						return nil
					}
				}

				summary, err := orch.Apply(cmd.Context(), plan)
				if summary != nil {
					writeSummary(out, summary)
				}
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&patternName, "pattern", "p", "", "Named pattern from the configured library")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Inline naming template, overrides --pattern")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking for confirmation")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before planning")
	return cmd
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [batch-id]",
		Short: "Revert a rename batch, most recent first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(cfg *config.Config, store *ledger.Store, orch *batch.Orchestrator) error {
				batchID := ""
				if len(args) == 1 {
					resolved, err := resolveBatchID(cmd.Context(), store, strings.TrimSpace(args[0]))
					if err != nil {
						return err
					}
					batchID = resolved
				}
				report, err := orch.Undo(cmd.Context(), batchID)
				if report != nil && report.Reverted > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Restored %d files from batch %s\n", report.Reverted, shortID(report.BatchID))
				}
				return err
			})
		},
	}
	return cmd
}
