package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assetnamer/internal/batch"
	"assetnamer/internal/config"
	"assetnamer/internal/ledger"
)

func newBatchesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List recorded rename batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(cfg *config.Config, store *ledger.Store, orch *batch.Orchestrator) error {
				records, err := store.ListBatches(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No batches recorded.")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						shortID(record.ID),
						record.CreatedAt.Local().Format("2006-01-02 15:04"),
						string(record.Status),
						fmt.Sprintf("%d/%d", record.RenamedCount, record.TotalCount),
						record.InputDir,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Batch", "Created", "Status", "Renamed", "Directory"},
					rows, 3,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of batches to show (0 for all)")
	return cmd
}

// resolveBatchID accepts either a full batch id or a unique prefix of one, so
// the short ids shown by 'batches' work as undo targets.
func resolveBatchID(ctx context.Context, store *ledger.Store, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", nil
	}
	if _, err := store.GetBatch(ctx, idOrPrefix); err == nil {
		return idOrPrefix, nil
	} else if !errors.Is(err, ledger.ErrBatchNotFound) {
		return "", err
	}

	records, err := store.ListBatches(ctx, 0)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, record := range records {
		if strings.HasPrefix(record.ID, idOrPrefix) {
			matches = append(matches, record.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ledger.ErrBatchNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("batch id prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}
