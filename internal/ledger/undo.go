package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"assetnamer/internal/fileutil"
)

// ErrUndoConflict indicates a rename could not be reverted because the
// filesystem no longer matches the ledger.
var ErrUndoConflict = errors.New("undo conflict")

// UndoConflictError carries the record that failed verification. Reversals
// performed before the conflict are kept.
type UndoConflictError struct {
	Record *BackupRecord
	Reason string
}

func (e *UndoConflictError) Error() string {
	return fmt.Sprintf("undo conflict: %s: %s", e.Record.NewPath, e.Reason)
}

func (e *UndoConflictError) Unwrap() error { return ErrUndoConflict }

// UndoReport summarizes an undo pass over a batch.
type UndoReport struct {
	BatchID  string
	Reverted int
	Skipped  int
}

// Undo reverts the renames of a batch in reverse order of application. Each
// renamed file is verified against the checksum captured at apply time before
// it is moved back. The first mismatch stops the pass with an
// UndoConflictError; reversals already performed stay in place.
func (s *Store) Undo(ctx context.Context, batchID string) (*UndoReport, error) {
	ctx = ensureContext(ctx)
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	records, err := s.RecordsForBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	report := &UndoReport{BatchID: batchID}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if record.Reverted {
			report.Skipped++
			continue
		}
		if err := s.revertRecord(ctx, record); err != nil {
			var conflict *UndoConflictError
			if errors.As(err, &conflict) {
				batch.ErrorMessage = conflict.Error()
				if updateErr := s.UpdateBatch(ctx, batch); updateErr != nil {
					return report, errors.Join(err, updateErr)
				}
			}
			return report, err
		}
		report.Reverted++
	}

	batch.Status = StatusRolledBack
	batch.ErrorMessage = ""
	if err := s.UpdateBatch(ctx, batch); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Store) revertRecord(ctx context.Context, record *BackupRecord) error {
	if _, err := os.Stat(record.NewPath); err != nil {
		if os.IsNotExist(err) {
			return &UndoConflictError{Record: record, Reason: "renamed file no longer exists"}
		}
		return fmt.Errorf("stat %s: %w", record.NewPath, err)
	}
	if record.Checksum != "" {
		digest, err := fileutil.HashFile(record.NewPath)
		if err != nil {
			return fmt.Errorf("hash %s: %w", record.NewPath, err)
		}
		if digest != record.Checksum {
			return &UndoConflictError{Record: record, Reason: "contents changed since rename"}
		}
	}
	if _, err := os.Stat(record.OriginalPath); err == nil {
		return &UndoConflictError{Record: record, Reason: "original path is occupied"}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", record.OriginalPath, err)
	}
	if err := os.Rename(record.NewPath, record.OriginalPath); err != nil {
		return fmt.Errorf("revert rename %s: %w", record.NewPath, err)
	}
	return s.markReverted(ctx, record.ID)
}
