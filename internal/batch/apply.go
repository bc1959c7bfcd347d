package batch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"assetnamer/internal/fileutil"
	"assetnamer/internal/ledger"
	"assetnamer/internal/logging"
	"assetnamer/internal/services"
)

// ErrApplyLocked indicates another apply is already running against the same
// directory.
var ErrApplyLocked = errors.New("directory is locked by another rename batch")

// lockPath derives the apply lock location for one input directory. Locks
// live in the ledger directory so they never show up in scans of the
// directory being renamed.
func (o *Orchestrator) lockPath(inputDir string) string {
	sum := sha256.Sum256([]byte(inputDir))
	return filepath.Join(o.cfg.Paths.LedgerDir, fmt.Sprintf("apply-%x.lock", sum[:8]))
}

// Summary reports the outcome of an apply pass.
type Summary struct {
	BatchID             string
	Status              ledger.Status
	Renamed             int
	Failed              int
	Unchanged           int
	DescriptionFailures int
	BackupDir           string
	Duration            time.Duration
}

// Apply performs the renames of a confirmed plan. Each rename is recorded in
// the ledger before the file moves, and originals are copied into a
// per-batch backup directory when backups are enabled. Individual failures
// mark their entry and the pass continues.
func (o *Orchestrator) Apply(ctx context.Context, plan *Plan) (*Summary, error) {
	started := time.Now()
	ctx = services.WithBatchID(ctx, plan.BatchID)
	logger := logging.WithContext(ctx, o.logger)

	record, err := o.store.GetBatch(ctx, plan.BatchID)
	if err != nil {
		return nil, err
	}
	if record.Status != ledger.StatusAwaitingConfirmation {
		return nil, fmt.Errorf("batch %s is %s, expected %s", plan.BatchID, record.Status, ledger.StatusAwaitingConfirmation)
	}

	lock := flock.New(o.lockPath(plan.InputDir))
	locked, err := lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "apply", "acquire lock", "lock input directory", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrApplyLocked, plan.InputDir)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	record.Status = ledger.StatusApplying
	if err := o.store.UpdateBatch(ctx, record); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "apply", "update batch", "persist batch", err)
	}

	if o.notifier != nil {
		if err := o.notifier.NotifyBatchStarted(ctx, plan.BatchID, plan.Proposed()); err != nil {
			logger.Warn("send start notification", logging.Error(err))
		}
	}

	backupDir := ""
	if o.cfg.Processing.BackupOriginals {
		backupDir = filepath.Join(o.cfg.Paths.BackupDir,
			fmt.Sprintf("%s-%s", started.UTC().Format("20060102-150405"), shortBatchID(plan.BatchID)))
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			o.failBatch(ctx, record, err)
			return nil, services.Wrap(services.ErrFilesystem, "apply", "create backup dir", "create backup directory", err)
		}
	}

	summary := &Summary{BatchID: plan.BatchID, BackupDir: backupDir}
	canceled := false
	for i := range plan.Entries {
		entry := &plan.Entries[i]
		if err := ctx.Err(); err != nil {
			canceled = true
			break
		}
		if entry.Status != EntryProposed {
			continue
		}
		if err := o.applyEntry(ctx, entry, backupDir); err != nil {
			entry.Status = EntryFailed
			entry.Detail = err.Error()
			summary.Failed++
			logger.Error("rename failed",
				logging.String("path", entry.Asset.Path),
				logging.String("new_name", entry.NewName),
				logging.Error(err),
			)
			continue
		}
		entry.Status = EntryApplied
		summary.Renamed++
		logger.Info("renamed",
			logging.String("from", filepath.Base(entry.Asset.Path)),
			logging.String("to", entry.NewName),
		)
	}
	summary.Unchanged = plan.Unchanged()
	summary.DescriptionFailures = plan.DescriptionFailures()
	summary.Duration = time.Since(started)

	switch {
	case canceled && summary.Renamed == 0:
		record.Status = ledger.StatusFailed
		record.ErrorMessage = context.Canceled.Error()
	case canceled || summary.Failed > 0:
		record.Status = ledger.StatusPartiallyFailed
		if canceled {
			record.ErrorMessage = context.Canceled.Error()
		}
	default:
		record.Status = ledger.StatusCommitted
	}
	record.RenamedCount = summary.Renamed
	record.FailedCount = summary.Failed
	summary.Status = record.Status
	if err := o.store.UpdateBatch(context.WithoutCancel(ctx), record); err != nil {
		return summary, services.Wrap(services.ErrFilesystem, "apply", "update batch", "persist batch", err)
	}

	if o.notifier != nil {
		if err := o.notifier.NotifyBatchCompleted(context.WithoutCancel(ctx), plan.BatchID, summary.Renamed, summary.Failed, summary.Duration); err != nil {
			logger.Warn("send completion notification", logging.Error(err))
		}
	}
	if canceled {
		return summary, ctx.Err()
	}
	return summary, nil
}

// applyEntry backs up, records, and renames one file. The ledger write comes
// before the rename so a crash in between leaves a record pointing at an
// unmoved file rather than a silent rename.
func (o *Orchestrator) applyEntry(ctx context.Context, entry *Entry, backupDir string) error {
	if _, err := os.Stat(entry.Asset.Path); err != nil {
		return fmt.Errorf("source vanished: %w", err)
	}
	if _, err := os.Stat(entry.NewPath); err == nil {
		return fmt.Errorf("destination %s already exists", entry.NewName)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat destination: %w", err)
	}

	var (
		checksum   string
		backupPath string
		err        error
	)
	if backupDir != "" {
		backupPath = filepath.Join(backupDir, filepath.Base(entry.Asset.Path))
		checksum, err = fileutil.CopyFileVerified(entry.Asset.Path, backupPath)
		if err != nil {
			return fmt.Errorf("backup original: %w", err)
		}
	} else {
		checksum, err = fileutil.HashFile(entry.Asset.Path)
		if err != nil {
			return fmt.Errorf("hash original: %w", err)
		}
	}

	batchID, _ := services.BatchIDFromContext(ctx)
	record := &ledger.BackupRecord{
		BatchID:      batchID,
		OriginalPath: entry.Asset.Path,
		NewPath:      entry.NewPath,
		BackupPath:   backupPath,
		Checksum:     checksum,
	}
	if err := o.store.RecordRename(ctx, record); err != nil {
		return fmt.Errorf("record rename: %w", err)
	}
	if err := os.Rename(entry.Asset.Path, entry.NewPath); err != nil {
		if discardErr := o.store.DiscardRecord(ctx, record.ID); discardErr != nil {
			return errors.Join(err, discardErr)
		}
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func shortBatchID(batchID string) string {
	if len(batchID) > 8 {
		return batchID[:8]
	}
	return batchID
}
