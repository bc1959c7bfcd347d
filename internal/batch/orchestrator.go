package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"assetnamer/internal/config"
	"assetnamer/internal/ledger"
	"assetnamer/internal/logging"
	"assetnamer/internal/mediascan"
	"assetnamer/internal/naming"
	"assetnamer/internal/notifications"
	"assetnamer/internal/services"
	"assetnamer/internal/services/vision"
)

// Describer produces a content description for one media file.
type Describer interface {
	DescribeFile(ctx context.Context, path string, video bool) (vision.Description, error)
}

// Orchestrator drives a rename batch through its stages: scan, describe,
// plan, and apply. Planning never touches the filesystem; Apply is the only
// stage that renames.
type Orchestrator struct {
	cfg       *config.Config
	store     *ledger.Store
	describer Describer
	notifier  notifications.Service
	logger    *slog.Logger
}

// New constructs an orchestrator. The notifier may be nil, in which case no
// notifications are sent.
func New(cfg *config.Config, store *ledger.Store, describer Describer, notifier notifications.Service, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		describer: describer,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "batch"),
	}
}

// Request describes the batch the user asked for.
type Request struct {
	InputDir        string
	PatternName     string
	PatternOverride string
	// DryRun plans without writing anything to the ledger. The resulting
	// plan cannot be applied.
	DryRun bool
}

func (o *Orchestrator) resolvePattern(req Request) (naming.Pattern, error) {
	raw := strings.TrimSpace(req.PatternOverride)
	if raw == "" {
		var err error
		raw, err = o.cfg.Pattern(req.PatternName)
		if err != nil {
			return naming.Pattern{}, services.Wrap(services.ErrConfiguration, "plan", "resolve pattern", "unknown pattern", err)
		}
	}
	pattern, err := naming.ParsePattern(raw)
	if err != nil {
		return naming.Pattern{}, services.Wrap(services.ErrValidation, "plan", "parse pattern", "invalid naming pattern", err)
	}
	if err := pattern.Validate(); err != nil {
		return naming.Pattern{}, services.Wrap(services.ErrValidation, "plan", "validate pattern", "invalid naming pattern", err)
	}
	return pattern, nil
}

func (o *Orchestrator) shaping() naming.Shaping {
	return naming.Shaping{
		DateFormat:       o.cfg.Output.DateFormat,
		SequencePadding:  o.cfg.Output.SequencePadding,
		Lowercase:        o.cfg.Output.LowercaseNames,
		SpaceReplacement: o.cfg.Output.SpaceReplacement,
	}
}

// Plan runs scan, describe, and planning for the requested directory and
// returns the reviewed plan. The batch is left in awaiting_confirmation state
// unless the scan finds nothing, in which case it commits immediately with
// zero renames.
func (o *Orchestrator) Plan(ctx context.Context, req Request) (*Plan, error) {
	inputDir, err := config.ExpandPath(req.InputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "expand path", "invalid input directory", err)
	}

	pattern, err := o.resolvePattern(req)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	ctx = services.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, o.logger)

	record := &ledger.BatchRecord{
		ID:        batchID,
		InputDir:  inputDir,
		OutputDir: inputDir,
		Pattern:   pattern.String(),
		Status:    ledger.StatusScanning,
	}
	persist := func() error {
		if req.DryRun {
			return nil
		}
		return o.store.UpdateBatch(ctx, record)
	}
	if !req.DryRun {
		if err := o.store.CreateBatch(ctx, record); err != nil {
			return nil, services.Wrap(services.ErrFilesystem, "plan", "create batch", "persist batch", err)
		}
	}

	assets, excluded, err := mediascan.Scan(inputDir, o.cfg)
	if err != nil {
		if !req.DryRun {
			o.failBatch(ctx, record, err)
		}
		return nil, services.Wrap(services.ErrFilesystem, "scan", "scan directory", "scan input directory", err)
	}
	for _, skip := range excluded {
		logger.Debug("skipping file", logging.String("path", skip.Path), logging.String("reason", skip.Reason))
	}

	plan := &Plan{
		BatchID:  batchID,
		InputDir: inputDir,
		Pattern:  pattern.String(),
		Excluded: excluded,
	}

	if len(assets) == 0 {
		record.Status = ledger.StatusCommitted
		if err := persist(); err != nil {
			return nil, services.Wrap(services.ErrFilesystem, "plan", "update batch", "persist batch", err)
		}
		logger.Info("nothing to rename", logging.String("input_dir", inputDir))
		return plan, nil
	}

	record.Status = ledger.StatusDescribing
	record.TotalCount = len(assets)
	if err := persist(); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "plan", "update batch", "persist batch", err)
	}

	entries := o.describeAll(ctx, logger, assets)
	if err := ctx.Err(); err != nil {
		if !req.DryRun {
			o.failBatch(ctx, record, err)
		}
		return nil, err
	}

	record.Status = ledger.StatusPlanning
	if err := persist(); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "plan", "update batch", "persist batch", err)
	}

	if err := o.buildNames(pattern, inputDir, entries); err != nil {
		if !req.DryRun {
			o.failBatch(ctx, record, err)
		}
		return nil, err
	}
	plan.Entries = entries

	record.Status = ledger.StatusAwaitingConfirmation
	if err := persist(); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "plan", "update batch", "persist batch", err)
	}
	logger.Info("plan ready",
		logging.Int("total", len(entries)),
		logging.Int("proposed", plan.Proposed()),
		logging.Int("unchanged", plan.Unchanged()),
		logging.Int("description_failures", plan.DescriptionFailures()),
	)
	return plan, nil
}

// buildNames assigns sequence numbers and collision-free candidate names in
// scan order. Planning is single threaded so numbering stays deterministic.
func (o *Orchestrator) buildNames(pattern naming.Pattern, inputDir string, entries []Entry) error {
	shape := o.shaping()
	registry := naming.NewSequenceRegistry(o.cfg.Patterns.Sequence)
	scope := naming.ScopeKey(inputDir, pattern.String())

	resolver := naming.NewCollisionResolver()
	if err := resolver.SeedFromDirectory(inputDir); err != nil {
		return services.Wrap(services.ErrFilesystem, "plan", "seed collisions", "read existing names", err)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Status == EntryDescriptionFailed {
			continue
		}

		source := naming.FieldSource{
			Date:         entry.Asset.ModTime,
			Description:  entry.Description.Summary,
			SceneType:    entry.Description.SceneType,
			Subjects:     entry.Description.Subjects,
			Location:     entry.Description.Location,
			Action:       entry.Description.Action,
			OriginalStem: entry.Asset.Stem(),
			Sequence:     registry.Next(scope),
		}
		expanded, err := pattern.Expand(naming.BuildFieldMap(source, shape))
		if err != nil {
			return services.Wrap(services.ErrValidation, "plan", "expand pattern", "expand naming pattern", err)
		}
		candidate := naming.ShapeName(expanded, shape) + entry.Asset.Ext()
		currentName := filepath.Base(entry.Asset.Path)
		if candidate == currentName {
			entry.Status = EntryUnchanged
			entry.NewName = candidate
			entry.NewPath = entry.Asset.Path
			continue
		}

		final := resolver.Resolve(candidate)
		entry.Status = EntryProposed
		entry.NewName = final
		entry.NewPath = filepath.Join(inputDir, final)
		// Only a renamed file vacates its current name. Names held by
		// unchanged or description-failed entries stay claimed so no later
		// candidate can resolve onto a file that keeps its name. Apply runs
		// in this same order, so the vacated name is free by the time a
		// later rename wants it.
		resolver.Release(currentName)
	}
	return nil
}

func (o *Orchestrator) failBatch(ctx context.Context, record *ledger.BatchRecord, cause error) {
	record.Status = ledger.StatusFailed
	record.ErrorMessage = cause.Error()
	if err := o.store.UpdateBatch(ctx, record); err != nil && !errors.Is(err, context.Canceled) {
		o.logger.Error("record batch failure", logging.Error(err))
	}
	if o.notifier != nil {
		if err := o.notifier.NotifyError(context.WithoutCancel(ctx), cause, "batch "+record.ID); err != nil {
			o.logger.Warn("send failure notification", logging.Error(err))
		}
	}
}

// Abandon marks an unapplied batch as failed with the supplied reason, used
// when the user declines a plan.
func (o *Orchestrator) Abandon(ctx context.Context, batchID, reason string) error {
	record, err := o.store.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if record.Status.Terminal() {
		return nil
	}
	record.Status = ledger.StatusFailed
	record.ErrorMessage = reason
	return o.store.UpdateBatch(ctx, record)
}

// Undo reverts an applied batch through the ledger and reports the outcome.
// An empty batchID targets the most recent batch.
func (o *Orchestrator) Undo(ctx context.Context, batchID string) (*ledger.UndoReport, error) {
	if strings.TrimSpace(batchID) == "" {
		latest, err := o.store.LatestBatch(ctx)
		if err != nil {
			return nil, err
		}
		batchID = latest.ID
	}
	ctx = services.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, o.logger)

	report, err := o.store.Undo(ctx, batchID)
	if err != nil {
		if errors.Is(err, ledger.ErrUndoConflict) && o.notifier != nil {
			if notifyErr := o.notifier.NotifyError(context.WithoutCancel(ctx), err, "undo "+batchID); notifyErr != nil {
				logger.Warn("send undo notification", logging.Error(notifyErr))
			}
		}
		return report, err
	}
	logger.Info("undo complete", logging.Int("reverted", report.Reverted), logging.Int("skipped", report.Skipped))
	if o.notifier != nil {
		if err := o.notifier.NotifyUndoCompleted(ctx, batchID, report.Reverted); err != nil {
			logger.Warn("send undo notification", logging.Error(err))
		}
	}
	return report, nil
}

func describeDetail(err error) string {
	if vision.RateLimited(err) {
		return fmt.Sprintf("rate limited: %v", err)
	}
	return err.Error()
}
