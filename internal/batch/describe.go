package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"assetnamer/internal/logging"
	"assetnamer/internal/mediascan"
	"assetnamer/internal/services"
)

// describeAll fans the describe stage out over a bounded worker pool sized by
// the configured batch size. Results land back in scan order so planning
// stays deterministic regardless of completion order.
func (o *Orchestrator) describeAll(ctx context.Context, logger *slog.Logger, assets []mediascan.Asset) []Entry {
	entries := make([]Entry, len(assets))
	for i, asset := range assets {
		entries[i] = Entry{Asset: asset}
	}

	workers := o.cfg.Processing.BatchSize
	if workers <= 0 {
		workers = 1
	}
	if workers > len(assets) {
		workers = len(assets)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				o.describeOne(ctx, logger, &entries[i])
			}
		}()
	}

	for i := range entries {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return entries
		}
	}
	close(indexes)
	wg.Wait()
	return entries
}

func (o *Orchestrator) describeOne(ctx context.Context, logger *slog.Logger, entry *Entry) {
	if err := ctx.Err(); err != nil {
		entry.Status = EntryDescriptionFailed
		entry.Detail = err.Error()
		return
	}
	ctx = services.WithAssetPath(ctx, entry.Asset.Path)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	description, err := o.describer.DescribeFile(ctx, entry.Asset.Path, entry.Asset.Kind == mediascan.KindVideo)
	if err != nil {
		entry.Status = EntryDescriptionFailed
		entry.Detail = describeDetail(err)
		logger.Warn("description failed",
			logging.String("path", entry.Asset.Path),
			logging.Error(err),
		)
		return
	}
	entry.Description = description
	logger.Debug("described asset",
		logging.String("path", entry.Asset.Path),
		logging.String("summary", description.Summary),
	)
}
