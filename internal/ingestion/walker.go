package ingestion

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
)

// Walker enumerates every analyzable file in a repository using a
// queue-based traversal over the Source Access Client. Listings are paced
// in fixed-size batches with an inter-batch pause so a large repository
// cannot burn the API budget in one burst.
type Walker struct {
	source    github.ContentSource
	logger    *logrus.Logger
	batchSize int
	pause     time.Duration
}

// NewWalker creates a walker over a content source
func NewWalker(source github.ContentSource, cfg config.AnalysisConfig, logger *logrus.Logger) *Walker {
	batchSize := cfg.WalkerBatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Walker{
		source:    source,
		logger:    logger,
		batchSize: batchSize,
		pause:     cfg.WalkerPause,
	}
}

// ListAllFiles walks the repository tree from the root and returns the
// paths that pass the analyzable-file filter. A failed directory listing
// is logged and skipped; it never aborts the walk. Cancellation of ctx
// stops the walk between batches.
func (w *Walker) ListAllFiles(ctx context.Context, ref github.RepositoryRef) ([]string, error) {
	queue := []github.Entry{{Path: "", Type: github.EntryTypeDir}}
	var files []string

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := w.batchSize
		if n > len(queue) {
			n = len(queue)
		}
		batch := queue[:n]
		queue = queue[n:]

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, entry := range batch {
			if entry.Type == github.EntryTypeFile {
				if IsAnalyzable(entry.Path) {
					files = append(files, entry.Path)
				}
				continue
			}

			entry := entry
			g.Go(func() error {
				children, err := w.source.ListDirectory(gctx, ref, entry.Path)
				if err != nil {
					w.logger.WithError(err).WithField("path", entry.Path).
						Warn("directory listing failed, skipping subtree")
					return nil
				}

				mu.Lock()
				queue = append(queue, children...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if len(queue) > 0 {
			if err := sleepCtx(ctx, w.pause); err != nil {
				return nil, err
			}
		}
	}

	w.logger.WithFields(logrus.Fields{
		"repo":  ref.ID(),
		"files": len(files),
	}).Info("repository walk complete")

	return files, nil
}

// sleepCtx pauses for d or until ctx is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
