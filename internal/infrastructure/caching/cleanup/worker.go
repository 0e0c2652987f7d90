// Package cleanup provides the background cache pruning worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
)

// Config holds cleanup worker settings, sourced from the central config package.
type Config struct {
	Interval time.Duration
	EntryTTL time.Duration
	Verbose  bool
}

// Worker prunes expired snapshots from cache generations on an interval.
// Generation-level eviction stays with activation; this worker only ages
// out individual entries.
type Worker struct {
	store  interfaces.Store
	config Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a cleanup worker with injected configuration.
func NewWorker(store interfaces.Store, config Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{store: store, config: config, logger: logger}
}

// Start begins the cleanup routine, using the configured interval.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.Interval, "entryTTL", w.config.EntryTTL)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()
	names, err := w.store.Names()
	if err != nil {
		w.logger.Cache().Error("Cache cleanup failed to enumerate generations", "error", err.Error())
		return
	}

	var pruned int
	for _, name := range names {
		pruned += w.cleanupGeneration(name)
	}

	if pruned > 0 || w.config.Verbose {
		w.logger.Cache().Info("Cache cleanup pass completed",
			"generations", len(names), "pruned", pruned, "duration", time.Since(start))
	}
}

func (w *Worker) cleanupGeneration(name string) int {
	gen, err := w.store.Open(name)
	if err != nil {
		w.logger.Cache().Warn("Cache cleanup could not open generation", "name", name, "error", err.Error())
		return 0
	}

	keys, err := gen.Keys()
	if err != nil {
		w.logger.Cache().Warn("Cache cleanup could not list keys", "name", name, "error", err.Error())
		return 0
	}

	cutoff := time.Now().UTC().Add(-w.config.EntryTTL)
	var pruned int
	for _, key := range keys {
		entry, found, err := gen.Match(key)
		if err != nil || !found {
			continue
		}
		if entry.StoredAt.Before(cutoff) {
			if err := gen.Delete(key); err != nil {
				w.logger.Cache().Warn("Cache cleanup delete failed", "key", key, "error", err.Error())
				continue
			}
			pruned++
		}
	}
	return pruned
}
