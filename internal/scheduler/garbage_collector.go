package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favtube/internal/logger"
)

const (
	// DefaultDiscardRatio is the share of stale data a value log file needs
	// before it is rewritten
	DefaultDiscardRatio = 0.5
)

// Collector reclaims space in a store and reports how many files it rewrote.
type Collector interface {
	CollectGarbage(discardRatio float64) (int, error)
}

// GarbageCollector periodically runs the store's value log GC
type GarbageCollector struct {
	collector    Collector
	logger       logger.Logger
	interval     time.Duration
	discardRatio float64
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	collector Collector,
	log logger.Logger,
	interval time.Duration,
	discardRatio float64,
) *GarbageCollector {
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = DefaultDiscardRatio
	}

	return &GarbageCollector{
		collector:    collector,
		logger:       log,
		interval:     interval,
		discardRatio: discardRatio,
		stopCh:       make(chan struct{}),
	}
}

// Start runs one collection, then keeps collecting every interval until
// Stop is called or ctx is done
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if gc.interval <= 0 {
		return fmt.Errorf("garbage collector interval must be > 0, got %v", gc.interval)
	}

	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector. Safe to call more than once.
func (gc *GarbageCollector) Stop() {
	gc.stopOnce.Do(func() { close(gc.stopCh) })
}

// Collect runs a single collection pass
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	rewrites, err := gc.collector.CollectGarbage(gc.discardRatio)
	if err != nil {
		return err
	}

	if rewrites > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("files_rewritten", rewrites),
			logger.Duration("took", time.Since(start)))
	} else {
		gc.logger.Debug("nothing to garbage collect")
	}

	return nil
}
