package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// Reloadable is a catalog that can re-read its backing data.
type Reloadable interface {
	Reload(ctx context.Context) error
}

// CacheFlusher drops cached catalog responses after a reload.
type CacheFlusher interface {
	FlushCache(ctx context.Context) error
}

// CatalogReloader periodically reloads the mock catalog, and on demand
// through the manual trigger channel.
type CatalogReloader struct {
	catalog       Reloadable
	cache         CacheFlusher // optional
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. cache may be nil.
func NewCatalogReloader(
	catalog Reloadable,
	cache CacheFlusher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		catalog:       catalog,
		cache:         cache,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, then keeps reloading in the background
func (cr *CatalogReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.reloadAndLog(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				cr.reloadAndLog(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. Safe to call more than once.
func (cr *CatalogReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
}

// Reload re-reads the catalog and drops stale cached responses
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	if err := cr.catalog.Reload(ctx); err != nil {
		return err
	}

	// Cache cleanup is best effort, the catalog itself is already fresh
	if cr.cache != nil {
		if err := cr.cache.FlushCache(ctx); err != nil {
			cr.logger.Warn("failed to flush catalog cache after reload",
				logger.Error(err))
		}
	}
	return nil
}

func (cr *CatalogReloader) reloadAndLog(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload catalog, keeping previous data",
			logger.Error(err))
	}
}
