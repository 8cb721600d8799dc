package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// refreshKey deduplicates concurrent refreshes of one Indexer.
const refreshKey = "provisioned_items"

// Refresh reloads every provisioned resource and rebuilds the index.
// Concurrent calls share one reload. A failed reload keeps the previous
// content.
func (idx *Indexer) Refresh(ctx context.Context) error {
	if idx.config != nil && idx.config.ResourceIndexRefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, idx.config.ResourceIndexRefreshTimeout)
		defer cancel()
	}

	_, err, _ := idx.group.Do(refreshKey, func() (any, error) {
		return nil, idx.doRefresh(ctx)
	})
	return err
}

// RefreshIfStale refreshes when the index was never loaded, was invalidated,
// or is older than the configured TTL.
func (idx *Indexer) RefreshIfStale(ctx context.Context) error {
	idx.mu.RLock()
	lastSync, stale := idx.lastSyncAt, idx.stale
	idx.mu.RUnlock()

	var ttl time.Duration
	if idx.config != nil {
		ttl = idx.config.ResourceIndexTTL
	}
	if lastSync.IsZero() || stale || time.Since(lastSync) > ttl {
		return idx.Refresh(ctx)
	}
	return nil
}

// StartBackgroundRefresh starts a goroutine that refreshes the index every
// ResourceIndexRefreshInterval until ctx is done. A zero interval disables it.
func (idx *Indexer) StartBackgroundRefresh(ctx context.Context) {
	if idx.config == nil || idx.config.ResourceIndexRefreshInterval <= 0 {
		return
	}
	interval := idx.config.ResourceIndexRefreshInterval

	slog.Info("starting background refresh of provisioned resources",
		slog.Duration("interval", interval),
	)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping background refresh")
				return
			case <-ticker.C:
				if err := idx.Refresh(ctx); err != nil {
					slog.Warn("background refresh failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// doRefresh performs the actual refresh logic.
func (idx *Indexer) doRefresh(ctx context.Context) error {
	start := time.Now()

	idx.mu.RLock()
	generation := idx.generation
	idx.mu.RUnlock()

	resources, err := idx.lister.ProvisionedItems(ctx)
	if err != nil {
		return fmt.Errorf("refreshing resource index: %w", err)
	}

	idx.mu.Lock()
	idx.reset(resources)
	idx.lastSyncAt = time.Now()
	idx.stale = idx.generation != generation
	idx.mu.Unlock()

	slog.Debug("resource index refreshed",
		slog.Int("resources", len(resources)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
