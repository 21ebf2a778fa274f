package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/imagelabels/internal/domain/port/driven"
)

// CachePurger periodically deletes label cache entries older than the TTL.
type CachePurger struct {
	cache    driven.LabelCache
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewCachePurger creates a purger that removes entries older than ttl every interval.
func NewCachePurger(cache driven.LabelCache, ttl, interval time.Duration) *CachePurger {
	return &CachePurger{
		cache:    cache,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs an immediate purge and then purges on every tick. It blocks
// until the context is cancelled.
func (p *CachePurger) Start(ctx context.Context) {
	if _, err := p.PurgeOnce(ctx); err != nil {
		slog.Error("initial cache purge failed", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cache purger stopped")
			return
		case <-ticker.C:
			if _, err := p.PurgeOnce(ctx); err != nil {
				slog.Error("cache purge failed", "error", err)
			}
		}
	}
}

// PurgeOnce deletes expired entries and returns how many were removed.
func (p *CachePurger) PurgeOnce(ctx context.Context) (int64, error) {
	removed, err := p.cache.DeleteOlderThan(ctx, p.now().Add(-p.ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		slog.Info("expired label cache entries purged", "removed", removed)
	}
	return removed, nil
}
