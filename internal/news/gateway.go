// Package news serves cached financial headlines with a fixed fallback list.
package news

import (
	"context"
	"time"

	"finance-backend/internal/shared/cache"
	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/telemetry"
)

const (
	DefaultTTL = time.Hour
	cacheKey   = "latest"
)

type cachedNews struct {
	items    []Item
	degraded bool
}

// Gateway is a read-through cache in front of a Provider. One global entry is shared by all users.
type Gateway struct {
	provider Provider
	cache    *cache.TTL[string, cachedNews]
	now      func() time.Time
}

// NewGateway builds a gateway. A nil provider always serves the fallback list.
func NewGateway(provider Provider, ttl time.Duration, now func() time.Time) *Gateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Gateway{provider: provider, cache: cache.NewTTL[string, cachedNews](ttl, now), now: now}
}

// GetNews never fails: provider errors yield the fallback list, which is cached like a real result.
func (g *Gateway) GetNews(ctx context.Context, forceRefresh bool) Result {
	if !forceRefresh {
		if hit, ok := g.cache.Get(cacheKey); ok {
			metrics.IncNewsCache("hit")
			return Result{News: hit.items, Cached: true, Degraded: hit.degraded}
		}
	}
	metrics.IncNewsCache("miss")

	entry := cachedNews{}
	if g.provider != nil {
		items, err := g.provider.Search(ctx)
		if err != nil {
			telemetry.Warn("news.provider.failed", map[string]any{"error": err.Error()})
		} else {
			entry.items = items
		}
	}
	if len(entry.items) == 0 {
		metrics.IncProviderDegraded("search")
		entry = cachedNews{items: Fallback(g.now()), degraded: true}
	}
	g.cache.Set(cacheKey, entry)
	return Result{News: entry.items, Degraded: entry.degraded}
}
