package usecase

import (
	"context"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/pkg/cache"
)

const responseCacheKey = "scan:latest"

// Scanner produces a full confluence table.
type Scanner interface {
	Scan(ctx context.Context) ([]models.ConfluenceResult, error)
}

// CachedScanner serves the last successful scan from a short-TTL response
// cache. Errors are never cached; a failed refresh falls through to the
// caller so total-outage reporting still works.
type CachedScanner struct {
	next    Scanner
	cache   cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
}

// NewCachedScanner wraps next with a response cache.
func NewCachedScanner(next Scanner, c cache.Service, ttl time.Duration, metrics domrepo.Metrics) *CachedScanner {
	return &CachedScanner{next: next, cache: c, ttl: ttl, metrics: metrics}
}

func (c *CachedScanner) Scan(ctx context.Context) ([]models.ConfluenceResult, error) {
	var cached []models.ConfluenceResult
	if err := c.cache.Get(ctx, responseCacheKey, &cached); err == nil {
		if c.metrics != nil {
			c.metrics.RecordCacheHit("response")
		}
		return cached, nil
	}

	results, err := c.next.Scan(ctx)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, responseCacheKey, results, c.ttl)
	return results, nil
}

// Invalidate drops the cached response, forcing the next Scan through.
func (c *CachedScanner) Invalidate(ctx context.Context) {
	_ = c.cache.Delete(ctx, responseCacheKey)
}

// Store replaces the cached response, used by the background refresher to
// publish a freshly computed table.
func (c *CachedScanner) Store(ctx context.Context, results []models.ConfluenceResult) {
	_ = c.cache.Set(ctx, responseCacheKey, results, c.ttl)
}
