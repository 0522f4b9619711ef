package marketdata

import (
	"context"
	"fmt"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/pkg/cache"

	"github.com/benbjohnson/clock"
)

// CachedSource puts a short-TTL cache in front of a MarketData source,
// keyed by symbol, timeframe, and the current time bucket. Staleness
// within the TTL is acceptable; there is no strong consistency requirement.
type CachedSource struct {
	next    domrepo.MarketData
	cache   cache.Service
	ttl     time.Duration
	clock   clock.Clock
	metrics domrepo.Metrics
}

// NewCachedSource wraps next with a series cache.
func NewCachedSource(next domrepo.MarketData, c cache.Service, ttl time.Duration, clk clock.Clock, metrics domrepo.Metrics) *CachedSource {
	if clk == nil {
		clk = clock.New()
	}
	return &CachedSource{
		next:    next,
		cache:   c,
		ttl:     ttl,
		clock:   clk,
		metrics: metrics,
	}
}

func (s *CachedSource) FetchSeries(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	key := s.key(symbol, tf)

	var bars []models.Bar
	if err := s.cache.Get(ctx, key, &bars); err == nil {
		if s.metrics != nil {
			s.metrics.RecordCacheHit("series")
		}
		return bars, nil
	}

	bars, err := s.next.FetchSeries(ctx, symbol, tf)
	if err != nil {
		return nil, err
	}

	// cache empty series too, so a dead symbol doesn't hammer upstream
	_ = s.cache.Set(ctx, key, bars, s.ttl)
	return bars, nil
}

func (s *CachedSource) key(symbol string, tf domrepo.Timeframe) string {
	// sub-second TTLs floor to one-second buckets
	secs := int64(s.ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	bucket := s.clock.Now().Unix() / secs
	return fmt.Sprintf("series:%s:%s:%d", symbol, tf, bucket)
}
