package repository

import (
	"context"

	"ConfluenceBoard/internal/domain/models"
)

// MarketData fetches OHLC bars for one symbol at one timeframe, oldest
// first. An empty slice with nil error means the provider had no data for
// the symbol; callers degrade that slot to the neutral label.
type MarketData interface {
	FetchSeries(ctx context.Context, symbol string, tf Timeframe) ([]models.Bar, error)
}

// Publisher pushes a completed scan report to a downstream sink.
type Publisher interface {
	PublishScan(ctx context.Context, results []models.ConfluenceResult) error
	Close() error
}

// Metrics records operational counters for scans and upstream fetches.
type Metrics interface {
	RecordFetch(provider, symbol string)
	RecordFetchError(provider string)
	RecordCacheHit(kind string)
	RecordScanDuration(seconds float64)
	RecordScanPairs(n int)
}
