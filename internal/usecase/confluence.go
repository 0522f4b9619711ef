package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/internal/service/trend"
	"ConfluenceBoard/pkg/config"
	applogger "ConfluenceBoard/pkg/logger"
)

// ConfluenceScanner computes the confluence table for the configured pair
// universe. Fetches for independent symbols fan out concurrently under a
// semaphore; results are joined back into configuration order.
type ConfluenceScanner struct {
	source        domrepo.MarketData
	pairs         []config.Pair
	concurrency   int
	symbolTimeout time.Duration
	metrics       domrepo.Metrics
	logger        *applogger.Logger
}

// NewConfluenceScanner creates a scanner over the given pair universe.
func NewConfluenceScanner(
	source domrepo.MarketData,
	pairs []config.Pair,
	concurrency int,
	symbolTimeout time.Duration,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *ConfluenceScanner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ConfluenceScanner{
		source:        source,
		pairs:         pairs,
		concurrency:   concurrency,
		symbolTimeout: symbolTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

// Scan fetches and classifies every pair across the fixed timeframe set.
// A failed fetch degrades that slot to neutral; only when every fetch in
// the whole scan errored does Scan return an error (total upstream
// unavailability).
func (s *ConfluenceScanner) Scan(ctx context.Context) ([]models.ConfluenceResult, error) {
	start := time.Now()
	results := make([]models.ConfluenceResult, len(s.pairs))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		fetches int
		failed  int
	)
	sem := make(chan struct{}, s.concurrency)

	for i, p := range s.pairs {
		wg.Add(1)
		go func(i int, p config.Pair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, nFetches, nFailed := s.scanSymbol(ctx, p)
			results[i] = res

			mu.Lock()
			fetches += nFetches
			failed += nFailed
			mu.Unlock()
		}(i, p)
	}
	wg.Wait()

	if s.metrics != nil {
		s.metrics.RecordScanDuration(time.Since(start).Seconds())
		s.metrics.RecordScanPairs(len(results))
	}

	if fetches > 0 && failed == fetches {
		return nil, fmt.Errorf("market data unavailable: all %d fetches failed", fetches)
	}

	if s.logger != nil {
		s.logger.Info("scan complete",
			applogger.Int("pairs", len(results)),
			applogger.Int("failed_fetches", failed),
			applogger.Duration("elapsed_ms", time.Since(start)),
		)
	}

	return results, nil
}

// scanSymbol fetches the four timeframes for one pair sequentially under a
// per-symbol deadline, so one stuck symbol cannot stall the whole scan.
func (s *ConfluenceScanner) scanSymbol(ctx context.Context, p config.Pair) (models.ConfluenceResult, int, int) {
	symCtx := ctx
	if s.symbolTimeout > 0 {
		var cancel context.CancelFunc
		symCtx, cancel = context.WithTimeout(ctx, s.symbolTimeout)
		defer cancel()
	}

	labels := make(map[domrepo.Timeframe]models.TrendLabel, 4)
	cells := make(map[string]string, 4)
	var fetches, failed int

	for _, tf := range domrepo.Timeframes() {
		fetches++
		bars, err := s.source.FetchSeries(symCtx, p.Symbol, tf)
		if err != nil {
			failed++
			if s.logger != nil {
				s.logger.Warn("series fetch failed, slot degraded to neutral",
					applogger.String("symbol", p.Symbol),
					applogger.String("timeframe", string(tf)),
					applogger.Error(err),
				)
			}
			bars = nil
		}
		analysis := trend.Classify(bars)
		labels[tf] = analysis.Label
		cells[string(tf)] = analysis.Cell()
	}

	percent, summary := Aggregate(labels)

	return models.ConfluenceResult{
		Pair:              p.Pair,
		Symbol:            p.Symbol,
		Confluence:        cells,
		ConfluencePercent: percent,
		Summary:           summary,
	}, fetches, failed
}
