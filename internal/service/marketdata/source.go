package marketdata

import (
	"context"
	"fmt"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	applogger "ConfluenceBoard/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

// Provider is one upstream OHLC source.
type Provider interface {
	Name() string
	FetchSeries(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error)
}

// ChainSource tries providers in order until one returns data, retrying
// transient failures per provider with capped exponential backoff. It
// implements repository.MarketData.
type ChainSource struct {
	providers     []Provider
	retryMax      uint64
	retryInterval time.Duration
	metrics       domrepo.Metrics
	logger        *applogger.Logger
}

// NewChainSource builds a provider chain.
func NewChainSource(providers []Provider, retryMax int, retryInterval time.Duration, metrics domrepo.Metrics, logger *applogger.Logger) *ChainSource {
	if retryMax < 0 {
		retryMax = 0
	}
	return &ChainSource{
		providers:     providers,
		retryMax:      uint64(retryMax),
		retryInterval: retryInterval,
		metrics:       metrics,
		logger:        logger,
	}
}

// FetchSeries walks the chain. A provider that errors out or returns an
// empty series hands over to the next one; only when every provider comes
// back empty-handed does the caller see an error.
func (s *ChainSource) FetchSeries(ctx context.Context, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	var lastErr error

	for _, p := range s.providers {
		bars, err := s.fetchWithRetry(ctx, p, symbol, tf)
		if s.metrics != nil {
			s.metrics.RecordFetch(p.Name(), symbol)
		}
		if err != nil {
			lastErr = err
			if s.metrics != nil {
				s.metrics.RecordFetchError(p.Name())
			}
			if s.logger != nil {
				s.logger.Warn("provider fetch failed",
					applogger.String("provider", p.Name()),
					applogger.String("symbol", symbol),
					applogger.String("timeframe", string(tf)),
					applogger.Error(err),
				)
			}
			continue
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all providers failed for %s %s: %w", symbol, tf, lastErr)
	}
	return nil, nil
}

func (s *ChainSource) fetchWithRetry(ctx context.Context, p Provider, symbol string, tf domrepo.Timeframe) ([]models.Bar, error) {
	var bars []models.Bar

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInterval
	bo.MaxElapsedTime = 0 // bounded by retry count and ctx, not wall time

	op := func() error {
		var err error
		bars, err = p.FetchSeries(ctx, symbol, tf)
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.retryMax), ctx))
	if err != nil {
		return nil, err
	}
	return bars, nil
}
