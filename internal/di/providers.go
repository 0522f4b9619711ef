package di

import (
	"fmt"

	"ConfluenceBoard/internal/domain/repository"
	"ConfluenceBoard/internal/handler/api"
	"ConfluenceBoard/internal/handler/ws"
	"ConfluenceBoard/internal/service/marketdata"
	"ConfluenceBoard/internal/service/publish"
	"ConfluenceBoard/internal/service/twelvedata"
	"ConfluenceBoard/internal/service/yahoo"
	"ConfluenceBoard/internal/usecase"
	"ConfluenceBoard/pkg/cache"
	"ConfluenceBoard/pkg/config"
	xhttp "ConfluenceBoard/pkg/http"
	pkgkafka "ConfluenceBoard/pkg/kafka"
	applogger "ConfluenceBoard/pkg/logger"
	"ConfluenceBoard/pkg/metrics"
	"ConfluenceBoard/pkg/server"

	"github.com/benbjohnson/clock"
)

// ProvideLogger creates the structured logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend selected in configuration.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memory := cache.NewMemoryCache(cache.WithMaxSize(cfg.Cache.MaxSize))

	switch cfg.Cache.Backend {
	case "memory":
		return memory, nil
	case "redis", "layered":
		remote, err := cache.NewRedisCache(
			cache.WithAddr(cfg.Cache.Redis.Addr),
			cache.WithCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "redis" {
			_ = memory.Close()
			return remote, nil
		}
		return cache.NewLayeredCache(memory, remote), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMarketSource builds the provider chain with the series cache in
// front. Twelve Data joins the chain only when an API key is configured.
func ProvideMarketSource(
	cfg *config.Config,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
) repository.MarketData {
	providers := []marketdata.Provider{
		yahoo.New(cfg.Providers.Yahoo.BaseURL, cfg.Providers.Yahoo.Timeout),
	}
	if td := twelvedata.New(cfg.Providers.TwelveData.APIKey, cfg.Providers.TwelveData.BaseURL, cfg.Providers.TwelveData.Timeout); td.Enabled() {
		providers = append(providers, td)
	}

	chain := marketdata.NewChainSource(providers, cfg.Providers.RetryMax, cfg.Providers.RetryInterval, m, logger)
	return marketdata.NewCachedSource(chain, cacheSvc, cfg.Scan.SeriesTTL, clock.New(), m)
}

// ProvideScanner creates the confluence scanner over the configured pairs.
func ProvideScanner(
	cfg *config.Config,
	source repository.MarketData,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.ConfluenceScanner {
	return usecase.NewConfluenceScanner(source, cfg.Pairs, cfg.Scan.Concurrency, cfg.Scan.SymbolTimeout, m, logger)
}

// ProvideCachedScanner wraps the scanner with the response cache.
func ProvideCachedScanner(
	scanner *usecase.ConfluenceScanner,
	cacheSvc cache.Service,
	cfg *config.Config,
	m repository.Metrics,
) *usecase.CachedScanner {
	return usecase.NewCachedScanner(scanner, cacheSvc, cfg.Scan.ResponseTTL, m)
}

// ProvidePublisher creates the Kafka scan publisher, or a no-op when
// publication is disabled.
func ProvidePublisher(cfg *config.Config, logger *applogger.Logger) (repository.Publisher, error) {
	if !cfg.Publish.Enabled {
		return publish.NoopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Publish.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Publish.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Publish.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Publish.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Publish.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return publish.NewKafkaPublisher(producer, cfg.Publish.Kafka.Topic, logger), nil
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(logger *applogger.Logger) *ws.Hub {
	return ws.NewHub(logger)
}

// ProvideRefresher creates the background refresher. It scans through the
// raw scanner so every refresh recomputes, then primes the response cache.
func ProvideRefresher(
	scanner *usecase.ConfluenceScanner,
	store *usecase.CachedScanner,
	hub *ws.Hub,
	pub repository.Publisher,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.Refresher {
	return usecase.NewRefresher(scanner, store, hub, pub, cfg.Scan.RefreshCron, cfg.Scan.SymbolTimeout*4, logger)
}

// ProvideHandler creates the HTTP handler serving from the response cache.
func ProvideHandler(logger *applogger.Logger, scanner *usecase.CachedScanner) xhttp.Handler {
	return api.NewConfluenceHandler(logger, scanner)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	hub *ws.Hub,
	refresher *usecase.Refresher,
	pub repository.Publisher,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, logger, handler, hub, refresher, pub, cacheSvc)
}
