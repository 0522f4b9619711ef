//go:build wireinject
// +build wireinject

package di

import (
	"ConfluenceBoard/pkg/config"
	"ConfluenceBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Market data pipeline
		ProvideMarketSource,
		ProvideScanner,
		ProvideCachedScanner,

		// Delivery
		ProvideHandler,
		ProvideHub,
		ProvidePublisher,
		ProvideRefresher,

		ProvideApp,
	)
	return &server.App{}, nil
}
