//go:build wireinject
// +build wireinject

package di

import (
	"StockSight/pkg/config"
	"StockSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Model and data
		ProvideModel,
		ProvideFeatureParser,
		ProvideCSVSeries,
		ProvideSeriesSnapshot,
		ProvideSeriesSource,
		ProvideJournal,
		ProvideJournalPort,

		// Use cases
		ProvidePredictor,
		ProvideDashboard,

		// HTTP
		ProvideRateLimiter,
		ProvideRenderer,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
