//go:build wireinject
// +build wireinject

package di

import (
	"SwingPull/pkg/config"
	"SwingPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Upstream and caching
		ProvideQuoteCache,
		ProvideQuoteProvider,

		// Domain services
		ProvideScoringEngine,
		ProvideMacroService,
		ProvideSnapshotCache,

		// Fan-out
		ProvideWSHub,
		ProvideSnapshotPublisher,

		// Use cases
		ProvideRefresher,
		ProvideExporter,
		ProvideMailer,
		ProvideDashboardJob,

		// Delivery
		ProvideDashboardHandler,
		ProvideScheduler,

		ProvideApp,
	)
	return &server.App{}, nil
}
