//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/job-portal/internal/config"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// InitializeApp builds the App. The returned cleanup closes store and cache
// connections and must run after the App has been stopped.
func InitializeApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		// Infrastructure
		provideStore,
		provideUpstream,
		provideSheetsExporter,

		// Domain
		provideService,
		provideResolver,
		provideScheduler,

		// Transport
		provideMCPServer,
		provideHTTPServer,

		newApp,
	)

	return nil, nil, nil
}
