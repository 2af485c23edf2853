// Package app assembles the job portal runtime from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/honeycarbs/job-portal/internal/config"
	"github.com/honeycarbs/job-portal/internal/domain/job"
	"github.com/honeycarbs/job-portal/internal/scheduler"
	"github.com/honeycarbs/job-portal/internal/server"
	"github.com/honeycarbs/job-portal/pkg/logging"
	"github.com/honeycarbs/job-portal/pkg/shutdown"
)

// App is the assembled server with its optional background sync
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Server    *server.Server
	Resolver  *job.Resolver
	Scheduler *scheduler.Scheduler // nil when scheduled sync is disabled
}

func newApp(
	cfg config.Config,
	logger *logging.Logger,
	srv *server.Server,
	resolver *job.Resolver,
	sched *scheduler.Scheduler,
) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Server:    srv,
		Resolver:  resolver,
		Scheduler: sched,
	}
}

// Run starts the scheduler, if any, and serves HTTP until the server is shut down
func (a *App) Run(ctx context.Context) error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	a.Logger.Info("job portal starting", "addr", a.Server.Addr())
	return a.Server.Run()
}

// Stoppables lists what graceful shutdown stops, in order: the listener first,
// then the sync loop, then background saves still writing to the store.
func (a *App) Stoppables() []shutdown.Stoppable {
	stops := []shutdown.Stoppable{a.Server}
	if a.Scheduler != nil {
		stops = append(stops, a.Scheduler)
	}
	stops = append(stops, shutdown.StopFunc(a.Resolver.Wait))
	return stops
}
