// Package scheduler runs the periodic provider sync on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// Syncer pulls one batch from the provider into the store
type Syncer interface {
	Sync(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
}

// Scheduler wraps robfig/cron and manages the sync loop.
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer
	filter domain.JobFilter
	spec   string // cron spec, e.g. "@every 6h"
	logger *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New creates a Scheduler that syncs filter every interval.
func New(syncer Syncer, interval time.Duration, filter domain.JobFilter, logger *logging.Logger) (*Scheduler, error) {
	if syncer == nil {
		return nil, fmt.Errorf("scheduler: syncer is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		syncer: syncer,
		filter: filter,
		spec:   "@every " + interval.String(),
		logger: logger.Named("scheduler"),
	}, nil
}

// Start registers the job and starts the scheduler. Also runs one sync
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("cron started", "spec", s.spec)

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// RunOnce performs a single sync cycle
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	s.logger.Info("sync cycle started", "search", s.filter.Search, "location", s.filter.Location)

	jobs, err := s.syncer.Sync(ctx, s.filter)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		s.logger.Error("sync cycle failed", "err", err)
		return
	}

	syncRuns.WithLabelValues("ok").Inc()
	syncedJobs.Add(float64(len(jobs)))
	s.logger.Info("sync cycle complete", "count", len(jobs), "took", time.Since(start))
}

// Shutdown stops the cron and waits for a running cycle to finish or ctx to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-stopCtx.Done()
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("cron stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}
