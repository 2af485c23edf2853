package job

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// ListResult is a page of jobs and the tier that produced it
type ListResult struct {
	Jobs       []domain.Job
	Pagination domain.Pagination
	Source     domain.Source
}

// GetResult is a single job and the tier that produced it
type GetResult struct {
	Job    domain.Job
	Source domain.Source
}

// Resolver answers list and lookup requests from the first tier that has data:
// the store, then the provider, then the static mock listing.
type Resolver struct {
	svc      Service
	provider Provider
	mock     []domain.Job
	logger   *logging.Logger

	saves sync.WaitGroup
}

// NewResolver builds a Resolver. svc is nil when no store is connected and
// provider is nil when no API key is configured.
func NewResolver(svc Service, provider Provider, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{
		svc:      svc,
		provider: provider,
		mock:     MockJobs(),
		logger:   logger,
	}
}

// HasStore reports whether the store tier is available
func (r *Resolver) HasStore() bool {
	return r.svc != nil
}

// HasProvider reports whether the provider tier is available
func (r *Resolver) HasProvider() bool {
	return r.provider != nil
}

// List resolves a filtered page of jobs. Only a provider failure is returned
// as an error; store failures fall through to the next tier.
func (r *Resolver) List(ctx context.Context, filter domain.JobFilter) (ListResult, error) {
	f := filter.Normalize()

	if r.svc != nil {
		res, ok := r.listFromStore(ctx, f)
		if ok {
			return res, nil
		}
	}

	if r.provider != nil {
		jobs, err := r.provider.Search(ctx, ProviderQuery{
			Search:   f.Search,
			Location: f.Location,
			Remote:   f.Remote,
			Limit:    f.Limit,
			Offset:   f.Offset(),
		})
		if err != nil {
			r.logger.Error("fetching jobs from provider failed", "provider", r.provider.Name(), "err", err)
			return ListResult{}, err
		}

		if r.svc != nil && len(jobs) > 0 {
			r.saveInBackground(ctx, jobs)
		}

		return ListResult{
			Jobs:       jobs,
			Pagination: domain.NewPagination(f.Page, f.Limit, len(jobs)),
			Source:     domain.SourceRapidAPI,
		}, nil
	}

	matched := filterMock(r.mock, f.Search)
	return ListResult{
		Jobs:       page(matched, f),
		Pagination: domain.NewPagination(f.Page, f.Limit, len(matched)),
		Source:     domain.SourceMock,
	}, nil
}

func (r *Resolver) listFromStore(ctx context.Context, f domain.JobFilter) (ListResult, bool) {
	res, err := r.svc.List(ctx, f)
	if err != nil {
		r.logger.Warn("database error, falling back to provider", "err", err)
		return ListResult{}, false
	}
	if len(res.Jobs) > 0 {
		return ListResult{Jobs: res.Jobs, Pagination: res.Pagination, Source: domain.SourceDatabase}, true
	}

	if r.provider == nil {
		return ListResult{}, false
	}

	r.logger.Info("database empty, syncing from provider", "search", f.Search, "location", f.Location)
	synced, err := r.svc.Sync(ctx, f)
	if err != nil {
		r.logger.Warn("sync failed, falling back to provider", "err", err)
		return ListResult{}, false
	}
	if len(synced) == 0 {
		return ListResult{}, false
	}

	res, err = r.svc.List(ctx, f)
	if err != nil {
		r.logger.Warn("database error after sync, falling back to provider", "err", err)
		return ListResult{}, false
	}
	if len(res.Jobs) == 0 {
		return ListResult{}, false
	}

	return ListResult{Jobs: res.Jobs, Pagination: res.Pagination, Source: domain.SourceDatabaseSynced}, true
}

// Get resolves one job by id. It returns domain.ErrNotFound when no tier has it,
// including when the provider call itself fails.
func (r *Resolver) Get(ctx context.Context, id string) (GetResult, error) {
	if r.svc != nil {
		j, err := r.svc.Get(ctx, id)
		switch {
		case err == nil:
			return GetResult{Job: j, Source: domain.SourceDatabase}, nil
		case !errors.Is(err, domain.ErrNotFound):
			r.logger.Warn("database error, falling back to provider", "id", id, "err", err)
		}
	}

	if r.provider != nil {
		jobs, err := r.provider.Search(ctx, ProviderQuery{Limit: SyncBatchSize})
		if err != nil {
			r.logger.Error("fetching job from provider failed", "id", id, "err", err)
			return GetResult{}, fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}

		for _, j := range jobs {
			if j.ID != id && j.JobID != id {
				continue
			}
			if r.svc != nil {
				r.saveInBackground(ctx, []domain.Job{j})
			}
			return GetResult{Job: j, Source: domain.SourceRapidAPI}, nil
		}
	}

	for _, j := range r.mock {
		if j.ID == id {
			return GetResult{Job: j, Source: domain.SourceMock}, nil
		}
	}

	return GetResult{}, domain.ErrNotFound
}

// Wait blocks until in-flight background saves finish or ctx is done
func (r *Resolver) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.saves.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// saveInBackground persists jobs without blocking the response. Failures are only logged.
func (r *Resolver) saveInBackground(ctx context.Context, jobs []domain.Job) {
	ctx = context.WithoutCancel(ctx)

	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		if err := r.svc.SaveJobs(ctx, jobs); err != nil {
			r.logger.Error("saving jobs to database failed", "count", len(jobs), "err", err)
		}
	}()
}

func page(jobs []domain.Job, f domain.JobFilter) []domain.Job {
	start := f.Offset()
	if start < 0 || start >= len(jobs) {
		return []domain.Job{}
	}
	end := start + f.Limit
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end]
}
