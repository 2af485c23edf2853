package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

const (
	// SyncBatchSize is the number of postings fetched per sync
	SyncBatchSize = 100

	defaultSource = "rapidapi"
)

// Service mediates between the provider and the store
type Service interface {
	List(ctx context.Context, filter domain.JobFilter) (domain.JobPage, error)
	Get(ctx context.Context, id string) (domain.Job, error)
	SaveJob(ctx context.Context, j domain.Job) error
	SaveJobs(ctx context.Context, jobs []domain.Job) error
	Sync(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	provider Provider
	repo     Repository
	clock    func() time.Time
	logger   *logging.Logger
}

// WithProvider sets the provider used by Sync
func WithProvider(p Provider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:  time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}

	return &service{
		provider: cfg.provider,
		repo:     cfg.repo,
		clock:    cfg.clock,
		logger:   cfg.logger,
	}, nil
}

type service struct {
	provider Provider
	repo     Repository
	clock    func() time.Time
	logger   *logging.Logger
}

// List reads one page of stored jobs matching the filter
func (s *service) List(ctx context.Context, filter domain.JobFilter) (domain.JobPage, error) {
	f := filter.Normalize()

	jobs, total, err := s.repo.Search(ctx, StoreQuery{
		Search:   strings.TrimSpace(f.Search),
		Location: strings.TrimSpace(f.Location),
		Remote:   f.Remote,
		Offset:   f.Offset(),
		Limit:    f.Limit,
	})
	if err != nil {
		s.logger.Error("fetching jobs from database failed", "err", err)
		return domain.JobPage{}, fmt.Errorf("list jobs: %w", err)
	}

	return domain.JobPage{
		Jobs:       jobs,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

// Get loads one stored job
func (s *service) Get(ctx context.Context, id string) (domain.Job, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Job{}, err
		}
		s.logger.Error("fetching job from database failed", "id", id, "err", err)
		return domain.Job{}, fmt.Errorf("get job %q: %w", id, err)
	}
	return j, nil
}

// SaveJob upserts a single job
func (s *service) SaveJob(ctx context.Context, j domain.Job) error {
	return s.SaveJobs(ctx, []domain.Job{j})
}

// SaveJobs upserts jobs by ID, resolving synonym and derived fields first
func (s *service) SaveJobs(ctx context.Context, jobs []domain.Job) error {
	now := s.clock().UTC()

	batch := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID == "" {
			s.logger.Warn("skipping job without id", "title", j.Title)
			continue
		}
		batch = append(batch, Normalize(j, now))
	}

	if len(batch) == 0 {
		return nil
	}

	if err := s.repo.UpsertJobs(ctx, batch); err != nil {
		s.logger.Error("saving jobs failed", "count", len(batch), "err", err)
		return fmt.Errorf("save jobs: %w", err)
	}

	s.logger.Info("saved jobs to database", "count", len(batch))
	return nil
}

// Sync fetches one provider batch and persists it
func (s *service) Sync(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if s.provider == nil {
		s.logger.Warn("provider not configured, cannot sync jobs")
		return []domain.Job{}, nil
	}

	jobs, err := s.provider.Search(ctx, ProviderQuery{
		Search:   strings.TrimSpace(filter.Search),
		Location: strings.TrimSpace(filter.Location),
		Remote:   filter.Remote,
		Limit:    SyncBatchSize,
		Offset:   0,
	})
	if err != nil {
		s.logger.Error("syncing jobs from provider failed", "provider", s.provider.Name(), "err", err)
		return nil, fmt.Errorf("sync jobs: %w", err)
	}

	if len(jobs) > 0 {
		if err := s.SaveJobs(ctx, jobs); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

// Normalize resolves company/organization synonyms, the derived remote flag
// and defaults applied before a job is stored.
func Normalize(j domain.Job, now time.Time) domain.Job {
	if j.Company == "" {
		j.Company = j.Organization
	}
	if j.Organization == "" {
		j.Organization = j.Company
	}

	j.Remote = j.Remote || strings.Contains(strings.ToLower(j.Location), "remote")

	if j.PostedDate.IsZero() {
		j.PostedDate = now
	}
	if j.Source == "" {
		j.Source = defaultSource
	}

	return j
}

var _ Service = (*service)(nil)
