package job

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/honeycarbs/job-portal/internal/domain"
)

type memoryRepo struct {
	mu        sync.Mutex
	jobs      map[string]domain.Job
	seq       int
	searchErr error
	findErr   error
	upsertErr error
	upserts   int
}

func newMemoryRepo(jobs ...domain.Job) *memoryRepo {
	r := &memoryRepo{jobs: make(map[string]domain.Job)}
	_ = r.UpsertJobs(context.Background(), jobs)
	r.upserts = 0
	return r
}

func (r *memoryRepo) UpsertJobs(_ context.Context, jobs []domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++
	for _, j := range jobs {
		if existing, ok := r.jobs[j.ID]; ok {
			j.CreatedAt = existing.CreatedAt
		} else {
			r.seq++
			j.CreatedAt = time.Unix(int64(r.seq), 0)
		}
		r.jobs[j.ID] = j
	}
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return domain.Job{}, r.findErr
	}
	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return j, nil
}

func (r *memoryRepo) Search(_ context.Context, q StoreQuery) ([]domain.Job, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.searchErr != nil {
		return nil, 0, r.searchErr
	}

	var matched []domain.Job
	for _, j := range r.jobs {
		if q.Search != "" && !containsFold(j.Title, q.Search) && !containsFold(j.Company, q.Search) && !containsFold(j.Organization, q.Search) {
			continue
		}
		if q.Location != "" && !containsFold(j.Location, q.Location) {
			continue
		}
		if q.Remote != nil && j.Remote != *q.Remote {
			continue
		}
		matched = append(matched, j)
	}

	sort.Slice(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})

	total := len(matched)
	if q.Offset >= total {
		return []domain.Job{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (r *memoryRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type stubProvider struct {
	mu      sync.Mutex
	jobs    []domain.Job
	err     error
	queries []ProviderQuery
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, q ProviderQuery) ([]domain.Job, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries = append(p.queries, q)
	if p.err != nil {
		return nil, p.err
	}
	return p.jobs, nil
}

func (p *stubProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queries)
}

var errBoom = errors.New("boom")
