package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-portal/internal/domain"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository, provider Provider) Service {
	t.Helper()

	opts := []Option{
		WithRepository(repo),
		WithClock(func() time.Time { return fixedNow }),
	}
	if provider != nil {
		opts = append(opts, WithProvider(provider))
	}

	svc, err := NewService(opts...)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService()
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Run("company falls back to organization", func(t *testing.T) {
		j := Normalize(domain.Job{ID: "1", Organization: "Acme"}, fixedNow)
		assert.Equal(t, "Acme", j.Company)
		assert.Equal(t, "Acme", j.Organization)
	})

	t.Run("organization falls back to company", func(t *testing.T) {
		j := Normalize(domain.Job{ID: "1", Company: "Globex"}, fixedNow)
		assert.Equal(t, "Globex", j.Organization)
	})

	t.Run("remote derived from location", func(t *testing.T) {
		j := Normalize(domain.Job{ID: "1", Location: "Fully REMOTE (EU)"}, fixedNow)
		assert.True(t, j.Remote)
	})

	t.Run("explicit remote kept", func(t *testing.T) {
		j := Normalize(domain.Job{ID: "1", Location: "Paris", Remote: true}, fixedNow)
		assert.True(t, j.Remote)
	})

	t.Run("defaults", func(t *testing.T) {
		j := Normalize(domain.Job{ID: "1", Location: "Paris"}, fixedNow)
		assert.False(t, j.Remote)
		assert.Equal(t, fixedNow, j.PostedDate)
		assert.Equal(t, "rapidapi", j.Source)
	})
}

func TestSaveJobsUpsertsByID(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.SaveJobs(ctx, []domain.Job{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
		{Title: "no id"},
	}))
	require.NoError(t, svc.SaveJob(ctx, domain.Job{ID: "a", Title: "First (updated)"}))

	assert.Equal(t, 2, repo.len())

	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "First (updated)", got.Title)
}

func TestSaveJobsPropagatesError(t *testing.T) {
	repo := newMemoryRepo()
	repo.upsertErr = errBoom
	svc := newTestService(t, repo, nil)

	err := svc.SaveJobs(context.Background(), []domain.Job{{ID: "a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
}

func TestListFiltersAndPaginates(t *testing.T) {
	var jobs []domain.Job
	for i := 0; i < 25; i++ {
		jobs = append(jobs, domain.Job{ID: string(rune('a' + i)), Title: "Go Engineer", Company: "Acme", Location: "Berlin"})
	}
	jobs = append(jobs, domain.Job{ID: "z1", Title: "Designer", Organization: "Studio", Location: "Remote"})

	repo := newMemoryRepo(jobs...)
	svc := newTestService(t, repo, nil)

	page, err := svc.List(context.Background(), domain.JobFilter{Search: "engineer", Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Jobs, 5)
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3}, page.Pagination)

	page, err = svc.List(context.Background(), domain.JobFilter{Search: "studio", Limit: 1000})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, 100, page.Pagination.Limit)

	remote := true
	page, err = svc.List(context.Background(), domain.JobFilter{Remote: &remote})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.Total, "remote flag is only derived on save")
}

func TestListReturnsNewestFirst(t *testing.T) {
	repo := newMemoryRepo(domain.Job{ID: "old", Title: "Old"}, domain.Job{ID: "new", Title: "New"})
	svc := newTestService(t, repo, nil)

	page, err := svc.List(context.Background(), domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, "new", page.Jobs[0].ID)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t, newMemoryRepo(), nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSyncFetchesBatchAndPersists(t *testing.T) {
	provider := &stubProvider{jobs: []domain.Job{
		{ID: "1", Title: "Go Dev", Organization: "Acme", Location: "Remote"},
		{ID: "2", Title: "SRE", Company: "Globex"},
	}}
	repo := newMemoryRepo()
	svc := newTestService(t, repo, provider)

	got, err := svc.Sync(context.Background(), domain.JobFilter{Search: " go ", Location: "US", Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, repo.len())

	require.Len(t, provider.queries, 1)
	assert.Equal(t, ProviderQuery{Search: "go", Location: "US", Limit: SyncBatchSize, Offset: 0}, provider.queries[0])

	stored, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Company)
	assert.True(t, stored.Remote)
}

func TestSyncWithoutProvider(t *testing.T) {
	svc := newTestService(t, newMemoryRepo(), nil)

	got, err := svc.Sync(context.Background(), domain.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSyncProviderError(t *testing.T) {
	provider := &stubProvider{err: errBoom}
	svc := newTestService(t, newMemoryRepo(), provider)

	_, err := svc.Sync(context.Background(), domain.JobFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
}
