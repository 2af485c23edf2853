package job

import (
	"context"

	"github.com/honeycarbs/job-portal/internal/domain"
)

// StoreQuery is a filtered, paginated store read
type StoreQuery struct {
	Search   string
	Location string
	Remote   *bool
	Offset   int
	Limit    int
}

// Repository persists and loads jobs from storage
type Repository interface {
	// UpsertJobs creates or updates jobs keyed by ID
	UpsertJobs(ctx context.Context, jobs []domain.Job) error

	// FindByID returns domain.ErrNotFound when no job has the id
	FindByID(ctx context.Context, id string) (domain.Job, error)

	// Search returns one page of matches, newest first, and the total match count
	Search(ctx context.Context, q StoreQuery) ([]domain.Job, int, error)
}
