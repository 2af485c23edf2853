package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/job-portal/internal/domain"
)

// ProviderQuery is a provider-side search request
type ProviderQuery struct {
	Search   string
	Location string
	Remote   *bool
	Limit    int
	Offset   int
}

// Provider represents an external job data source
type Provider interface {
	// e.g. "rapidapi"
	Name() string

	// Search returns normalized jobs for a query
	Search(ctx context.Context, q ProviderQuery) ([]domain.Job, error)
}

// ProviderError carries the upstream status and body of a failed provider call
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.StatusCode, strings.TrimSpace(string(e.Body)))
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
