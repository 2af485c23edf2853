package rapidapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/honeycarbs/job-portal/internal/domain"
	jobdomain "github.com/honeycarbs/job-portal/internal/domain/job"
	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

const providerName = "rapidapi"

// SearchClient describes the subset of the RapidAPI client used by the provider.
type SearchClient interface {
	Search(ctx context.Context, params rapidapi.SearchParams) ([]rapidapi.Posting, error)
}

// Provider implements job.Provider using the active-jobs-db API
type Provider struct {
	client SearchClient
}

// NewProvider builds a RapidAPI provider
func NewProvider(client SearchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("rapidapi provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return providerName
}

// Search queries active-jobs-db and returns normalized jobs
func (p *Provider) Search(ctx context.Context, q jobdomain.ProviderQuery) ([]domain.Job, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("rapidapi provider: client is nil")
	}

	postings, err := p.client.Search(ctx, rapidapi.SearchParams{
		Title:    q.Search,
		Location: q.Location,
		Remote:   q.Remote,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		perr := &jobdomain.ProviderError{Provider: providerName, Err: err}
		var apiErr *rapidapi.APIError
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.StatusCode
			perr.Body = apiErr.Body
		}
		return nil, perr
	}

	out := make([]domain.Job, 0, len(postings))
	for _, posting := range postings {
		out = append(out, toJob(posting))
	}
	return out, nil
}

var _ jobdomain.Provider = (*Provider)(nil)

func toJob(p rapidapi.Posting) domain.Job {
	j := domain.Job{
		ID:             p.ID,
		JobID:          p.JobID,
		Title:          p.Title,
		Company:        p.Company,
		Organization:   p.Organization,
		Location:       p.Location,
		Description:    p.Description,
		Salary:         p.Salary,
		SalaryMin:      p.SalaryMin,
		SalaryMax:      p.SalaryMax,
		Currency:       p.Currency,
		Remote:         p.RemoteDerived,
		JobType:        p.JobType,
		ApplicationURL: p.ApplicationURL,
		Source:         p.Source,
		Raw:            p.Raw,
	}

	if j.Location == "" && len(p.LocationsDerived) > 0 {
		j.Location = p.LocationsDerived[0]
	}
	if p.Remote != nil {
		j.Remote = *p.Remote || p.RemoteDerived
	}
	if j.ApplicationURL == "" {
		j.ApplicationURL = p.URL
	}

	if s := p.SalaryRaw; s != nil {
		if j.Currency == "" {
			j.Currency = s.Currency
		}
		if s.Value != nil {
			if j.SalaryMin == nil {
				j.SalaryMin = s.Value.MinValue
			}
			if j.SalaryMax == nil {
				j.SalaryMax = s.Value.MaxValue
			}
		}
	}

	j.PostedDate = parseDate(p.DatePosted)
	return j
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
