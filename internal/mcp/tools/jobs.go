package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
)

// JobResolver is the read side the tools query
type JobResolver interface {
	List(ctx context.Context, filter domain.JobFilter) (job.ListResult, error)
	Get(ctx context.Context, id string) (job.GetResult, error)
}

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Query    string `json:"query,omitempty" jsonschema:"Text matched against job title and company"`
	Location string `json:"location,omitempty" jsonschema:"Location substring filter"`
	Remote   *bool  `json:"remote,omitempty" jsonschema:"Restrict to remote (true) or on-site (false) postings"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Page size between 10 and 100"`
}

// JobSummary is the compact job shape returned to agents
type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Remote      bool   `json:"remote"`
	Salary      string `json:"salary,omitempty"`
	URL         string `json:"url,omitempty"`
	PostedDate  string `json:"posted_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// JobSearchResult is the structured output of job_search
type JobSearchResult struct {
	Jobs       []JobSummary `json:"jobs"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Source     string       `json:"source"`
}

// JobGetParams defines the arguments for the job_get tool
type JobGetParams struct {
	ID string `json:"id" jsonschema:"External job id"`
}

// JobGetResult is the structured output of job_get
type JobGetResult struct {
	Job    JobSummary `json:"job"`
	Source string     `json:"source"`
}

// WithJobSearch registers the job_search tool
func WithJobSearch(jobs JobResolver) Option {
	return func(reg *registry) {
		if jobs == nil {
			return
		}
		h := &jobHandlers{jobs: jobs, reg: reg}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Search job postings from the store, the jobs API, or the sample listing",
		}, h.search)
	}
}

// WithJobGet registers the job_get tool
func WithJobGet(jobs JobResolver) Option {
	return func(reg *registry) {
		if jobs == nil {
			return
		}
		h := &jobHandlers{jobs: jobs, reg: reg}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_get",
			Description: "Fetch one job posting by its external id",
		}, h.get)
	}
}

type jobHandlers struct {
	jobs JobResolver
	reg  *registry
}

func (h *jobHandlers) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := h.jobs.List(ctx, domain.JobFilter{
		Search:   strings.TrimSpace(params.Query),
		Location: strings.TrimSpace(params.Location),
		Remote:   params.Remote,
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		h.reg.logger.Error("job_search failed", "query", params.Query, "err", err)
		return errorResult(fmt.Sprintf("job search failed: %v", err)), nil, nil
	}

	out := JobSearchResult{
		Jobs:       make([]JobSummary, 0, len(res.Jobs)),
		Page:       res.Pagination.Page,
		Limit:      res.Pagination.Limit,
		Total:      res.Pagination.Total,
		TotalPages: res.Pagination.TotalPages,
		Source:     string(res.Source),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d job(s) from %s (page %d of %d)", out.Total, out.Source, out.Page, out.TotalPages)
	for _, j := range res.Jobs {
		s := summarize(j, false)
		out.Jobs = append(out.Jobs, s)
		fmt.Fprintf(&b, "\n- [%s] %s", s.ID, s.Title)
		if s.Company != "" {
			fmt.Fprintf(&b, " at %s", s.Company)
		}
		if s.Location != "" {
			fmt.Fprintf(&b, " (%s)", s.Location)
		}
	}

	h.reg.logger.Debug("job_search served", "source", out.Source, "count", len(out.Jobs))
	return textResult(b.String()), out, nil
}

func (h *jobHandlers) get(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobGetParams) (*sdkmcp.CallToolResult, any, error) {
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return errorResult("id is required"), nil, nil
	}

	res, err := h.jobs.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return errorResult(fmt.Sprintf("Job not found: %s", id)), nil, nil
	}
	if err != nil {
		h.reg.logger.Error("job_get failed", "id", id, "err", err)
		return errorResult(fmt.Sprintf("job lookup failed: %v", err)), nil, nil
	}

	out := JobGetResult{Job: summarize(res.Job, true), Source: string(res.Source)}
	msg := fmt.Sprintf("%s at %s (%s)", out.Job.Title, out.Job.Company, out.Source)
	return textResult(msg), out, nil
}

func summarize(j domain.Job, withDescription bool) JobSummary {
	s := JobSummary{
		ID:       j.ID,
		Title:    j.Title,
		Company:  j.CompanyName(),
		Location: j.Location,
		Remote:   j.Remote,
		Salary:   j.Salary,
		URL:      j.ApplicationURL,
	}
	if !j.PostedDate.IsZero() {
		s.PostedDate = j.PostedDate.UTC().Format(time.RFC3339)
	}
	if withDescription {
		s.Description = j.Description
	}
	return s
}
