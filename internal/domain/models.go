package domain

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

const (
	DefaultPageSize = 10
	MinPageSize     = 10
	MaxPageSize     = 100

	// MaxPage keeps (Page-1)*Limit within int for every allowed limit
	MaxPage = math.MaxInt / MaxPageSize
)

// ErrNotFound is returned when a job is not present in a source
var ErrNotFound = errors.New("job not found")

// Source tags which fallback tier produced a response
type Source string

const (
	SourceDatabase       Source = "database"
	SourceDatabaseSynced Source = "database_synced"
	SourceRapidAPI       Source = "rapidapi"
	SourceMock           Source = "mock"
)

// Job is the normalized job posting entity. Raw keeps the provider payload untouched.
type Job struct {
	ID             string
	// JobID is the provider's job_id when it sent one; Raw keeps it for storage
	JobID          string
	Title          string
	Company        string
	Organization   string
	Location       string
	Description    string
	Salary         string
	SalaryMin      *float64
	SalaryMax      *float64
	Currency       string
	Remote         bool
	JobType        string
	PostedDate     time.Time
	ApplicationURL string
	Source         string
	Raw            json.RawMessage
	CreatedAt      time.Time
}

// CompanyName returns company, falling back to organization
func (j Job) CompanyName() string {
	if j.Company != "" {
		return j.Company
	}
	return j.Organization
}

// MarshalJSON renders the raw payload with the normalized identity fields laid over it.
// Jobs without a raw payload render their own fields only.
func (j Job) MarshalJSON() ([]byte, error) {
	out := map[string]any{}

	if len(j.Raw) > 0 {
		if err := json.Unmarshal(j.Raw, &out); err != nil || out == nil {
			out = map[string]any{}
		}
	} else {
		if j.Description != "" {
			out["description"] = j.Description
		}
		if j.ApplicationURL != "" {
			out["application_url"] = j.ApplicationURL
		}
		if !j.PostedDate.IsZero() {
			out["posted_date"] = j.PostedDate.UTC().Format(time.RFC3339)
		}
	}

	out["id"] = j.ID
	out["title"] = j.Title
	if c := j.CompanyName(); c != "" {
		out["company"] = c
	}
	if len(j.Raw) > 0 {
		org := j.Organization
		if org == "" {
			org = j.Company
		}
		if org != "" {
			out["organization"] = org
		}
	}
	if j.Location != "" {
		out["location"] = j.Location
	}

	return json.Marshal(out)
}

// JobFilter describes a list request after parameter parsing
type JobFilter struct {
	Search   string
	Location string
	Remote   *bool
	Page     int
	Limit    int
}

// Normalize clamps page into [1, MaxPage] and limit into [MinPageSize, MaxPageSize]
func (f JobFilter) Normalize() JobFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	f.Limit = ClampLimit(f.Limit)
	return f
}

// Offset is the number of records to skip for the filter's page
func (f JobFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ClampLimit bounds a page size into [MinPageSize, MaxPageSize]
func ClampLimit(limit int) int {
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Pagination is derived per response
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes total pages as ceil(total/limit)
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}

// JobPage is a page of jobs read from a store
type JobPage struct {
	Jobs       []Job
	Pagination Pagination
}
