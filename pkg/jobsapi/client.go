// Package jobsapi is a client for the job portal HTTP API.
package jobsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultBaseURL matches a locally running server
	DefaultBaseURL = "http://localhost:5000/api"

	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBody      = 64 << 10
)

// ErrNotFound is returned by Get for unknown ids
var ErrNotFound = errors.New("jobsapi: job not found")

// Config configures Client
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// RetryDelay is the pause before the single retry
	RetryDelay time.Duration
}

// Client calls the job portal API and retries a failed request once
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient validates cfg and builds a Client
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("jobsapi: invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	return &Client{baseURL: base, httpClient: httpClient, retryDelay: delay}, nil
}

// ListParams are the /jobs query parameters
type ListParams struct {
	Search   string
	Location string
	Remote   *bool
	Page     int
	Limit    int
}

// Pagination mirrors the server pagination block
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Job holds the commonly displayed job fields
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Organization    string   `json:"organization"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	DescriptionText string   `json:"description_text"`
	URL             string   `json:"url"`
	ApplicationURL  string   `json:"application_url"`
	DatePosted      string   `json:"date_posted"`
	PostedDate      string   `json:"posted_date"`
	RemoteDerived   bool     `json:"remote_derived"`
	EmploymentType  []string `json:"employment_type"`
}

// ListResponse is the /jobs response body
type ListResponse struct {
	Success    bool       `json:"success"`
	Data       []Job      `json:"data"`
	Pagination Pagination `json:"pagination"`
	Source     string     `json:"source"`
}

// JobResponse is the /jobs/{id} response body
type JobResponse struct {
	Success bool   `json:"success"`
	Data    Job    `json:"data"`
	Source  string `json:"source"`
}

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("jobsapi: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("jobsapi: unexpected status %d", e.StatusCode)
}

// List fetches one page of jobs
func (c *Client) List(ctx context.Context, p ListParams) (ListResponse, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.Remote != nil {
		q.Set("remote", strconv.FormatBool(*p.Remote))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	u := c.baseURL + "/jobs"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	var out ListResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return ListResponse{}, err
	}
	return out, nil
}

// Get fetches one job, returning ErrNotFound on 404
func (c *Client) Get(ctx context.Context, id string) (JobResponse, error) {
	var out JobResponse
	err := c.getJSON(ctx, c.baseURL+"/jobs/"+url.PathEscape(id), &out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return JobResponse{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return JobResponse{}, err
	}
	return out, nil
}

// Health reports whether the server answers /health
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/health", &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return fmt.Errorf("jobsapi: unhealthy status %q", out.Status)
	}
	return nil
}

// getJSON performs a GET with one retry on transport errors, 429 and 5xx
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(c.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := c.get(ctx, u)
		if err != nil {
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("jobsapi: decode response: %w", err)
		}
		return nil
	})
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("jobsapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobsapi: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jobsapi: read response: %w", err)
	}
	return body, nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
