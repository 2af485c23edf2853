package rapidapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

const (
	DefaultHost     = "active-jobs-db.p.rapidapi.com"
	defaultBaseURL  = "https://active-jobs-db.p.rapidapi.com"
	defaultEndpoint = "active-ats-7d"
	defaultLimit    = 100
	maxErrorBody    = 64 << 10
)

// NewClient instantiates an active-jobs-db API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("rapidapi: api key is required")
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		host:       host,
		baseURL:    baseURL,
		endpoint:   endpoint,
		httpClient: httpClient,
	}, nil
}

// Host returns the x-rapidapi-host value sent with requests
func (c *Client) Host() string {
	return c.host
}

// Search queries active-jobs-db with title/location filters
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Posting, error) {
	body, err := c.SearchRaw(ctx, params)
	if err != nil {
		return nil, err
	}
	return ParsePostings(body)
}

// SearchRaw performs the request and returns the undecoded response body
func (c *Client) SearchRaw(ctx context.Context, params SearchParams) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("rapidapi: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("rapidapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rapidapi: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rapidapi: read response: %w", err)
	}
	return body, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("rapidapi: parse base url: %w", err)
	}

	u.Path = path.Join("/", u.Path, c.endpoint)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	values.Set("description_type", "text")

	if params.Title != "" {
		values.Set("title_filter", `"`+params.Title+`"`)
	}

	if params.Location != "" {
		values.Set("location_filter", params.Location)
	}

	if params.Remote != nil {
		values.Set("remote", strconv.FormatBool(*params.Remote))
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
