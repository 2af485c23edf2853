package jobsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", RetryDelay: time.Millisecond})
	require.NoError(t, err)
	return c, &calls
}

func TestListSendsParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		assert.Equal(t, "true", r.URL.Query().Get("remote"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"1","title":"Go Dev"}],"pagination":{"page":2,"limit":10,"total":11,"totalPages":2},"source":"database"}`))
	})

	remote := true
	res, err := c.List(context.Background(), ListParams{Search: "go", Remote: &remote, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "database", res.Source)
	assert.Equal(t, 2, res.Pagination.TotalPages)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Go Dev", res.Data[0].Title)
}

func TestRetriesOnceOnServerError(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGivesUpAfterOneRetry(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to fetch jobs"}`))
	})

	_, err := c.List(context.Background(), ListParams{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch jobs", apiErr.Message)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGetNotFoundIsNotRetried(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Job not found"}`))
	})

	_, err := c.Get(context.Background(), "a/b")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	_, err = NewClient(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}
