package rapidapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestSearchSendsFiltersAndHeaders(t *testing.T) {
	remote := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/active-ats-7d", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, DefaultHost, r.Header.Get("x-rapidapi-host"))

		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))
		assert.Equal(t, "text", q.Get("description_type"))
		assert.Equal(t, `"golang"`, q.Get("title_filter"))
		assert.Equal(t, "Berlin", q.Get("location_filter"))
		assert.Equal(t, "true", q.Get("remote"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1903980996, "title": "Go Developer", "organization": "Acme",
			 "locations_derived": ["Berlin, Germany"], "remote_derived": true,
			 "date_posted": "2024-05-01T10:00:00", "url": "https://acme.example/jobs/1",
			 "salary_raw": {"currency": "EUR", "value": {"minValue": 60000, "maxValue": 80000, "unitText": "YEAR"}}},
			{"job_id": "abc", "title": "SRE", "company": "Globex", "location": "Remote", "remote": false}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	postings, err := client.Search(context.Background(), SearchParams{
		Title:    "golang",
		Location: "Berlin",
		Remote:   &remote,
		Limit:    20,
		Offset:   40,
	})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "1903980996", first.ID)
	assert.Equal(t, "Acme", first.Organization)
	assert.True(t, first.RemoteDerived)
	assert.Equal(t, []string{"Berlin, Germany"}, first.LocationsDerived)
	require.NotNil(t, first.SalaryRaw)
	assert.Equal(t, "EUR", first.SalaryRaw.Currency)
	require.NotNil(t, first.SalaryRaw.Value.MinValue)
	assert.Equal(t, 60000.0, *first.SalaryRaw.Value.MinValue)
	assert.NotEmpty(t, first.Raw)

	second := postings[1]
	assert.Equal(t, "abc", second.ID)
	assert.Equal(t, "Globex", second.Company)
	require.NotNil(t, second.Remote)
	assert.False(t, *second.Remote)
}

func TestSearchReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"You are not subscribed to this API."}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchParams{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.JSONEq(t, `{"message":"You are not subscribed to this API."}`, string(apiErr.Body))
}

func TestParsePostingKeepsJobID(t *testing.T) {
	p, err := ParsePosting([]byte(`{"id": 17, "job_id": "ext-17", "title": "Go Dev"}`))
	require.NoError(t, err)
	assert.Equal(t, "17", p.ID)
	assert.Equal(t, "ext-17", p.JobID)

	p, err = ParsePosting([]byte(`{"job_id": "ext-18"}`))
	require.NoError(t, err)
	assert.Equal(t, "ext-18", p.ID)
	assert.Equal(t, "ext-18", p.JobID)
}

func TestSearchSendsTitleVerbatim(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("title_filter")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchParams{Title: `go\dev "senior" ü`})
	require.NoError(t, err)
	assert.Equal(t, `"go\dev "senior" ü"`, got)
}

func TestParsePostingsNonArray(t *testing.T) {
	postings, err := ParsePostings([]byte(`{"message":"quota"}`))
	require.NoError(t, err)
	assert.Empty(t, postings)
}
