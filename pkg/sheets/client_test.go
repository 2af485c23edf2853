package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
}

func TestClientWritesValues(t *testing.T) {
	type call struct {
		method string
		path   string
		query  string
		body   map[string]any
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		calls = append(calls, c)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client, err := NewClient(ctx, Config{Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	require.NoError(t, client.AppendValues(ctx, "sheet-1", "Jobs!A1", [][]any{{"1", "Go Dev"}}))
	require.NoError(t, client.UpdateValues(ctx, "sheet-1", "Jobs!A2", [][]any{{"2", "SRE"}}))
	require.NoError(t, client.ClearValues(ctx, "sheet-1", "Jobs!A2:Z"))

	require.Len(t, calls, 3)

	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.True(t, strings.HasPrefix(calls[0].path, "/v4/spreadsheets/sheet-1/values/"))
	assert.True(t, strings.HasSuffix(calls[0].path, ":append"))
	assert.Contains(t, calls[0].query, "valueInputOption=RAW")
	assert.Contains(t, calls[0].query, "insertDataOption=INSERT_ROWS")
	assert.Equal(t, []any{[]any{"1", "Go Dev"}}, calls[0].body["values"])

	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Contains(t, calls[1].query, "valueInputOption=RAW")

	assert.Equal(t, http.MethodPost, calls[2].method)
	assert.True(t, strings.HasSuffix(calls[2].path, ":clear"))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	err = client.AppendValues(context.Background(), "sheet-1", "Jobs!A1", [][]any{{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
