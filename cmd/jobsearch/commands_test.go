package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/jobs":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"1903980996","title":"Software Engineer","company":"Tech Corp","location":"Remote"}],"pagination":{"page":1,"limit":10,"total":1,"totalPages":1},"source":"mock"}`))
		case "/api/jobs/1903980996":
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"1903980996","title":"Software Engineer","company":"Tech Corp","description":"We are hiring."},"source":"mock"}`))
		case "/api/health":
			_, _ = w.Write([]byte(`{"status":"OK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Job not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--api-url", srv.URL + "/api"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, "list", "--search", "engineer")
	require.NoError(t, err)
	assert.Contains(t, out, "Software Engineer")
	assert.Contains(t, out, "Tech Corp")
	assert.Contains(t, out, "page 1 of 1, 1 jobs (source: mock)")
}

func TestListCommandRejectsBadRemote(t *testing.T) {
	_, err := runCLI(t, "list", "--remote", "sometimes")
	assert.Error(t, err)
}

func TestGetCommand(t *testing.T) {
	out, err := runCLI(t, "get", "1903980996")
	require.NoError(t, err)
	assert.Contains(t, out, "We are hiring.")

	_, err = runCLI(t, "get", "missing")
	assert.Error(t, err)
}

func TestGetCommandJSON(t *testing.T) {
	out, err := runCLI(t, "--json", "get", "1903980996")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "mock"`)
}

func TestHealthCommand(t *testing.T) {
	out, err := runCLI(t, "health")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}
