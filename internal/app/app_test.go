package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-portal/internal/config"
	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/pkg/logging"
	"github.com/honeycarbs/job-portal/pkg/shutdown"
)

func TestInitializeAppWithoutBackends(t *testing.T) {
	cfg := config.Config{Host: "127.0.0.1", Port: "0"}
	cfg.Sync.Interval = time.Hour

	a, cleanup, err := InitializeApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.False(t, a.Resolver.HasStore())
	assert.False(t, a.Resolver.HasProvider())
	assert.Nil(t, a.Scheduler, "sync needs a store and a provider")
	assert.Len(t, a.Stoppables(), 2)

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs?search=engineer", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		Source  domain.Source `json:"source"`
		Data    []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, domain.SourceMock, body.Source)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "1903980996", body.Data[0].ID)

	rec = httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Software Engineer")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, shutdown.StopAll(ctx, a.Stoppables()...))
}

func TestInitializeAppServesStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=root></div>"), 0o644))

	a, cleanup, err := InitializeApp(context.Background(), config.Config{StaticDir: dir}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "id=root")
}

func TestInitializeAppUnsupportedStoreFallsBack(t *testing.T) {
	cfg := config.Config{DBConnectionString: "mongodb+srv://user:pw@cluster.example.net/jobs"}

	a, cleanup, err := InitializeApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.False(t, a.Resolver.HasStore())

	res, err := a.Resolver.List(context.Background(), domain.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceMock, res.Source)
}

func TestProvideStoreDegrades(t *testing.T) {
	t.Run("unsupported scheme", func(t *testing.T) {
		store, cleanup, err := provideStore(context.Background(), config.Config{DBConnectionString: "mysql://localhost/jobs"}, logging.Nop())
		require.NoError(t, err)
		cleanup()
		assert.Nil(t, store.Repo)
	})

	t.Run("not configured", func(t *testing.T) {
		store, cleanup, err := provideStore(context.Background(), config.Config{}, logging.Nop())
		require.NoError(t, err)
		cleanup()
		assert.Nil(t, store.Repo)
		assert.Equal(t, config.StoreNone, store.Kind)
	})
}

func TestProvideUpstream(t *testing.T) {
	up, cleanup, err := provideUpstream(context.Background(), config.Config{}, logging.Nop())
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, up.Provider)

	cfg := config.Config{}
	cfg.RapidAPI.Key = "test-key"
	up, cleanup, err = provideUpstream(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	cleanup()
	require.NotNil(t, up.Provider)
	assert.Equal(t, "rapidapi", up.Provider.Name())
	assert.False(t, up.Cached)
}

func TestProvideScheduler(t *testing.T) {
	cfg := config.Config{}

	s, err := provideScheduler(cfg, nil, Upstream{}, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, s, "disabled without an interval")

	cfg.Sync.Interval = time.Minute
	s, err = provideScheduler(cfg, nil, Upstream{}, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestProvideSheetsExporterDisabled(t *testing.T) {
	assert.Nil(t, provideSheetsExporter(context.Background(), config.Config{}, logging.Nop()))
}
