package app

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-portal/internal/config"
	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
	rapidprovider "github.com/honeycarbs/job-portal/internal/domain/job/providers/rapidapi"
	"github.com/honeycarbs/job-portal/internal/mcp"
	"github.com/honeycarbs/job-portal/internal/mcp/tools"
	"github.com/honeycarbs/job-portal/internal/scheduler"
	"github.com/honeycarbs/job-portal/internal/server"
	neo4jstore "github.com/honeycarbs/job-portal/internal/storage/neo4j"
	pgstore "github.com/honeycarbs/job-portal/internal/storage/postgres"
	rediscache "github.com/honeycarbs/job-portal/internal/storage/redis"
	"github.com/honeycarbs/job-portal/internal/ui"
	"github.com/honeycarbs/job-portal/pkg/logging"
	pkgneo4j "github.com/honeycarbs/job-portal/pkg/neo4j"
	"github.com/honeycarbs/job-portal/pkg/postgres"
	"github.com/honeycarbs/job-portal/pkg/rapidapi"
	pkgredis "github.com/honeycarbs/job-portal/pkg/redis"
	"github.com/honeycarbs/job-portal/pkg/sheets"
)

const closeTimeout = 5 * time.Second

// Store is the connected persistence backend. Repo is nil when none is configured
// or the connection failed at startup.
type Store struct {
	Repo job.Repository
	Kind config.StoreKind
}

// Upstream is the jobs API tier. Provider is nil without an API key.
type Upstream struct {
	Provider job.Provider
	Cached   bool
}

func noop() {}

func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (Store, func(), error) {
	kind, err := cfg.StoreKind()
	if err != nil {
		logger.Warn("running without a database", "err", err)
		return Store{}, noop, nil
	}

	switch kind {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DBConnectionString})
		if err != nil {
			logger.Warn("database connection failed, running without a database", "dsn", cfg.RedactedDSN(), "err", err)
			return Store{}, noop, nil
		}

		repo := pgstore.NewJobRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			logger.Warn("database schema setup failed, running without a database", "err", err)
			return Store{}, noop, nil
		}

		logger.Info("connected to database", "kind", kind, "dsn", cfg.RedactedDSN())
		return Store{Repo: repo, Kind: kind}, pool.Close, nil

	case config.StoreNeo4j:
		client, err := pkgneo4j.NewClient(ctx, pkgneo4j.Config{
			URI:      cfg.DBConnectionString,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			logger.Warn("database connection failed, running without a database", "dsn", cfg.RedactedDSN(), "err", err)
			return Store{}, noop, nil
		}

		closeClient := func() {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				logger.Warn("closing neo4j driver failed", "err", err)
			}
		}

		repo := neo4jstore.NewJobRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeClient()
			logger.Warn("database schema setup failed, running without a database", "err", err)
			return Store{}, noop, nil
		}

		logger.Info("connected to database", "kind", kind, "dsn", cfg.RedactedDSN())
		return Store{Repo: repo, Kind: kind}, closeClient, nil
	}

	logger.Info("DB_CONNECTION_STRING not set, running without a database")
	return Store{}, noop, nil
}

func provideUpstream(ctx context.Context, cfg config.Config, logger *logging.Logger) (Upstream, func(), error) {
	if !cfg.HasAPIKey() {
		logger.Warn("RAPIDAPI_KEY not set, serving stored or sample jobs only")
		return Upstream{}, noop, nil
	}

	client, err := rapidapi.NewClient(rapidapi.Config{
		APIKey: cfg.RapidAPI.Key,
		Host:   cfg.RapidAPI.Host,
	})
	if err != nil {
		return Upstream{}, nil, fmt.Errorf("rapidapi client: %w", err)
	}

	var (
		search  rapidprovider.SearchClient = client
		cached  bool
		cleanup = noop
	)

	if cfg.RedisURL != "" {
		rdb, err := pkgredis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, provider responses will not be cached", "err", err)
		} else {
			cache, err := rediscache.NewSearchCache(client, rdb, cfg.CacheTTL, logger.Named("cache"))
			if err != nil {
				_ = rdb.Close()
				return Upstream{}, nil, err
			}
			search, cached = cache, true
			cleanup = func() {
				if err := rdb.Close(); err != nil {
					logger.Warn("closing redis client failed", "err", err)
				}
			}
			logger.Info("provider response cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	provider, err := rapidprovider.NewProvider(search)
	if err != nil {
		cleanup()
		return Upstream{}, nil, err
	}

	logger.Info("jobs API configured", "host", client.Host(), "key", cfg.APIKeyPrefix())
	return Upstream{Provider: provider, Cached: cached}, cleanup, nil
}

func provideService(store Store, upstream Upstream, logger *logging.Logger) (job.Service, error) {
	if store.Repo == nil {
		return nil, nil
	}

	opts := []job.Option{
		job.WithRepository(store.Repo),
		job.WithLogger(logger.Named("jobs")),
	}
	if upstream.Provider != nil {
		opts = append(opts, job.WithProvider(upstream.Provider))
	}
	return job.NewService(opts...)
}

func provideResolver(svc job.Service, upstream Upstream, logger *logging.Logger) *job.Resolver {
	return job.NewResolver(svc, upstream.Provider, logger.Named("resolver"))
}

// provideScheduler returns nil unless a sync interval, a store and a provider are all configured
func provideScheduler(cfg config.Config, svc job.Service, upstream Upstream, logger *logging.Logger) (*scheduler.Scheduler, error) {
	if cfg.Sync.Interval <= 0 {
		return nil, nil
	}
	if svc == nil || upstream.Provider == nil {
		logger.Warn("SYNC_INTERVAL ignored, scheduled sync needs both a database and RAPIDAPI_KEY")
		return nil, nil
	}

	filter := domain.JobFilter{Search: cfg.Sync.Search, Location: cfg.Sync.Location}
	return scheduler.New(svc, cfg.Sync.Interval, filter, logger)
}

func provideSheetsExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) tools.SheetsExporter {
	if cfg.SheetsCredentialsPath == "" {
		return nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.SheetsCredentialsPath})
	if err != nil {
		logger.Warn("google sheets export disabled", "err", err)
		return nil
	}
	return mcp.NewSheetsExporter(client)
}

func provideMCPServer(resolver *job.Resolver, exporter tools.SheetsExporter, logger *logging.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Deps{
		Jobs:   resolver,
		Sheets: exporter,
		Logger: logger,
	})
}

func provideHTTPServer(
	cfg config.Config,
	resolver *job.Resolver,
	mcpServer *sdkmcp.Server,
	store Store,
	upstream Upstream,
	logger *logging.Logger,
) (*server.Server, error) {
	handler := server.NewHandler(resolver, server.DebugInfo{
		HasAPIKey:    cfg.HasAPIKey(),
		APIKeyPrefix: cfg.APIKeyPrefix(),
		APIHost:      cfg.RapidAPI.Host,
		Port:         cfg.Port,
		DBConfigured: cfg.DBConnectionString != "",
		HasCache:     upstream.Cached,
	}, logger)

	opts := server.Options{MCP: mcp.NewHandler(mcpServer)}
	if dir := ui.FindStaticDir(cfg.StaticDir); dir != "" {
		logger.Info("serving built front end", "dir", dir)
		opts.StaticDir = dir
	} else {
		page, err := ui.NewPage(resolver, logger.Named("ui"))
		if err != nil {
			return nil, fmt.Errorf("job board page: %w", err)
		}
		opts.Page = page
	}

	logger.Info("job sources configured",
		"store", string(store.Kind), "provider", upstream.Provider != nil, "cache", upstream.Cached)

	return server.New(cfg.Addr(), server.NewRouter(handler, opts, logger), logger), nil
}
