package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRapidAPIHost = "active-jobs-db.p.rapidapi.com"
	defaultPort         = "5000"
)

// StoreKind selects the persistence backend from the connection string scheme
type StoreKind string

const (
	StoreNone     StoreKind = ""
	StorePostgres StoreKind = "postgres"
	StoreNeo4j    StoreKind = "neo4j"
)

// Config contains runtime settings for the job portal server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 5000
	RapidAPI struct {
		Key  string
		Host string
	}
	DBConnectionString string
	Neo4j              struct {
		Username string
		Password string
	}
	RedisURL string
	CacheTTL time.Duration
	Sync     struct {
		Interval time.Duration // zero disables the scheduler
		Search   string
		Location string
	}
	StaticDir             string
	SheetsCredentialsPath string
}

// Load reads .env files if present, then populates config from environment variables
func Load() (Config, error) {
	for _, f := range []string{".env", "server/.env"} {
		// existing variables win, so later files only fill gaps
		_ = godotenv.Load(f)
	}

	cfg := Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Host:     getEnv("HOST", "0.0.0.0"),
		Port:     getEnv("PORT", defaultPort),
	}

	cfg.RapidAPI.Key = strings.TrimSpace(os.Getenv("RAPIDAPI_KEY"))
	cfg.RapidAPI.Host = getEnv("RAPIDAPI_HOST", defaultRapidAPIHost)

	cfg.DBConnectionString = strings.TrimSpace(os.Getenv("DB_CONNECTION_STRING"))
	cfg.Neo4j.Username = getEnv("NEO4J_USERNAME", "neo4j")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.StaticDir = strings.TrimSpace(os.Getenv("STATIC_DIR"))
	cfg.SheetsCredentialsPath = strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"))

	cfg.Sync.Search = os.Getenv("SYNC_SEARCH")
	cfg.Sync.Location = os.Getenv("SYNC_LOCATION")

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.Sync.Interval, err = getDuration("SYNC_INTERVAL", 0); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// StoreKind reports which store the connection string points at
func (c Config) StoreKind() (StoreKind, error) {
	if c.DBConnectionString == "" {
		return StoreNone, nil
	}

	u, err := url.Parse(c.DBConnectionString)
	if err != nil {
		// url.Error echoes the raw string, credentials included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return StoreNone, fmt.Errorf("DB_CONNECTION_STRING: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
		return StoreNeo4j, nil
	default:
		return StoreNone, fmt.Errorf("DB_CONNECTION_STRING: unsupported scheme %q", u.Scheme)
	}
}

// HasAPIKey reports whether the provider tier can be enabled
func (c Config) HasAPIKey() bool {
	return c.RapidAPI.Key != ""
}

// APIKeyPrefix is the first 10 characters of the key followed by "...", or "NOT SET"
func (c Config) APIKeyPrefix() string {
	if c.RapidAPI.Key == "" {
		return "NOT SET"
	}
	k := c.RapidAPI.Key
	if len(k) > 10 {
		k = k[:10]
	}
	return k + "..."
}

// RedactedDSN hides the password in the connection string
func (c Config) RedactedDSN() string {
	if c.DBConnectionString == "" {
		return "NOT SET"
	}
	u, err := url.Parse(c.DBConnectionString)
	if err != nil {
		return "INVALID"
	}
	return u.Redacted()
}

// Addr is host:port for the HTTP listener
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}
