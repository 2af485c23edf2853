// Package redis caches provider responses in Redis.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/job-portal/pkg/logging"
	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

const keyPrefix = "jobs:rapidapi:"

// RawSearcher fetches undecoded provider responses
type RawSearcher interface {
	SearchRaw(ctx context.Context, params rapidapi.SearchParams) ([]byte, error)
}

// Store is the subset of the go-redis client used by the cache
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// SearchCache serves repeated provider searches from Redis. Only successful
// responses are cached and cache failures fall back to the upstream call.
type SearchCache struct {
	next   RawSearcher
	store  Store
	ttl    time.Duration
	logger *logging.Logger
}

// NewSearchCache wraps next with a Redis-backed response cache
func NewSearchCache(next RawSearcher, store Store, ttl time.Duration, logger *logging.Logger) (*SearchCache, error) {
	if next == nil || store == nil {
		return nil, fmt.Errorf("search cache: upstream and store are required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &SearchCache{next: next, store: store, ttl: ttl, logger: logger}, nil
}

// Search returns decoded postings, using the cache when possible
func (c *SearchCache) Search(ctx context.Context, params rapidapi.SearchParams) ([]rapidapi.Posting, error) {
	body, err := c.SearchRaw(ctx, params)
	if err != nil {
		return nil, err
	}
	return rapidapi.ParsePostings(body)
}

// SearchRaw returns the cached body for params or fetches and stores it
func (c *SearchCache) SearchRaw(ctx context.Context, params rapidapi.SearchParams) ([]byte, error) {
	key := CacheKey(params)

	body, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		cacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("redis get failed, bypassing cache", "err", err)
	}

	body, err = c.next.SearchRaw(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", "err", err)
	}

	return body, nil
}

// CacheKey derives a stable key from the search parameters
func CacheKey(p rapidapi.SearchParams) string {
	remote := "any"
	if p.Remote != nil {
		remote = strconv.FormatBool(*p.Remote)
	}

	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%q|%q|%s|%d|%d", p.Title, p.Location, remote, p.Limit, p.Offset)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))[:32]
}
