package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/job-portal/pkg/rapidapi"
)

type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (s *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value.([]byte)
	s.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingUpstream struct {
	calls int
	body  []byte
	err   error
}

func (u *countingUpstream) SearchRaw(context.Context, rapidapi.SearchParams) ([]byte, error) {
	u.calls++
	return u.body, u.err
}

func TestSearchCacheHitAndMiss(t *testing.T) {
	upstream := &countingUpstream{body: []byte(`[{"id":"1","title":"Go Dev"}]`)}
	store := newFakeStore()
	cache, err := NewSearchCache(upstream, store, time.Minute, nil)
	require.NoError(t, err)

	params := rapidapi.SearchParams{Title: "go", Limit: 10}

	first, err := cache.Search(context.Background(), params)
	require.NoError(t, err)
	second, err := cache.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, time.Minute, store.ttls[CacheKey(params)])

	_, err = cache.Search(context.Background(), rapidapi.SearchParams{Title: "go", Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls, "different page is a different key")
}

func TestSearchCacheDoesNotStoreErrors(t *testing.T) {
	upstream := &countingUpstream{err: &rapidapi.APIError{StatusCode: 429}}
	store := newFakeStore()
	cache, err := NewSearchCache(upstream, store, time.Minute, nil)
	require.NoError(t, err)

	_, err = cache.SearchRaw(context.Background(), rapidapi.SearchParams{})
	var apiErr *rapidapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, store.data)
}

func TestSearchCacheBypassesBrokenStore(t *testing.T) {
	upstream := &countingUpstream{body: []byte(`[]`)}
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	cache, err := NewSearchCache(upstream, store, 0, nil)
	require.NoError(t, err)

	jobs, err := cache.Search(context.Background(), rapidapi.SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 1, upstream.calls)
}

func TestCacheKeyDistinguishesRemote(t *testing.T) {
	yes, no := true, false
	base := rapidapi.SearchParams{Title: "go"}

	assert.Equal(t, CacheKey(base), CacheKey(base))
	assert.NotEqual(t, CacheKey(base), CacheKey(rapidapi.SearchParams{Title: "go", Remote: &yes}))
	assert.NotEqual(t, CacheKey(rapidapi.SearchParams{Title: "go", Remote: &no}),
		CacheKey(rapidapi.SearchParams{Title: "go", Remote: &yes}))
}
