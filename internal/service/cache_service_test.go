package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type memoryCache struct {
	items map[string][]byte
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.err != nil {
		return m.err
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	assert.Empty(t, repo.items)

	var nilSvc *CacheService
	hit, err := nilSvc.Get(ctx, "k", new(int))
	assert.False(t, hit)
	assert.NoError(t, err)
}

func TestCacheServiceHitMissAndInvalidate(t *testing.T) {
	svc := NewCacheService(newMemoryCache(), NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out []string
	hit, err := svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "cursos:all", []string{"a"}, 0))
	hit, err = svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	require.NoError(t, svc.Invalidate(ctx, "cursos:*"))
	hit, _ = svc.Get(ctx, "cursos:all", &out)
	assert.False(t, hit)
}

func TestCacheServiceBackendErrorSurfaces(t *testing.T) {
	repo := newMemoryCache()
	repo.err = errors.New("redis down")
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	hit, err := svc.Get(context.Background(), "k", new(int))
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestCacheServiceRememberLoadsOnceThenServesCache(t *testing.T) {
	svc := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	loads := 0
	load := func(dest *[]string) func(context.Context) error {
		return func(context.Context) error {
			loads++
			*dest = []string{"Álgebra", "Física"}
			return nil
		}
	}

	var first []string
	require.NoError(t, svc.Remember(ctx, "cursos:ciclo:1", &first, load(&first)))
	var second []string
	require.NoError(t, svc.Remember(ctx, "cursos:ciclo:1", &second, load(&second)))

	assert.Equal(t, 1, loads)
	assert.Equal(t, first, second)
}

func TestCacheServiceRememberDoesNotStoreFailures(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	var out []string
	err := svc.Remember(context.Background(), "docentes:all", &out, func(context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, repo.items)
}

func TestCacheServiceRememberFallsBackWhenBackendFails(t *testing.T) {
	repo := newMemoryCache()
	repo.err = errors.New("redis down")
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	var out []string
	err := svc.Remember(context.Background(), "cursos:all", &out, func(context.Context) error {
		out = []string{"Álgebra"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Álgebra"}, out)

	var nilSvc *CacheService
	loaded := false
	require.NoError(t, nilSvc.Remember(context.Background(), "cursos:all", &out, func(context.Context) error {
		loaded = true
		return nil
	}))
	assert.True(t, loaded)
}
