package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRedisClient implements the Redis operations needed by cache.Manager
type MockRedisClient struct {
	mu       sync.RWMutex
	data     map[string]string
	expiry   map[string]time.Time
	getError error
	setError error
	delError error
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data:   make(map[string]string),
		expiry: make(map[string]time.Time),
	}
}

func (m *MockRedisClient) GetString(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getError != nil {
		return "", m.getError
	}

	if exp, ok := m.expiry[key]; ok && time.Now().After(exp) {
		return "", redis.Nil
	}

	val, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return val, nil
}

func (m *MockRedisClient) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setError != nil {
		return m.setError
	}

	strVal, _ := value.(string)
	m.data[key] = strVal
	if expiration > 0 {
		m.expiry[key] = time.Now().Add(expiration)
	}
	return nil
}

func (m *MockRedisClient) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.delError != nil {
		return m.delError
	}

	for _, key := range keys {
		delete(m.data, key)
		delete(m.expiry, key)
	}
	return nil
}

func (m *MockRedisClient) Close() error { return nil }

type testRule struct {
	Name       string  `json:"name"`
	Adjustment float64 `json:"adjustment"`
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMockRedisClient())

	stored := testRule{Name: "Night", Adjustment: 15}
	require.NoError(t, manager.Set(ctx, "rule:1", stored, time.Minute))

	var loaded testRule
	require.NoError(t, manager.Get(ctx, "rule:1", &loaded))
	assert.Equal(t, stored, loaded)
}

func TestGetMiss(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMockRedisClient())

	var loaded testRule
	assert.Error(t, manager.Get(ctx, "rule:missing", &loaded))
}

func TestGetOrSetCachesFetchResult(t *testing.T) {
	ctx := context.Background()
	redisMock := NewMockRedisClient()
	manager := NewManager(redisMock)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []testRule{{Name: "Night", Adjustment: 15}}, nil
	}

	var first []testRule
	require.NoError(t, manager.GetOrSet(ctx, "rules", time.Minute, &first, fetch))
	assert.Len(t, first, 1)
	assert.Equal(t, 1, calls)

	// Cache fill happens off the request path
	assert.Eventually(t, func() bool {
		redisMock.mu.RLock()
		defer redisMock.mu.RUnlock()
		_, ok := redisMock.data["rules"]
		return ok
	}, time.Second, 10*time.Millisecond)

	var second []testRule
	require.NoError(t, manager.GetOrSet(ctx, "rules", time.Minute, &second, fetch))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetPropagatesFetchError(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMockRedisClient())

	fetchErr := errors.New("db down")
	var out []testRule
	err := manager.GetOrSet(ctx, "rules", time.Minute, &out, func() (interface{}, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMockRedisClient())

	require.NoError(t, manager.Set(ctx, "rule:1", testRule{Name: "Night"}, time.Minute))
	require.NoError(t, manager.Delete(ctx, "rule:1"))

	var loaded testRule
	assert.Error(t, manager.Get(ctx, "rule:1", &loaded))
}

func TestKeyPatterns(t *testing.T) {
	assert.Equal(t, "pricing:time_based_rules:active", Keys.TimeBasedRules())
	assert.Equal(t, "promotion:SAVE20", Keys.Promotion("SAVE20"))
	assert.Equal(t, "vehicle:veh-1", Keys.Vehicle("veh-1"))
}
