package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRedis answers GET, SET and DEL in process, so no server is dialed
type memoryRedis struct {
	mu     sync.Mutex
	values map[string][]byte
	ttls   map[string]time.Duration
	fail   error
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.fail != nil {
			return m.fail
		}

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			raw, ok := m.values[fmt.Sprint(args[1])]
			if !ok {
				return redis.Nil
			}
			c.SetVal(string(raw))
		case *redis.StatusCmd:
			key := fmt.Sprint(args[1])
			switch v := args[2].(type) {
			case []byte:
				m.values[key] = v
			default:
				m.values[key] = []byte(fmt.Sprint(v))
			}
			if len(args) >= 5 && fmt.Sprint(args[3]) == "ex" {
				secs, _ := args[4].(int64)
				m.ttls[key] = time.Duration(secs) * time.Second
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			var n int64
			for _, k := range args[1:] {
				key := fmt.Sprint(k)
				if _, ok := m.values[key]; ok {
					delete(m.values, key)
					delete(m.ttls, key)
					n++
				}
			}
			c.SetVal(n)
		default:
			return fmt.Errorf("unsupported command %v", args[0])
		}
		return nil
	}
}

type listing struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

func newTestRedis(t *testing.T) (*Redis[[]listing], *memoryRedis) {
	t.Helper()
	backend := newMemoryRedis()
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	client.AddHook(backend)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis[[]listing](client, "pq:list:", time.Minute), backend
}

func TestRedisGetMissingKey(t *testing.T) {
	r, _ := newTestRedis(t)

	got, ok, err := r.Get(context.Background(), "all")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisSetGetRoundTrip(t *testing.T) {
	r, backend := newTestRedis(t)
	ctx := context.Background()
	want := []listing{{ID: "q-1", Title: "DSA Final", Year: 2024}, {ID: "q-2", Title: "DB Midterm", Year: 2023}}

	require.NoError(t, r.Set(ctx, "owner:t-1", want))

	assert.Contains(t, backend.values, "pq:list:owner:t-1")
	assert.Equal(t, time.Minute, backend.ttls["pq:list:owner:t-1"])

	got, ok, err := r.Get(ctx, "owner:t-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisDeleteMultipleKeys(t *testing.T) {
	r, backend := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "all", []listing{{ID: "q-1"}}))
	require.NoError(t, r.Set(ctx, "owner:t-1", []listing{{ID: "q-1"}}))
	require.NoError(t, r.Set(ctx, "owner:t-2", []listing{{ID: "q-9"}}))

	require.NoError(t, r.Delete(ctx, "all", "owner:t-1", "missing"))
	require.NoError(t, r.Delete(ctx))

	assert.Equal(t, []string{"pq:list:owner:t-2"}, keysOf(backend))
	_, ok, err := r.Get(ctx, "all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCorruptValueIsError(t *testing.T) {
	r, backend := newTestRedis(t)
	backend.values["pq:list:all"] = []byte("{not json")

	_, ok, err := r.Get(context.Background(), "all")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisBackendFailure(t *testing.T) {
	r, backend := newTestRedis(t)
	backend.fail = errors.New("connection refused")
	ctx := context.Background()

	_, _, err := r.Get(ctx, "all")
	assert.ErrorContains(t, err, "connection refused")
	assert.ErrorContains(t, r.Set(ctx, "all", nil), "connection refused")
	assert.ErrorContains(t, r.Delete(ctx, "all"), "connection refused")
}

func keysOf(m *memoryRedis) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}
