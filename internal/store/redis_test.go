package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func TestRedisStore_Keys(t *testing.T) {
	s := NewRedisStoreFromClient(nil, time.Hour, "clinvar-diff")

	assert.Equal(t, "clinvar-diff:TWE:latest", s.latestKey("TWE"))
	assert.Equal(t, "clinvar-diff:TSO500:runs", s.historyKey("TSO500"))
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), domain.RedisConfig{URL: "not-a-url"})
	assert.Error(t, err)
}

// This test requires a Redis instance; set REDIS_URL to run it.
func TestRedisStore_SaveAndLatest(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	prefix := "test-" + uuid.NewString()

	store, err := NewRedisStore(ctx, domain.RedisConfig{URL: url, TTL: time.Minute, KeyPrefix: prefix})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()
	defer func() {
		keys, _ := store.client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			store.client.Del(ctx, keys...)
		}
	}()

	_, err = store.Latest(ctx, "TWE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, sampleResult("TWE", "run-1")))
	want := sampleResult("TWE", "run-2")
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Latest(ctx, "TWE")
	require.NoError(t, err)
	assert.Equal(t, want.Tables, got.Tables)
	assert.Equal(t, "run-2", got.RunID)

	history, err := store.History(ctx, "TWE")
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-1"}, history)

	ttl, err := store.client.TTL(ctx, store.latestKey("TWE")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
