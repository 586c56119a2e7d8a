package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// historyLength is how many run IDs are kept per assay.
const historyLength = 50

// RedisStore publishes the latest tables of each assay as JSON for
// dashboards and other consumers.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStore connects to Redis and checks the connection
func NewRedisStore(ctx context.Context, config domain.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, config.TTL, config.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client. A zero ttl keeps keys
// forever.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, keyPrefix: keyPrefix}
}

func (s *RedisStore) latestKey(assay string) string {
	return fmt.Sprintf("%s:%s:latest", s.keyPrefix, assay)
}

func (s *RedisStore) historyKey(assay string) string {
	return fmt.Sprintf("%s:%s:runs", s.keyPrefix, assay)
}

// Save replaces the assay's latest result and records the run ID.
func (s *RedisStore) Save(ctx context.Context, res *domain.AssayResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.latestKey(res.Assay), data, s.ttl)
		pipe.LPush(ctx, s.historyKey(res.Assay), res.RunID)
		pipe.LTrim(ctx, s.historyKey(res.Assay), 0, historyLength-1)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.historyKey(res.Assay), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	return nil
}

// Latest returns the published result for assay, or domain.ErrNotFound.
func (s *RedisStore) Latest(ctx context.Context, assay string) (*domain.AssayResult, error) {
	val, err := s.client.Get(ctx, s.latestKey(assay)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no published run for assay %s: %w", assay, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest result: %w", err)
	}

	res := &domain.AssayResult{}
	if err := json.Unmarshal(val, res); err != nil {
		return nil, fmt.Errorf("failed to decode latest result: %w", err)
	}
	return res, nil
}

// History returns the most recent run IDs for assay, newest first.
func (s *RedisStore) History(ctx context.Context, assay string) ([]string, error) {
	return s.client.LRange(ctx, s.historyKey(assay), 0, -1).Result()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ domain.ResultStore = (*RedisStore)(nil)
