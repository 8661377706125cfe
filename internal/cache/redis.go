package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "boardscan:fetch:"

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps snapshots in redis with native TTLs. When the server is
// unreachable the store degrades to a permanent miss.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// NewRedisStore connects to redis. A failed ping is logged once and yields a
// store that bypasses caching instead of an error.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger *slog.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return newRedisStoreWithClient(ctx, client, logger)
}

func newRedisStoreWithClient(ctx context.Context, client *redis.Client, logger *slog.Logger) *RedisStore {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", "error", err)
		_ = client.Close()
		s := &RedisStore{logger: logger}
		s.warnedUnavailable.Store(true)
		return s
	}
	return &RedisStore{client: client, logger: logger}
}

// Available reports whether the store is backed by a live connection.
func (s *RedisStore) Available() bool {
	return s != nil && s.client != nil
}

func (s *RedisStore) warnUnavailableOnce(err error) {
	if s.warnedUnavailable.CompareAndSwap(false, true) {
		s.logger.Warn("redis unavailable, bypassing cache", "error", err)
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]model.Job, bool, error) {
	if !s.Available() {
		return nil, false, nil
	}
	b, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		s.warnUnavailableOnce(err)
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var jobs []model.Job
	if err := json.Unmarshal(b, &jobs); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return jobs, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, jobs []model.Job, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	b, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, b, ttl).Err(); err != nil {
		s.warnUnavailableOnce(err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}
