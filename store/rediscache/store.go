package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr      string `env:"REDIS_ADDR,required"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_CACHE_KEY_PREFIX" envDefault:"botguard:cache:"`
}

// Store implements cache.Store[string, V] against a Redis client,
// JSON-marshaling values under a prefixed key. Values must be
// JSON-serializable.
type Store[V any] struct {
	client    *redis.Client
	keyPrefix string
	log       *slog.Logger
}

// New connects to Redis and verifies connectivity with Ping before
// returning, so a broken store is never handed back to the caller.
func New[V any](ctx context.Context, cfg Config, log *slog.Logger) (*Store[V], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "botguard:cache:"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store[V]{client: client, keyPrefix: keyPrefix, log: log}, nil
}

func (s *Store[V]) key(k string) string {
	return s.keyPrefix + k
}

// Get retrieves and unmarshals the value stored under key.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	ctx := context.Background()

	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		s.log.Warn("rediscache: get failed", "key", key, "error", err)
		return zero, false
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		s.log.Warn("rediscache: unmarshal failed", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

// Set marshals value and stores it with the given ttl (zero means no
// expiration). Unlike core/cache.Cache, it does not fetch the previous
// value before overwriting — that would cost an extra round trip this
// codebase's only caller (analyzer/geo.Analyzer) never uses — so it
// always returns the zero value and false.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) (V, bool) {
	var zero V
	ctx := context.Background()

	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("rediscache: marshal failed", "key", key, "error", err)
		return zero, false
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		s.log.Warn("rediscache: set failed", "key", key, "error", err)
	}
	return zero, false
}

// Delete removes key, returning the zero value and whether a key was
// actually removed.
func (s *Store[V]) Delete(key string) (V, bool) {
	var zero V
	ctx := context.Background()

	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		s.log.Warn("rediscache: delete failed", "key", key, "error", err)
		return zero, false
	}
	return zero, n > 0
}

// Close releases the underlying Redis client.
func (s *Store[V]) Close() error {
	return s.client.Close()
}
