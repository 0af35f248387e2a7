package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a [Store] shared by every process of the same deployment,
// the multi-process analogue of same-origin browser storage. Last write
// wins; there is no locking.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	flagTTL time.Duration
}

// NewRedisStore creates a store on client. Keys are namespaced under prefix
// (default "ka"). flagTTL bounds the lifetime of the logging-out flag so a
// crashed logout cannot wedge other processes; zero disables the bound.
func NewRedisStore(client *redis.Client, prefix string, flagTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "ka"
	}
	return &RedisStore{client: client, prefix: prefix, flagTTL: flagTTL}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Get implements [Store].
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, nil
}

// Set implements [Store]. The logging-out flag is written with the
// configured TTL; every other key has no expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	var ttl time.Duration
	if key == KeyLoggingOut {
		ttl = s.flagTTL
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete implements [Store].
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
