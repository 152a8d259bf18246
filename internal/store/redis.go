package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps game state in Redis under prefix+id. A positive ttl
// expires idle games; every Save refreshes it.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// OpenRedis connects to a redis:// URL and pings the server.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctxPing).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Save stores state under id.
func (s *RedisStore) Save(ctx context.Context, id, state string) error {
	if err := s.client.Set(ctx, s.key(id), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving game %s: %w", id, err)
	}
	return nil
}

// Load returns the state stored under id.
func (s *RedisStore) Load(ctx context.Context, id string) (string, error) {
	state, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading game %s: %w", id, err)
	}
	return state, nil
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
