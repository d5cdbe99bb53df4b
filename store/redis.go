package store

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps durable session state in redis, for deployments where
// several workers share one signed-in identity.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend describes the newredisbackend operation and its observable behavior.
//
// NewRedisBackend may return an error when input validation, dependency calls, or security checks fail.
func NewRedisBackend(client redis.UniversalClient, prefix string) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("store: redis backend requires a client")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "gosession"
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

// Get describes the get operation and its observable behavior.
func (r *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

// Set describes the set operation and its observable behavior.
func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// Delete describes the delete operation and its observable behavior.
func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *RedisBackend) key(key string) string {
	return r.prefix + ":" + key
}
