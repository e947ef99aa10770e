package redis

import (
	"context"
	"errors"
	"fmt"

	"canvas-studio-be/pkg/storage"

	"github.com/redis/go-redis/v9"
)

// Backend stores blobs in Redis under a shared key prefix. The prefix scopes
// one deployment's state away from everything else living in the same Redis.
type Backend struct {
	rdb    *redis.Client
	prefix string
}

func NewBackend(rdb *redis.Client, prefix string) *Backend {
	if prefix == "" {
		prefix = "canvas_state"
	}
	return &Backend{rdb: rdb, prefix: prefix}
}

var _ storage.Backend = (*Backend)(nil)

func (b *Backend) fullKey(key string) string {
	return b.prefix + ":" + key
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.rdb.Get(ctx, b.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.rdb.Set(ctx, b.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Remove(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, b.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := b.rdb.Scan(ctx, 0, b.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		keys = append(keys, full[len(b.prefix)+1:])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}
