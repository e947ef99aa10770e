package storage

import "context"

// Backend is a plain key-value transport for opaque serialized blobs. The
// capacity ceiling and eviction policy live in Bounded, not in the backend, so
// every backend stays a dumb Get/Set/Remove surface.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
