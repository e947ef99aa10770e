package memory

import (
	"context"
	"sync"

	"canvas-studio-be/pkg/storage"
)

// Backend is an in-process storage backend. Used in tests and single-node
// development runs where no Redis or Postgres is available.
type Backend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewBackend() *Backend {
	return &Backend{values: make(map[string][]byte)}
}

var _ storage.Backend = (*Backend)(nil)

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	b.mu.Lock()
	b.values[key] = cp
	b.mu.Unlock()
	return nil
}

func (b *Backend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.values, key)
	b.mu.Unlock()
	return nil
}

func (b *Backend) Keys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	return keys, nil
}
