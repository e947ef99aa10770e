package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCapacityExceeded is returned when a value cannot be admitted even after
// evicting every other entry.
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// envelope is the blob layout every bounded value is wrapped in. LastUsedAt is
// the eviction key; the payload stays opaque.
type envelope struct {
	LastUsedAt time.Time       `json:"lastUsedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Bounded enforces a byte capacity ceiling over a Backend. When a write would
// push the total stored size past the ceiling, the entries with the oldest
// embedded lastUsedAt are evicted first, synchronously in the write path.
type Bounded struct {
	backend  Backend
	capacity int64
}

func NewBounded(backend Backend, capacity int64) *Bounded {
	return &Bounded{backend: backend, capacity: capacity}
}

// Get returns the payload stored under key, unwrapped from its envelope.
func (b *Bounded) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, found, err := b.backend.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false, fmt.Errorf("decode stored envelope for %q: %w", key, err)
	}
	return env.Payload, true, nil
}

// Set stores payload under key, stamped with lastUsedAt, evicting
// least-recently-used entries as needed to stay under the capacity ceiling.
func (b *Bounded) Set(ctx context.Context, key string, payload []byte, lastUsedAt time.Time) error {
	raw, err := json.Marshal(envelope{LastUsedAt: lastUsedAt, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode envelope for %q: %w", key, err)
	}
	if int64(len(raw)) > b.capacity {
		return fmt.Errorf("%w: entry %q is %d bytes, ceiling is %d", ErrCapacityExceeded, key, len(raw), b.capacity)
	}

	if err := b.evictFor(ctx, key, int64(len(raw))); err != nil {
		return err
	}
	return b.backend.Set(ctx, key, raw)
}

// Remove deletes the entry under key.
func (b *Bounded) Remove(ctx context.Context, key string) error {
	return b.backend.Remove(ctx, key)
}

type entryInfo struct {
	key        string
	size       int64
	lastUsedAt time.Time
}

// evictFor frees room for an incoming write of the given size, oldest
// lastUsedAt first. The key being written is excluded; it is about to be
// overwritten anyway.
func (b *Bounded) evictFor(ctx context.Context, incoming string, size int64) error {
	keys, err := b.backend.Keys(ctx)
	if err != nil {
		return err
	}

	var entries []entryInfo
	var total int64
	for _, k := range keys {
		if k == incoming {
			continue
		}
		raw, found, err := b.backend.Get(ctx, k)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// Unreadable entry cannot participate in LRU ordering; treat it
			// as oldest so it is reclaimed first.
			entries = append(entries, entryInfo{key: k, size: int64(len(raw))})
			total += int64(len(raw))
			continue
		}
		entries = append(entries, entryInfo{key: k, size: int64(len(raw)), lastUsedAt: env.LastUsedAt})
		total += int64(len(raw))
	}

	for total+size > b.capacity {
		oldest := -1
		for i := range entries {
			if entries[i].size == 0 {
				continue
			}
			if oldest < 0 || entries[i].lastUsedAt.Before(entries[oldest].lastUsedAt) {
				oldest = i
			}
		}
		if oldest < 0 {
			return fmt.Errorf("%w: nothing left to evict for %q", ErrCapacityExceeded, incoming)
		}
		if err := b.backend.Remove(ctx, entries[oldest].key); err != nil {
			return err
		}
		total -= entries[oldest].size
		entries[oldest].size = 0
	}
	return nil
}
