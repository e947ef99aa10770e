package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"canvas-studio-be/internal/pkg/logger"
	"canvas-studio-be/pkg/storage"
)

// PersistenceError wraps a failed snapshot write or load. The in-memory store
// stays authoritative; callers treat this as a degraded-mode signal, not a
// fatal condition.
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s for %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persister mirrors a Store's persisted subset into a bounded storage layer.
// It consumes the store's change events and writes a fresh snapshot after each
// one, fire-and-forget: a crash between a mutation and its flush loses only
// that write.
type Persister struct {
	store  *Store
	bound  *storage.Bounded
	key    string
	logger logger.ILogger
	cancel func()
	done   chan struct{}
}

func NewPersister(store *Store, bound *storage.Bounded, key string, log logger.ILogger) *Persister {
	return &Persister{
		store:  store,
		bound:  bound,
		key:    key,
		logger: log,
		done:   make(chan struct{}),
	}
}

// Load reads the persisted snapshot, if any, and restores it over the store's
// defaults.
func (p *Persister) Load(ctx context.Context) error {
	payload, found, err := p.bound.Get(ctx, p.key)
	if err != nil {
		return &PersistenceError{Key: p.key, Op: "load", Err: err}
	}
	if !found {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return &PersistenceError{Key: p.key, Op: "decode", Err: err}
	}
	p.store.Restore(snap)
	return nil
}

// Start subscribes to store changes and begins flushing snapshots. Returns
// immediately; flushing runs until Stop.
func (p *Persister) Start() {
	events, cancel := p.store.Subscribe()
	p.cancel = cancel

	go func() {
		defer close(p.done)
		for range events {
			if err := p.Flush(context.Background()); err != nil {
				// Best effort only. No retry; the next mutation writes a
				// fresh snapshot anyway.
				p.logger.Warn("Persister", "snapshot flush failed", map[string]interface{}{
					"key":   p.key,
					"error": err.Error(),
				})
			}
		}
	}()
}

// Flush serializes the current persisted subset and writes it through the
// bounded store. Eviction of stale entries happens synchronously inside the
// write when the capacity ceiling is hit.
func (p *Persister) Flush(ctx context.Context) error {
	snap := p.store.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		return &PersistenceError{Key: p.key, Op: "encode", Err: err}
	}
	if err := p.bound.Set(ctx, p.key, payload, lastUsed(snap)); err != nil {
		return &PersistenceError{Key: p.key, Op: "write", Err: err}
	}
	return nil
}

// Stop unsubscribes and waits for the flush loop to drain.
func (p *Persister) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

// lastUsed picks the freshest canvas timestamp as the entry's eviction key, so
// a workspace is only as evictable as its most recently touched canvas.
func lastUsed(snap Snapshot) time.Time {
	var latest time.Time
	for _, cfg := range snap.Config {
		if cfg.LastUsedAt.After(latest) {
			latest = cfg.LastUsedAt
		}
	}
	if latest.IsZero() {
		latest = time.Now()
	}
	return latest
}
