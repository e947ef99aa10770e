package registry

import (
	"context"
	"sync"
	"time"

	"canvas-studio-be/internal/pkg/logger"
	"canvas-studio-be/pkg/canvas"
	"canvas-studio-be/pkg/storage"

	"github.com/patrickmn/go-cache"
)

// PublishFunc forwards a store change event, tagged with its workspace, to the
// in-process event bus.
type PublishFunc func(workspaceID string, event canvas.ChangeEvent)

type entry struct {
	store     *canvas.Store
	persister *canvas.Persister
	unbridge  func()
}

// WorkspaceRegistry creates canvas stores lazily per workspace and keeps them
// warm in an expiring cache. An idle workspace is torn down after an hour; its
// state survives in the bounded store and is restored on next touch.
type WorkspaceRegistry struct {
	mu      sync.Mutex
	cache   *cache.Cache
	bound   *storage.Bounded
	publish PublishFunc
	logger  logger.ILogger
}

func NewWorkspaceRegistry(bound *storage.Bounded, publish PublishFunc, log logger.ILogger) *WorkspaceRegistry {
	c := cache.New(1*time.Hour, 10*time.Minute)
	r := &WorkspaceRegistry{
		cache:   c,
		bound:   bound,
		publish: publish,
		logger:  log,
	}
	c.OnEvicted(func(workspaceID string, v interface{}) {
		e := v.(*entry)
		e.unbridge()
		e.persister.Stop()
		log.Info("WorkspaceRegistry", "Workspace expired", map[string]interface{}{"workspace_id": workspaceID})
	})
	return r
}

// Store returns the workspace's store, creating and restoring it on first
// touch.
func (r *WorkspaceRegistry) Store(ctx context.Context, workspaceID string) (*canvas.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.cache.Get(workspaceID); found {
		r.cache.SetDefault(workspaceID, v) // refresh idle timer
		return v.(*entry).store, nil
	}

	store := canvas.NewStore()
	persister := canvas.NewPersister(store, r.bound, workspaceID, r.logger)
	if err := persister.Load(ctx); err != nil {
		// Unreadable snapshot: start from defaults, state service stays up.
		r.logger.Warn("WorkspaceRegistry", "Failed to restore workspace snapshot", map[string]interface{}{
			"workspace_id": workspaceID,
			"error":        err.Error(),
		})
	}
	persister.Start()

	events, cancel := store.Subscribe()
	go func() {
		for ev := range events {
			r.publish(workspaceID, ev)
		}
	}()

	r.cache.SetDefault(workspaceID, &entry{store: store, persister: persister, unbridge: cancel})
	r.logger.Info("WorkspaceRegistry", "Workspace opened", map[string]interface{}{"workspace_id": workspaceID})
	return store, nil
}

// Flush forces a synchronous snapshot write for the workspace, if it is open.
func (r *WorkspaceRegistry) Flush(ctx context.Context, workspaceID string) error {
	r.mu.Lock()
	v, found := r.cache.Get(workspaceID)
	r.mu.Unlock()
	if !found {
		return nil
	}
	return v.(*entry).persister.Flush(ctx)
}

// Close stops every open workspace's persistence loop.
func (r *WorkspaceRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.cache.Items() {
		e := item.Object.(*entry)
		e.unbridge()
		e.persister.Stop()
		r.cache.Delete(id)
	}
}
