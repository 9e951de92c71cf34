// Package history keeps a bounded, newest-first log of generation results.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/kvstore"
)

// Registry is the sole writer of the history entry. Storage failures are
// logged and otherwise ignored.
type Registry struct {
	store kvstore.Store
	log   *zap.Logger
	now   func() time.Time
	newID func(time.Time) string
	mu    sync.Mutex
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store kvstore.Store, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, log: log.Named("history"), now: time.Now, newID: newID}
}

// newID returns a UUIDv7, whose leading bits encode the creation instant.
func newID(at time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		return at.UTC().Format("2006-01-02T15:04:05.000000000Z")
	}
	return id.String()
}

// All returns stored items, newest first. Missing or corrupt storage yields
// an empty list.
func (r *Registry) All(ctx context.Context) []Item {
	items, _ := kvstore.LoadJSON[[]Item](ctx, r.store, kvstore.KeyHistory, r.log)
	if items == nil {
		return []Item{}
	}
	return items
}

// Get returns the item with the given id.
func (r *Registry) Get(ctx context.Context, id string) (Item, bool) {
	for _, item := range r.All(ctx) {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Add records groups as a new item at the front of the history and trims it
// to MaxItems.
func (r *Registry) Add(ctx context.Context, groups []KeywordGroup) []Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	item := Item{ID: r.newID(now), Timestamp: now.UnixMilli(), Groups: groups}

	current := r.All(ctx)
	updated := make([]Item, 0, len(current)+1)
	updated = append(updated, item)
	updated = append(updated, current...)
	if len(updated) > MaxItems {
		updated = updated[:MaxItems]
	}

	r.save(ctx, updated)
	return updated
}

// Save replaces the stored history with items.
func (r *Registry) Save(ctx context.Context, items []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.save(ctx, items)
}

// Delete removes the item with the given id and returns the remaining
// history. The read and the write happen under one lock, so a concurrent Add
// is never lost.
func (r *Registry) Delete(ctx context.Context, id string) []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := Remove(r.All(ctx), id)
	r.save(ctx, items)
	return items
}

// Clear deletes the whole history.
func (r *Registry) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Remove(ctx, kvstore.KeyHistory); err != nil {
		r.log.Warn("clearing history failed", zap.Error(err))
	}
}

func (r *Registry) save(ctx context.Context, items []Item) {
	if items == nil {
		items = []Item{}
	}
	if err := kvstore.SaveJSON(ctx, r.store, kvstore.KeyHistory, items); err != nil {
		r.log.Warn("saving history failed", zap.Error(err))
	}
}

// Remove returns items without the entry whose ID is id.
func Remove(items []Item, id string) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return kept
}
