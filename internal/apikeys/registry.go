// Package apikeys manages the active API credential and a bounded,
// most-recently-used list of credentials used before.
package apikeys

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/kvstore"
)

// Registry is the sole writer of the active-key and key-history entries.
// Storage failures are logged and otherwise ignored.
type Registry struct {
	store kvstore.Store
	log   *zap.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store kvstore.Store, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, log: log.Named("apikeys"), now: time.Now}
}

// Active returns the active credential, or "" if none was ever set.
func (r *Registry) Active(ctx context.Context) string {
	key, _, err := r.store.Get(ctx, kvstore.KeyActiveAPIKey)
	if err != nil {
		r.log.Warn("reading active key failed", zap.Error(err))
		return ""
	}
	return key
}

// SetActive overwrites the active credential without validating it.
func (r *Registry) SetActive(ctx context.Context, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Set(ctx, kvstore.KeyActiveAPIKey, key); err != nil {
		r.log.Warn("saving active key failed", zap.Error(err))
	}
}

// History returns remembered credentials, most recently used first.
func (r *Registry) History(ctx context.Context) []HistoryItem {
	items, _ := kvstore.LoadJSON[[]HistoryItem](ctx, r.store, kvstore.KeyAPIKeyHistory, r.log)
	if items == nil {
		return []HistoryItem{}
	}
	return items
}

// RecordUsage moves key to the front of the history with a fresh timestamp,
// inserting it if new, and trims the list to MaxHistory. An empty key leaves
// the history untouched.
func (r *Registry) RecordUsage(ctx context.Context, key string) []HistoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.History(ctx)
	if key == "" {
		return history
	}

	updated := make([]HistoryItem, 0, len(history)+1)
	updated = append(updated, HistoryItem{Key: key, LastUsed: r.now().UnixMilli()})
	for _, item := range history {
		if item.Key != key {
			updated = append(updated, item)
		}
	}
	if len(updated) > MaxHistory {
		updated = updated[:MaxHistory]
	}

	r.save(ctx, updated)
	return updated
}

// Remove drops the entry for key, if any.
func (r *Registry) Remove(ctx context.Context, key string) []HistoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.History(ctx)
	kept := make([]HistoryItem, 0, len(history))
	for _, item := range history {
		if item.Key != key {
			kept = append(kept, item)
		}
	}
	r.save(ctx, kept)
	return kept
}

// Clear deletes the whole key history. The active key is kept.
func (r *Registry) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Remove(ctx, kvstore.KeyAPIKeyHistory); err != nil {
		r.log.Warn("clearing key history failed", zap.Error(err))
	}
}

func (r *Registry) save(ctx context.Context, items []HistoryItem) {
	if err := kvstore.SaveJSON(ctx, r.store, kvstore.KeyAPIKeyHistory, items); err != nil {
		r.log.Warn("saving key history failed", zap.Error(err))
	}
}
