// Package kvstore persists small string values under fixed keys. Higher-level
// registries keep one JSON document per key and replace it on every write.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Keys used by the registries. Each key has exactly one owning writer.
const (
	KeyActiveAPIKey  = "gemini-api-key"
	KeyAPIKeyHistory = "gemini-api-key-history"
	KeyHistory       = "keyword-generation-history"
	KeyLanguage      = "language"

	// KeyTourViewed lives in the session store, not the persistent one.
	KeyTourViewed = "onboardingTourViewed"
)

// ErrStorage wraps quota, serialization and I/O failures of a backend.
var ErrStorage = errors.New("storage error")

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

func storageErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrStorage, op, key, err)
}

// LoadJSON decodes the JSON document stored under key. Missing keys,
// backend failures and corrupt documents all yield the zero value and false;
// failures are logged, never returned.
func LoadJSON[T any](ctx context.Context, s Store, key string, log *zap.Logger) (T, bool) {
	var zero T
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Warn("reading stored value failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Error("discarding unparseable stored value", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// SaveJSON encodes v and replaces the document stored under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return storageErr("encode", key, err)
	}
	return s.Set(ctx, key, string(data))
}
