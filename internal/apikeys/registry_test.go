package apikeys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/stockseo/internal/db"
	"github.com/ziadkadry99/stockseo/internal/kvstore"
)

func setupTestRegistry(t *testing.T) (*Registry, *fakeClock) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	reg := NewRegistry(kvstore.NewSQLiteStore(database), nil)
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	reg.now = clock.Now
	return reg, clock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestActiveKey(t *testing.T) {
	reg, _ := setupTestRegistry(t)
	ctx := context.Background()

	if got := reg.Active(ctx); got != "" {
		t.Errorf("expected empty active key, got %q", got)
	}

	reg.SetActive(ctx, "key-one")
	reg.SetActive(ctx, "key-two")
	if got := reg.Active(ctx); got != "key-two" {
		t.Errorf("expected key-two, got %q", got)
	}
}

func TestRecordUsageEmptyKeyIsNoop(t *testing.T) {
	reg, _ := setupTestRegistry(t)
	ctx := context.Background()

	reg.RecordUsage(ctx, "a")
	got := reg.RecordUsage(ctx, "")
	if len(got) != 1 || got[0].Key != "a" {
		t.Errorf("unexpected history after empty key: %+v", got)
	}
}

func TestRecordUsageMovesToFront(t *testing.T) {
	reg, clock := setupTestRegistry(t)
	ctx := context.Background()

	reg.RecordUsage(ctx, "a")
	clock.Advance(time.Second)
	reg.RecordUsage(ctx, "b")
	clock.Advance(time.Second)
	first := reg.RecordUsage(ctx, "a")
	clock.Advance(time.Second)
	second := reg.RecordUsage(ctx, "a")

	if len(second) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(second), second)
	}
	if second[0].Key != "a" || second[1].Key != "b" {
		t.Errorf("unexpected order: %+v", second)
	}
	if second[0].LastUsed <= first[0].LastUsed {
		t.Errorf("expected timestamp to advance: %d -> %d", first[0].LastUsed, second[0].LastUsed)
	}

	stored := reg.History(ctx)
	if len(stored) != 2 || stored[0] != second[0] {
		t.Errorf("persisted history differs: %+v", stored)
	}
}

func TestRecordUsageCapsHistory(t *testing.T) {
	reg, clock := setupTestRegistry(t)
	ctx := context.Background()

	for i := 0; i < MaxHistory+5; i++ {
		clock.Advance(time.Millisecond)
		reg.RecordUsage(ctx, fmt.Sprintf("key-%02d", i))
	}

	history := reg.History(ctx)
	if len(history) != MaxHistory {
		t.Fatalf("expected %d entries, got %d", MaxHistory, len(history))
	}
	if history[0].Key != "key-14" {
		t.Errorf("expected newest key first, got %q", history[0].Key)
	}
	if history[MaxHistory-1].Key != "key-05" {
		t.Errorf("expected oldest kept key-05, got %q", history[MaxHistory-1].Key)
	}
}

func TestRemoveAndClear(t *testing.T) {
	reg, _ := setupTestRegistry(t)
	ctx := context.Background()

	reg.RecordUsage(ctx, "a")
	reg.RecordUsage(ctx, "b")
	reg.RecordUsage(ctx, "c")

	got := reg.Remove(ctx, "b")
	if len(got) != 2 || got[0].Key != "c" || got[1].Key != "a" {
		t.Errorf("unexpected history after remove: %+v", got)
	}

	reg.SetActive(ctx, "c")
	reg.Clear(ctx)
	if h := reg.History(ctx); len(h) != 0 {
		t.Errorf("expected empty history after clear, got %+v", h)
	}
	if reg.Active(ctx) != "c" {
		t.Error("clearing history must not clear the active key")
	}
}

func TestHistoryCorruptStorage(t *testing.T) {
	store := kvstore.NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, kvstore.KeyAPIKeyHistory, "[{broken")

	reg := NewRegistry(store, nil)
	if h := reg.History(ctx); len(h) != 0 {
		t.Errorf("expected empty history, got %+v", h)
	}
	if h := reg.RecordUsage(ctx, "fresh"); len(h) != 1 {
		t.Errorf("expected registry to recover, got %+v", h)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("quota exceeded")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("quota exceeded") }

func TestStorageFailuresAreSwallowed(t *testing.T) {
	reg := NewRegistry(failingStore{}, nil)
	ctx := context.Background()

	reg.SetActive(ctx, "x")
	if got := reg.Active(ctx); got != "" {
		t.Errorf("expected empty active key, got %q", got)
	}
	if got := reg.RecordUsage(ctx, "x"); len(got) != 1 {
		t.Errorf("expected in-memory result, got %+v", got)
	}
	reg.Clear(ctx)
}

func TestMask(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "1234...5678"},
		{"AIzaSyExampleKey9876", "AIza...9876"},
	}
	for _, tt := range tests {
		if got := Mask(tt.key); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestRoutes(t *testing.T) {
	reg, _ := setupTestRegistry(t)
	r := chi.NewRouter()
	RegisterRoutes(r, reg)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/key", strings.NewReader(`{"key":"AIzaSyExampleKey9876"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}

	reg.RecordUsage(context.Background(), "AIzaSyExampleKey9876")
	reg.RecordUsage(context.Background(), "other-key-000000")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/keys", nil))
	var entries []Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Active || !entries[1].Active {
		t.Errorf("expected only the second entry to be active: %+v", entries)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/keys/select", strings.NewReader(`{"key":"other-key-000000"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d", rec.Code)
	}
	if reg.Active(context.Background()) != "other-key-000000" {
		t.Error("expected selected key to become active")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/key", nil))
	var active activeResponse
	json.NewDecoder(rec.Body).Decode(&active)
	if !active.Set || active.Masked != "othe...0000" {
		t.Errorf("unexpected active response: %+v", active)
	}
}
