package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/db"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	return map[string]Store{
		"sqlite": NewSQLiteStore(database),
		"file":   fileStore,
		"memory": NewMemoryStore(),
	}
}

func TestStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
			}

			if err := s.Set(ctx, "k", "v1"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "k", "v2"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, ok, err := s.Get(ctx, "k")
			if err != nil || !ok || got != "v2" {
				t.Fatalf("Get(k) = %q ok=%v err=%v, want v2", got, ok, err)
			}

			if err := s.Remove(ctx, "k"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k"); ok {
				t.Error("expected key to be removed")
			}
			if err := s.Remove(ctx, "k"); err != nil {
				t.Errorf("Remove of missing key: %v", err)
			}
		})
	}
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	want := []sample{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	if err := SaveJSON(ctx, s, "samples", want); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	got, ok := LoadJSON[[]sample](ctx, s, "samples", zap.NewNop())
	if !ok {
		t.Fatal("expected LoadJSON to succeed")
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("LoadJSON = %+v, want %+v", got, want)
	}
}

func TestLoadJSONFailOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", "{not json"},
		{"wrong shape", `{"name":"x"}`},
		{"wrong element type", `[1, 2, 3]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			_ = s.Set(ctx, "samples", tt.raw)

			got, ok := LoadJSON[[]sample](ctx, s, "samples", zap.NewNop())
			if ok {
				t.Error("expected LoadJSON to report failure")
			}
			if got != nil {
				t.Errorf("expected zero value, got %+v", got)
			}
		})
	}
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenStore) Set(context.Context, string, string) error         { return b.err }
func (b brokenStore) Remove(context.Context, string) error              { return b.err }

func TestLoadJSONBackendFailure(t *testing.T) {
	s := brokenStore{err: storageErr("get", "samples", errors.New("disk gone"))}
	got, ok := LoadJSON[[]sample](context.Background(), s, "samples", zap.NewNop())
	if ok || got != nil {
		t.Errorf("LoadJSON = %+v, %v; want nil, false", got, ok)
	}
}

func TestSaveJSONEncodeFailure(t *testing.T) {
	err := SaveJSON(context.Background(), NewMemoryStore(), "bad", make(chan int))
	if !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestFileStoreRecoversFromCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, _, err := s.Get(ctx, "k"); !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage reading corrupt file, got %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set over corrupt file: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Get after rewrite = %q %v %v", got, ok, err)
	}
}

func TestFileStoreSharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	a, _ := NewFileStore(path)
	b, _ := NewFileStore(path)

	if err := a.Set(ctx, "lang", "id"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := b.Get(ctx, "lang")
	if err != nil || !ok || got != "id" {
		t.Errorf("second instance Get = %q %v %v", got, ok, err)
	}
}
