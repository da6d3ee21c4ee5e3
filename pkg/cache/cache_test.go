package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"
)

func setupStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		t.Fatalf("wrap db: %v", err)
	}
	store, err := NewStoreWithDB(context.Background(), db, ttl)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, time.Minute)

	if _, found, err := store.Get(ctx, "search", "missing"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := store.Put(ctx, "search", "q1", []byte(`[{"link":"https://example.com"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload, found, err := store.Get(ctx, "search", "q1")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if string(payload) != `[{"link":"https://example.com"}]` {
		t.Fatalf("unexpected payload: %s", payload)
	}

	// Kinds are independent key spaces.
	if _, found, _ := store.Get(ctx, "extract", "q1"); found {
		t.Fatalf("expected miss for other kind")
	}

	// Overwrite replaces the payload.
	if err := store.Put(ctx, "search", "q1", []byte("[]")); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload, _, _ = store.Get(ctx, "search", "q1")
	if string(payload) != "[]" {
		t.Fatalf("expected overwrite, got %s", payload)
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, 10*time.Millisecond)

	if err := store.Put(ctx, "search", "q1", []byte("[]")); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	if _, found, err := store.Get(ctx, "search", "q1"); err != nil || found {
		t.Fatalf("expected expired entry to miss, found=%v err=%v", found, err)
	}

	pruned, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned row, got %d", pruned)
	}
}
