package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T, ttl time.Duration) (*SQLiteCache, *fakeClock) {
	t.Helper()
	c, err := NewSQLiteCache(context.Background(), SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "nested", "cache.db"),
		TTL:  ttl,
	})
	if err != nil {
		t.Fatalf("NewSQLiteCache failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.Now
	return c, clock
}

func TestSQLiteCache_GetSet(t *testing.T) {
	c, _ := newTestSQLite(t, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}
	if err := c.Set("k", "Bonjour"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, ok := c.Get("k"); !ok || val != "Bonjour" {
		t.Errorf("Get = (%q, %v), want (Bonjour, true)", val, ok)
	}

	if err := c.Set("k", "Salut"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if val, _ := c.Get("k"); val != "Salut" {
		t.Errorf("expected overwritten value, got %q", val)
	}
	if n, err := c.Len(); err != nil || n != 1 {
		t.Errorf("Len = (%d, %v), want 1", n, err)
	}
}

func TestSQLiteCache_Expiry(t *testing.T) {
	c, clock := newTestSQLite(t, time.Minute)

	if err := c.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry should still be live")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}

	n, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Purge removed %d rows, want 1", n)
	}
}

func TestSQLiteCache_DeleteAndSnapshot(t *testing.T) {
	c, _ := newTestSQLite(t, 0)

	for k, v := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}
	if err := c.Delete("b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap) != 2 || snap["a"] != "1" || snap["c"] != "3" {
		t.Errorf("unexpected snapshot %v", snap)
	}
}

func TestSQLiteCache_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(ctx, SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := first.Set("k", "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := NewSQLiteCache(ctx, SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	if val, ok := second.Get("k"); !ok || val != "persisted" {
		t.Errorf("Get after reopen = (%q, %v)", val, ok)
	}
}

func TestNewSQLiteCache_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteCache(context.Background(), SQLiteConfig{}); err == nil {
		t.Error("expected error for empty path")
	}
}
