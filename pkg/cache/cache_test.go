package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := Hash([]byte("context"))

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte(`{"marks":[]}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if string(data) != `{"marks":[]}` {
		t.Errorf("data = %q", data)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("expected miss after delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "bad", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	p := filepath.Join(dir, "ba", "bad.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}
	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Fatalf("corrupt entry should miss, got hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("corrupt entry should have been removed")
	}
}

func TestFileCachePurge(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	for _, key := range []string{"aa1", "bb2", "cc3"} {
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}
	if err := c.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	for _, key := range []string{"aa1", "bb2", "cc3"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("key %s survived purge", key)
		}
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("null cache must always miss, got hit=%v err=%v", hit, err)
	}
}

func TestSpecKeyDistinguishesOptions(t *testing.T) {
	k := NewDefaultKeyer()
	h := Hash([]byte("same context"))

	base := SpecKeyOpts{Width: 600, Height: 400}
	tests := []struct {
		name string
		opts SpecKeyOpts
	}{
		{"width", SpecKeyOpts{Width: 800, Height: 400}},
		{"title", SpecKeyOpts{Width: 600, Height: 400, Title: "t"}},
		{"interactive", SpecKeyOpts{Width: 600, Height: 400, Interactive: true}},
		{"tooltip", SpecKeyOpts{Width: 600, Height: 400, Tooltip: true}},
	}
	baseKey := k.SpecKey(h, base)
	if baseKey != k.SpecKey(h, base) {
		t.Fatal("key generation must be deterministic")
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.SpecKey(h, tt.opts) == baseKey {
				t.Error("option change did not change the key")
			}
		})
	}
	if k.SpecKey(Hash([]byte("other context")), base) == baseKey {
		t.Error("context change did not change the key")
	}
}

func TestScopedKeyerPrefixes(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "team1:")
	h := Hash([]byte("ctx"))
	opts := SpecKeyOpts{Width: 600, Height: 400}

	got := scoped.SpecKey(h, opts)
	want := "team1:" + inner.SpecKey(h, opts)
	if got != want {
		t.Errorf("scoped key = %q, want %q", got, want)
	}
}
