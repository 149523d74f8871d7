package symbols

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saint0x/jello/internal/types"
)

func TestCacheRoundTripsOnUnchangedFile(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := OpenCache(cacheDir)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "lib.a")
	if err := os.WriteFile(archive, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	want := []types.Symbol{{Name: "foo", Kind: types.SymText, Scope: types.ScopeGlobal}}
	if err := cache.Put(archive, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get(archive)
	if !ok {
		t.Fatalf("expected a cache hit for an unchanged file")
	}
	if len(got) != 1 || got[0].Name != "foo" {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestCacheMissesAfterFileChanges(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := OpenCache(cacheDir)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "lib.a")
	if err := os.WriteFile(archive, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if err := cache.Put(archive, []types.Symbol{{Name: "foo"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	future := time.Now().Add(time.Hour)
	if err := os.WriteFile(archive, []byte("stub-changed"), 0o644); err != nil {
		t.Fatalf("rewrite archive: %v", err)
	}
	if err := os.Chtimes(archive, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, ok := cache.Get(archive); ok {
		t.Fatalf("expected a cache miss after the file changed")
	}
}

func TestCacheMissesWithoutAnEntry(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	if _, ok := cache.Get(filepath.Join(t.TempDir(), "never-cached.a")); ok {
		t.Fatalf("expected a miss for a path never Put")
	}
}

func TestNilCacheIsAlwaysAMiss(t *testing.T) {
	var cache *Cache
	if _, ok := cache.Get("whatever"); ok {
		t.Fatalf("expected a nil cache to always miss")
	}
	if err := cache.Put("whatever", nil); err != nil {
		t.Fatalf("expected a nil cache Put to be a no-op, got %v", err)
	}
}

func TestStatsCountsWrittenEntries(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := OpenCache(cacheDir)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	if _, n := cache.Stats(); n != 0 {
		t.Fatalf("expected an empty cache to report 0 entries, got %d", n)
	}

	a := filepath.Join(t.TempDir(), "a.a")
	b := filepath.Join(t.TempDir(), "b.a")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("stub"), 0o644); err != nil {
			t.Fatalf("write archive: %v", err)
		}
		if err := cache.Put(p, []types.Symbol{{Name: "x"}}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	dir, n := cache.Stats()
	if dir != cacheDir {
		t.Fatalf("Stats dir = %q, want %q", dir, cacheDir)
	}
	if n != 2 {
		t.Fatalf("Stats entries = %d, want 2", n)
	}
}

func TestNilCacheStatsAreEmpty(t *testing.T) {
	var cache *Cache
	if dir, n := cache.Stats(); dir != "" || n != 0 {
		t.Fatalf("nil cache Stats = (%q, %d), want (\"\", 0)", dir, n)
	}
}
