package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "pypi:requests"); hit || err != nil {
		t.Fatalf("Get on empty cache = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "pypi:requests", []byte(`{"name":"requests"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "pypi:requests")
	if err != nil || !hit {
		t.Fatalf("Get after Set = %v, %v; want hit", hit, err)
	}
	if string(data) != `{"name":"requests"}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "pypi:requests"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "pypi:requests"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "pypi:requests"); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry present after Clear")
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	shared, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	pypi := Scoped(shared, "pypi:")
	osv := Scoped(shared, "osv:")

	if err := pypi.Set(ctx, "requests", []byte("pypi"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := osv.Get(ctx, "requests"); hit {
		t.Error("scopes should not share keys")
	}
	data, hit, _ := shared.Get(ctx, "pypi:requests")
	if !hit || string(data) != "pypi" {
		t.Errorf("shared.Get(pypi:requests) = %q, %v", data, hit)
	}

	if err := pypi.Close(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := shared.Get(ctx, "pypi:requests"); !hit {
		t.Error("closing a scope must not affect the shared cache")
	}
}

func TestScopedNil(t *testing.T) {
	s := Scoped(nil, "x:")
	if err := s.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := s.Get(context.Background(), "k"); hit {
		t.Error("nil inner cache should behave like NullCache")
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"pypi", "Requests"}, "pypi:requests"},
		{[]string{"osv", "PyPI", "nose"}, "osv:pypi:nose"},
		{[]string{"single"}, "single"},
	}
	for _, tt := range tests {
		if got := Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
