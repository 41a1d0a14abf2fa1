package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("empty cache should miss")
	}

	value := []byte("languages")
	if err := c.Set(ctx, "a", value, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value[0] = 'X'

	got, hit, err := c.Get(ctx, "a")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(got) != "languages" {
		t.Errorf("Get = %q, stored data must be copied", got)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted key should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("1"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("2"), 0)

	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "short"); !hit {
		t.Error("entry should survive before its ttl")
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry should expire after its ttl")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, expired entry should be dropped", c.Len())
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	_ = c.Set(ctx, "a", []byte("1"), 0)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Get(ctx, "a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close error = %v, want ErrClosed", err)
	}
	if err := c.Set(ctx, "a", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close error = %v, want ErrClosed", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	body := []byte(`[{"id":"c++","name":"C++"}]`)
	if err := c.Set(ctx, "http:languages:url", body, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, hit, err := c.Get(ctx, "http:languages:url")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Get = %s, want %s", got, body)
	}

	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("unknown key should miss")
	}

	if err := c.Delete(ctx, "http:languages:url"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "http:languages:url"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if _, hit, _ := c.Get(ctx, "http:languages:url"); hit {
		t.Error("deleted key should miss")
	}
}

func TestFileCacheExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	path := c.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want clean miss", hit, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestKeyers(t *testing.T) {
	url := "https://godbolt.org/api/languages?fields=id,name"

	if got := NewDefaultKeyer().HTTPKey("languages", url); got != "http:languages:"+url {
		t.Errorf("DefaultKeyer.HTTPKey = %q", got)
	}

	scoped := NewScopedKeyer(nil, "godbolt:")
	if got := scoped.HTTPKey("languages", url); got != "godbolt:http:languages:"+url {
		t.Errorf("ScopedKeyer.HTTPKey = %q", got)
	}

	nested := NewScopedKeyer(scoped, "team:")
	if got := nested.HTTPKey("compilers", "u"); got != "team:godbolt:http:compilers:u" {
		t.Errorf("nested ScopedKeyer.HTTPKey = %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		opts    Options
		want    string
		wantErr string
	}{
		{Options{}, "*cache.NullCache", ""},
		{Options{Backend: BackendNone}, "*cache.NullCache", ""},
		{Options{Backend: BackendMemory}, "*cache.MemoryCache", ""},
		{Options{Backend: BackendFile, Dir: t.TempDir()}, "*cache.FileCache", ""},
		{Options{Backend: BackendRedis}, "", "no url"},
		{Options{Backend: BackendMongo}, "", "no uri"},
		{Options{Backend: "memcached"}, "", "unknown cache backend"},
	}
	for _, tt := range tests {
		t.Run(tt.opts.Backend, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Open error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "godbolt") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *MemoryCache:
		return "*cache.MemoryCache"
	case *FileCache:
		return "*cache.FileCache"
	}
	return "unknown"
}
