package cache

import (
	"context"
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
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "brands", []byte(`[{"code":"HONDA"}]`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "brands")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if string(data) != `[{"code":"HONDA"}]` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "brands"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "brands"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "brands"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache_OverwriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, v := range []string{"one", "two"} {
		if err := c.Set(ctx, "k", []byte(v), time.Hour); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "two" {
		t.Errorf("Get = %q, want two", data)
	}
	entries, err := os.ReadDir(filepath.Dir(c.path("k")))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("shard holds %d files, want 1", len(entries))
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get = (%v, %v), want clean miss", hit, err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("entries after Clear = %d, want 0", len(entries))
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type brand struct{ Name, Code string }
	in := []brand{{"HONDA", "HONDA"}, {"Toyota", "TOYOTA"}}
	if err := SetJSON(ctx, c, "brands", in, time.Hour); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out []brand
	ok, err := GetJSON(ctx, c, "brands", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON = (%v, %v)", ok, err)
	}
	if len(out) != 2 || out[1].Code != "TOYOTA" {
		t.Errorf("out = %+v", out)
	}

	_ = c.Set(ctx, "broken", []byte("{"), time.Hour)
	if ok, err := GetJSON(ctx, c, "broken", &out); ok || err != nil {
		t.Errorf("GetJSON corrupt = (%v, %v), want miss", ok, err)
	}
	if _, hit, _ := c.Get(ctx, "broken"); hit {
		t.Error("corrupt JSON entry should be deleted")
	}
}

func TestKey(t *testing.T) {
	k1 := Key("brands", "https://catalog.example")
	k2 := Key("brands", "https://catalog.example")
	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if !strings.HasPrefix(k1, "brands:") {
		t.Errorf("Key prefix: %s", k1)
	}
	if Key("x", "a", "bc") == Key("x", "ab", "c") {
		t.Error("part boundaries should affect the key")
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

func TestNewRedisCache(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"host port", "localhost:6379", false},
		{"url", "redis://localhost:6379/2", false},
		{"bad url", "redis://localhost:6379/notadb", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewRedisCache(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRedisCache(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if c != nil {
				_ = c.Close()
			}
		})
	}
}
