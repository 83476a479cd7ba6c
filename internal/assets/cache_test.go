package assets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"agrovista/internal/assets"
	"agrovista/internal/logging"
	"agrovista/internal/series"
)

func TestResolveLocalPathPassesThrough(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "thumb.png")
	if err := os.WriteFile(local, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := assets.NewCache(filepath.Join(dir, "cache"), time.Second, logging.NewNop())
	path, ok := cache.Resolve(context.Background(), "P-001", series.NDVI, 2024, 7, local)
	if !ok {
		t.Fatal("expected local thumbnail to resolve")
	}
	if path != local {
		t.Fatalf("expected passthrough path %s, got %s", local, path)
	}
}

func TestResolveMissingLocalPath(t *testing.T) {
	cache := assets.NewCache(t.TempDir(), time.Second, logging.NewNop())
	if _, ok := cache.Resolve(context.Background(), "P-001", series.NDVI, 2024, 7, "/nonexistent/thumb.png"); ok {
		t.Fatal("expected missing file to be unavailable")
	}
}

func TestResolveEmptyHandle(t *testing.T) {
	cache := assets.NewCache(t.TempDir(), time.Second, logging.NewNop())
	if _, ok := cache.Resolve(context.Background(), "P-001", series.NDMI, 2024, 7, ""); ok {
		t.Fatal("expected empty handle to be unavailable")
	}
}

func TestResolveDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	cache := assets.NewCache(dir, time.Second, logging.NewNop())

	first, ok := cache.Resolve(context.Background(), "P-001", series.SAVI, 2024, 7, server.URL)
	if !ok {
		t.Fatal("expected download to succeed")
	}
	want := filepath.Join(dir, "P-001_savi_202407.png")
	if first != want {
		t.Fatalf("expected deterministic cache name %s, got %s", want, first)
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected cached content %q", data)
	}

	second, ok := cache.Resolve(context.Background(), "P-001", series.SAVI, 2024, 7, server.URL)
	if !ok || second != first {
		t.Fatalf("expected cache hit, got %s ok=%v", second, ok)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single download, server saw %d", hits.Load())
	}
}

func TestResolveDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cache := assets.NewCache(t.TempDir(), time.Second, logging.NewNop())
	if _, ok := cache.Resolve(context.Background(), "P-001", series.NDVI, 2024, 7, server.URL); ok {
		t.Fatal("expected failed download to be unavailable")
	}
}
