package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"agrovista/internal/logging"
	"agrovista/internal/series"
	"agrovista/internal/textutil"
)

// Cache stores downloaded thumbnails under a caller-provided directory.
// The directory is safe to delete between runs.
type Cache struct {
	dir    string
	client *http.Client
	lock   *flock.Flock
	logger *slog.Logger
}

// NewCache builds a cache rooted at dir. The timeout bounds each download.
func NewCache(dir string, timeout time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: timeout},
		lock:   flock.New(filepath.Join(dir, "cache.lock")),
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Resolve turns a thumbnail handle into a local path. Local handles pass
// through when the file exists; HTTP handles are downloaded once and reused
// afterwards. ok reports whether the slot has usable content.
func (c *Cache) Resolve(ctx context.Context, parcelID string, kind series.IndexKind, year, month int, handle string) (path string, ok bool) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", false
	}

	if !strings.HasPrefix(handle, "http://") && !strings.HasPrefix(handle, "https://") {
		if _, err := os.Stat(handle); err != nil {
			c.logger.Warn("thumbnail file missing",
				logging.String(logging.FieldParcel, parcelID),
				logging.String("path", handle))
			return "", false
		}
		return handle, true
	}

	cached := filepath.Join(c.dir, cacheName(parcelID, kind, year, month))
	if _, err := os.Stat(cached); err == nil {
		return cached, true
	}

	if err := c.download(ctx, handle, cached); err != nil {
		c.logger.Warn("thumbnail download failed",
			logging.String(logging.FieldParcel, parcelID),
			logging.String(logging.FieldIndex, string(kind)),
			logging.String(logging.FieldPeriod, fmt.Sprintf("%04d-%02d", year, month)),
			logging.Error(err))
		return "", false
	}
	return cached, true
}

// cacheName is the deterministic on-disk name for one thumbnail slot.
func cacheName(parcelID string, kind series.IndexKind, year, month int) string {
	return fmt.Sprintf("%s_%s_%04d%02d.png", textutil.SanitizeFileName(parcelID), kind, year, month)
}

func (c *Cache) download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() {
		_ = c.lock.Unlock()
	}()

	// Another process may have completed the download while we waited.
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, "download-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
