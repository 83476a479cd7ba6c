// Package testsupport provides shared fixtures for package tests: a config
// seeded with per-test temp directories, an opened catalog store with
// cleanup, and canned parcels with monthly series.
package testsupport

import (
	"path/filepath"
	"testing"

	"agrovista/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// All output, layer, cache and database paths live under one t.TempDir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LayersDir = filepath.Join(base, "layers")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.DatabasePath = filepath.Join(base, "catalog.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithEncoderCommand sets the video encoder command on the test config.
func WithEncoderCommand(command string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Video.EncoderCommand = command
	}
}
