package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agrovista/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantMedia := filepath.Join(tempHome, ".local", "share", "agrovista", "media")
	if cfg.Paths.MediaDir != wantMedia {
		t.Fatalf("unexpected media dir: got %q want %q", cfg.Paths.MediaDir, wantMedia)
	}
	if cfg.Reports.DefaultMonthsBack != 12 {
		t.Fatalf("unexpected months back: %d", cfg.Reports.DefaultMonthsBack)
	}
	if cfg.Video.EncoderCommand != "ffmpeg" {
		t.Fatalf("unexpected encoder command: %q", cfg.Video.EncoderCommand)
	}
	if cfg.Thumbnails.DownloadTimeoutSeconds != 15 {
		t.Fatalf("unexpected download timeout: %d", cfg.Thumbnails.DownloadTimeoutSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrovista.toml")
	body := strings.Join([]string{
		"[paths]",
		`media_dir = "` + filepath.Join(dir, "media") + `"`,
		"[reports]",
		"default_months_back = 6",
		`product_name = "CampoVerde"`,
		"[logging]",
		`format = "json"`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit file to be used, got exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Reports.DefaultMonthsBack != 6 {
		t.Fatalf("unexpected months back: %d", cfg.Reports.DefaultMonthsBack)
	}
	if cfg.Reports.ProductName != "CampoVerde" {
		t.Fatalf("unexpected product name: %q", cfg.Reports.ProductName)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected format: %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"months back", func(c *config.Config) { c.Reports.DefaultMonthsBack = 0 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"encoder", func(c *config.Config) { c.Video.EncoderCommand = "" }},
		{"media dir", func(c *config.Config) { c.Paths.MediaDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			// Mirror normalize: validation sees cleaned values.
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			cfg.Paths.MediaDir = "/tmp/media"
			cfg.Paths.DatabasePath = "/tmp/catalog.db"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error on second WriteSample")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[reports]") {
		t.Fatalf("sample missing reports section: %s", data)
	}
}
