package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "agrovista.log")

	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("report rendered", String(FieldParcel, "p-1"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"report rendered"`) {
		t.Fatalf("log file missing message: %s", data)
	}
	if !strings.Contains(string(data), `"parcel":"p-1"`) {
		t.Fatalf("log file missing attr: %s", data)
	}
}

func TestConsoleHandlerIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "legal").Warn("layer unavailable", String(FieldLayer, "paramos"))

	out := buf.String()
	if !strings.Contains(out, "[legal]") {
		t.Fatalf("missing component tag: %q", out)
	}
	if !strings.Contains(out, "layer=paramos") {
		t.Fatalf("missing attr: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for non-tty writer: %q", out)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should vanish", Error(nil))
	if logger.Enabled(nil, slog.LevelError) { //nolint:staticcheck
		t.Fatal("noop logger should report disabled")
	}
}
