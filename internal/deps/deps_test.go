package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agrovista/internal/services"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesUnconfigured(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Empty"}})
	if len(results) != 1 || results[0].Available {
		t.Fatalf("expected unconfigured requirement to be unavailable, got %#v", results)
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestResolveEncoderMissing(t *testing.T) {
	if _, err := ResolveEncoder("clearly-not-present-binary"); !errors.Is(err, services.ErrEncoderMissing) {
		t.Fatalf("expected ErrEncoderMissing, got %v", err)
	}
	if _, err := ResolveEncoder(""); !errors.Is(err, services.ErrEncoderMissing) {
		t.Fatalf("expected ErrEncoderMissing for empty command, got %v", err)
	}
}

func TestResolveEncoderFound(t *testing.T) {
	binDir := t.TempDir()
	encoder := filepath.Join(binDir, "encoder")
	if err := os.WriteFile(encoder, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	path, err := ResolveEncoder(encoder)
	if err != nil {
		t.Fatalf("expected resolution to succeed: %v", err)
	}
	if path != encoder {
		t.Fatalf("expected %s, got %s", encoder, path)
	}
}
