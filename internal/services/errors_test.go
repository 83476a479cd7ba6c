package services_test

import (
	"errors"
	"fmt"
	"testing"

	"agrovista/internal/services"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrRenderer, "pdf", "write", "saving report", base)
	if !errors.Is(err, services.ErrRenderer) {
		t.Fatalf("expected renderer marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "renderer failure: pdf: write: saving report: disk full"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrNoData, "assembly", "", "series empty", nil)
	if !errors.Is(err, services.ErrNoData) {
		t.Fatalf("expected no-data marker, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrRenderer) {
		t.Fatalf("expected default renderer marker, got %v", err)
	}
	if err.Error() != "renderer failure: service failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"no data", services.Wrap(services.ErrNoData, "assembly", "fetch", "empty series", nil), services.ExitNoData},
		{"validation", services.Wrap(services.ErrValidation, "cli", "", "unknown index", nil), services.ExitNoData},
		{"renderer", services.Wrap(services.ErrRenderer, "pdf", "", "", errors.New("boom")), services.ExitRenderer},
		{"encoder missing", services.ErrEncoderMissing, services.ExitEncoderAbsent},
		{"wrapped encoder missing", fmt.Errorf("video: %w", services.ErrEncoderMissing), services.ExitEncoderAbsent},
		{"unclassified", errors.New("mystery"), services.ExitRenderer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
