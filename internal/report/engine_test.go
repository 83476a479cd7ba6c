package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agrovista/internal/catalog"
	"agrovista/internal/config"
	"agrovista/internal/logging"
	"agrovista/internal/report"
	"agrovista/internal/series"
	"agrovista/internal/services"
	"agrovista/internal/testsupport"
)

func seedStore(t *testing.T, cfg *config.Config) *catalog.Store {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedParcel(t, store, series.Parcel{
		ID:     "P-001",
		Name:   "La Esperanza",
		Owner:  "Familia Restrepo",
		Crop:   "coffee",
		AreaHa: 3.4,
	})
	testsupport.SeedMonthlySeries(t, store, "P-001", 2024, 1,
		[]float64{0.55, 0.58, 0.61, 0.60, 0.64, 0.66})
	return store
}

func TestGenerateReportWritesPDF(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedStore(t, cfg)
	engine := report.NewEngine(cfg, store, logging.NewNop())

	path, err := engine.GenerateReport(context.Background(), "P-001", 12, "")
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(cfg.Paths.MediaDir, "informes")) {
		t.Fatalf("report stored outside informes dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("expected a PDF artifact")
	}
}

func TestGenerateReportHonorsExplicitOutPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedStore(t, cfg)
	engine := report.NewEngine(cfg, store, logging.NewNop())

	want := filepath.Join(t.TempDir(), "custom", "salida.pdf")
	path, err := engine.GenerateReport(context.Background(), "P-001", 12, want)
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateReportUnknownParcel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedStore(t, cfg)
	engine := report.NewEngine(cfg, store, logging.NewNop())

	_, err := engine.GenerateReport(context.Background(), "missing", 12, "")
	if !errors.Is(err, catalog.ErrParcelNotFound) {
		t.Fatalf("expected ErrParcelNotFound, got %v", err)
	}
	if services.ExitCode(err) != services.ExitNoData {
		t.Fatalf("expected exit code %d, got %d", services.ExitNoData, services.ExitCode(err))
	}
}

func TestGenerateVideoWithStubEncoder(t *testing.T) {
	encoder := filepath.Join(t.TempDir(), "encoder")
	script := "#!/bin/sh\nfor last; do :; done\necho encoded > \"$last\"\n"
	if err := os.WriteFile(encoder, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := testsupport.NewConfig(t, testsupport.WithEncoderCommand(encoder))
	store := seedStore(t, cfg)

	engine := report.NewEngine(cfg, store, logging.NewNop())
	path, err := engine.GenerateVideo(context.Background(), "P-001", series.NDVI, 12, "")
	if err != nil {
		t.Fatalf("generate video: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(cfg.Paths.MediaDir, "timeline_videos")) {
		t.Fatalf("video stored outside timeline_videos dir: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateVideoEncoderMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEncoderCommand("no-such-encoder-binary"))
	store := seedStore(t, cfg)

	engine := report.NewEngine(cfg, store, logging.NewNop())
	_, err := engine.GenerateVideo(context.Background(), "P-001", series.NDVI, 12, "")
	if !errors.Is(err, services.ErrEncoderMissing) {
		t.Fatalf("expected ErrEncoderMissing, got %v", err)
	}
	if services.ExitCode(err) != services.ExitEncoderAbsent {
		t.Fatalf("expected exit code %d, got %d", services.ExitEncoderAbsent, services.ExitCode(err))
	}
}

func TestVerifyParcelWithoutLayers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedParcel(t, store, series.Parcel{
		ID:   "P-002",
		Name: "Con Geometria",
		Crop: "coffee",
		GeometryGeoJSON: `{"type": "Polygon", "coordinates": [[[-74.0, 4.70], [-73.999, 4.70],
			[-73.999, 4.701], [-74.0, 4.701], [-74.0, 4.70]]]}`,
	})

	engine := report.NewEngine(cfg, store, logging.NewNop())
	result, err := engine.VerifyParcel(ctx, "P-002")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	// No sidecar in the layers dir: everything unavailable, compliance
	// computable, cultivable indeterminable.
	if !result.Compliance {
		t.Fatal("expected compliance with no overlapping layers")
	}
	if result.Cultivable.Determinable {
		t.Fatal("expected indeterminable cultivable area")
	}
	if len(result.Warnings) != 4 {
		t.Fatalf("expected 4 layer warnings, got %v", result.Warnings)
	}
}
