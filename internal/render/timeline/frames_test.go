package timeline

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"agrovista/internal/series"
)

func TestMonthlyFrameDimensions(t *testing.T) {
	in := Input{Bundle: sceneBundle(), Index: series.NDVI}
	mc := monthlyContext{
		record:     in.Bundle.Records[1],
		rasterPath: "missing.png", // placeholder path
		mean:       series.Float(0.60),
		previous:   series.Float(0.55),
	}

	f := newFrame()
	monthlyScene(in, mc)(f)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := f.writePNG(path); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if cfg.Width != frameWidth || cfg.Height != frameHeight {
		t.Fatalf("expected %dx%d frame, got %dx%d", frameWidth, frameHeight, cfg.Width, cfg.Height)
	}
}

func TestMonthlySceneWithMissingValues(t *testing.T) {
	in := Input{Bundle: sceneBundle(), Index: series.NDMI}
	mc := monthlyContext{record: series.MonthlyRecord{Year: 2024, Month: 5}}

	// Nothing to show: raster, mean, previous, cloud and climate all absent.
	f := newFrame()
	monthlyScene(in, mc)(f)
	if err := f.writePNG(filepath.Join(t.TempDir(), "frame.png")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestTextScenesRender(t *testing.T) {
	dir := t.TempDir()
	for name, draw := range map[string]func(*frame){
		"cover":   coverScene(Input{Bundle: sceneBundle(), Index: series.SAVI}, "AgroVista"),
		"text":    paragraphScene("Analysis", "Short body."),
		"bullets": bulletScene("Recommendations", []string{"One", "Two"}),
		"closing": closingScene("AgroVista", "Satellite crop monitoring"),
	} {
		f := newFrame()
		draw(f)
		if err := f.writePNG(filepath.Join(dir, name+".png")); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestCloudLabel(t *testing.T) {
	if got := cloudLabel(nil); got != notAvailable {
		t.Fatalf("expected %s for missing cover, got %s", notAvailable, got)
	}
	cases := []struct {
		cover float64
		want  string
	}{
		{0.05, "good (5% cloud)"},
		{0.30, "fair (30% cloud)"},
		{0.70, "poor (70% cloud)"},
	}
	for _, tc := range cases {
		if got := cloudLabel(series.Float(tc.cover)); got != tc.want {
			t.Fatalf("cover %.2f: expected %q, got %q", tc.cover, tc.want, got)
		}
	}
}

func TestClimateLine(t *testing.T) {
	rec := series.MonthlyRecord{TemperatureC: series.Float(21.5), PrecipitationMM: series.Float(120)}
	if got := climateLine(rec); got != "21.5 C / 120 mm" {
		t.Fatalf("unexpected climate line %q", got)
	}
	if got := climateLine(series.MonthlyRecord{}); got != "[N/A] / [N/A]" {
		t.Fatalf("expected placeholders, got %q", got)
	}
}

func TestRampSelection(t *testing.T) {
	if len(rampFor(series.NDVI)) != 5 || len(rampFor(series.NDMI)) != 5 {
		t.Fatal("legend ramps must have five steps")
	}
	if rampFor(series.NDMI)[0].label != "Very dry" {
		t.Fatalf("unexpected moisture ramp start %q", rampFor(series.NDMI)[0].label)
	}
	if rampFor(series.SAVI)[4].label != "Excellent" {
		t.Fatalf("unexpected vigor ramp end %q", rampFor(series.SAVI)[4].label)
	}
}
