package temporal_test

import (
	"math"
	"testing"

	"agrovista/internal/analysis"
	"agrovista/internal/series"
	"agrovista/internal/temporal"
)

func bundleFrom(start [2]int, values []float64) series.Bundle {
	year, month := start[0], start[1]
	records := make([]series.MonthlyRecord, 0, len(values))
	for _, v := range values {
		records = append(records, series.MonthlyRecord{
			Year:  year,
			Month: month,
			NDVI:  series.Sample{Mean: series.Float(v)},
		})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return series.Bundle{Parcel: series.Parcel{ID: "p-1"}, Records: records}
}

func TestInsufficientData(t *testing.T) {
	report := temporal.Analyze(bundleFrom([2]int{2024, 1}, []float64{0.5, 0.6}), series.NDVI)
	if report.Valid {
		t.Fatal("expected invalid report for two samples")
	}
	if report.Reason == "" {
		t.Fatal("expected a reason on the insufficient-data report")
	}
}

func TestLinearTrendAscending(t *testing.T) {
	report := temporal.Analyze(bundleFrom([2]int{2024, 1}, []float64{0.40, 0.45, 0.50, 0.55, 0.60}), series.NDVI)
	if !report.Valid {
		t.Fatal("expected valid report")
	}
	if !report.Linear.Direction.Ascending() {
		t.Fatalf("expected ascending direction, got %s", report.Linear.Direction)
	}
	if report.Linear.PercentChange <= 0 {
		t.Fatalf("expected positive percent change, got %f", report.Linear.PercentChange)
	}
	if math.Abs(report.Linear.Slope-0.05) > 1e-9 {
		t.Fatalf("expected slope 0.05, got %f", report.Linear.Slope)
	}
	if report.Linear.Confidence != temporal.ConfidenceHigh {
		t.Fatalf("perfect line should have high confidence, got %s (R²=%f)", report.Linear.Confidence, report.Linear.R2)
	}
}

func TestSeasonalityDetection(t *testing.T) {
	// Two years, wet-season peak in May, dry valley in January.
	values := []float64{0.40, 0.45, 0.55, 0.65, 0.70, 0.60, 0.55, 0.50, 0.48, 0.45, 0.42, 0.40,
		0.41, 0.46, 0.56, 0.66, 0.71, 0.61, 0.56, 0.51, 0.49, 0.46, 0.43, 0.41}
	report := temporal.Analyze(bundleFrom([2]int{2023, 1}, values), series.NDVI)

	if !report.Seasonality.Detected {
		t.Fatalf("expected seasonality: %+v", report.Seasonality)
	}
	if report.Seasonality.PeakMonth != "May" {
		t.Fatalf("expected May peak, got %s", report.Seasonality.PeakMonth)
	}
	if report.Seasonality.ValleyMonth != "January" {
		t.Fatalf("expected January valley, got %s", report.Seasonality.ValleyMonth)
	}
	if !report.InterAnnual.Available {
		t.Fatal("expected inter-annual comparison with two years")
	}
	if len(report.InterAnnual.Years) != 2 {
		t.Fatalf("expected two year summaries, got %d", len(report.InterAnnual.Years))
	}
}

func TestInterAnnualUnavailableForSingleYear(t *testing.T) {
	report := temporal.Analyze(bundleFrom([2]int{2024, 1}, []float64{0.5, 0.55, 0.6, 0.65}), series.NDVI)
	if report.InterAnnual.Available {
		t.Fatal("single calendar year should not produce an inter-annual comparison")
	}
}

func TestCyclesCappedAtThree(t *testing.T) {
	// Alternating series with many local extremes.
	values := []float64{0.4, 0.7, 0.4, 0.7, 0.4, 0.7, 0.4, 0.7, 0.4, 0.7, 0.4, 0.7, 0.4}
	report := temporal.Analyze(bundleFrom([2]int{2023, 1}, values), series.NDVI)

	if len(report.Cycles.Peaks) != 3 {
		t.Fatalf("expected 3 peaks, got %d", len(report.Cycles.Peaks))
	}
	if len(report.Cycles.Valleys) != 3 {
		t.Fatalf("expected 3 valleys, got %d", len(report.Cycles.Valleys))
	}
}

func TestAnomalySeverity(t *testing.T) {
	// One dramatic drop inside an otherwise flat series.
	values := []float64{0.70, 0.70, 0.70, 0.70, 0.70, 0.70, 0.70, 0.70, 0.70, 0.10, 0.70, 0.70, 0.70, 0.70}
	report := temporal.Analyze(bundleFrom([2]int{2023, 1}, values), series.NDVI)

	if len(report.Anomalies) == 0 {
		t.Fatal("expected anomalies")
	}
	found := false
	for _, a := range report.Anomalies {
		if a.Severity == temporal.SeveritySevere && a.Direction == analysis.AnomalyDrop {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a severe drop, got %+v", report.Anomalies)
	}
}

func TestRelativeChangeRuleFlagsJumps(t *testing.T) {
	// The jump from 0.40 to 0.55 is +37.5%, above the 25% relative rule,
	// even though the z-score stays small.
	values := []float64{0.40, 0.40, 0.40, 0.55, 0.55, 0.55, 0.40, 0.40}
	report := temporal.Analyze(bundleFrom([2]int{2024, 1}, values), series.NDVI)

	if len(report.Anomalies) == 0 {
		t.Fatal("expected relative-change anomalies")
	}
}

func TestProjectionMargin(t *testing.T) {
	values := []float64{0.40, 0.45, 0.50, 0.55, 0.60}
	report := temporal.Analyze(bundleFrom([2]int{2024, 1}, values), series.NDVI)

	wantValue := 0.60 + report.Linear.Slope
	if math.Abs(report.Projection.Value-wantValue) > 1e-9 {
		t.Fatalf("projection value: got %f want %f", report.Projection.Value, wantValue)
	}
	if report.Projection.Margin <= 0 {
		t.Fatalf("expected positive margin, got %f", report.Projection.Margin)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	values := []float64{0.40, 0.45, 0.55, 0.65, 0.70, 0.60, 0.55, 0.50, 0.48, 0.45, 0.42, 0.40, 0.41}
	bundle := bundleFrom([2]int{2023, 1}, values)
	first := temporal.Analyze(bundle, series.NDVI)
	second := temporal.Analyze(bundle, series.NDVI)

	if first.Linear != second.Linear {
		t.Fatalf("linear fits diverged: %+v vs %+v", first.Linear, second.Linear)
	}
	if first.Seasonality != second.Seasonality {
		t.Fatalf("seasonality diverged: %+v vs %+v", first.Seasonality, second.Seasonality)
	}
}
