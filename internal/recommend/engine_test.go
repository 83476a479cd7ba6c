package recommend_test

import (
	"testing"
	"time"

	"agrovista/internal/analysis"
	"agrovista/internal/recommend"
	"agrovista/internal/series"
)

func analyzed(kind series.IndexKind, crop string, values ...float64) analysis.Analysis {
	records := make([]series.MonthlyRecord, 0, len(values))
	for i, v := range values {
		rec := series.MonthlyRecord{Year: 2024, Month: i + 1}
		sample := series.Sample{Mean: series.Float(v)}
		switch kind {
		case series.NDVI:
			rec.NDVI = sample
		case series.NDMI:
			rec.NDMI = sample
		case series.SAVI:
			rec.SAVI = sample
		}
		records = append(records, rec)
	}
	return analysis.New(kind, crop).Analyze(series.Bundle{Records: records})
}

func TestCatalogShape(t *testing.T) {
	titles := map[string]struct{}{}
	for _, rule := range recommend.Catalog {
		if rule.Predicate == nil {
			t.Fatalf("rule %s has no predicate", rule.Name)
		}
		if rule.Title == "" || rule.Technical == "" || rule.Plain == "" {
			t.Fatalf("rule %s has empty template fields", rule.Name)
		}
		if len(rule.Actions) < 2 || len(rule.Actions) > 5 {
			t.Fatalf("rule %s has %d actions, want 2-5", rule.Name, len(rule.Actions))
		}
		if _, dup := titles[rule.Title]; dup {
			t.Fatalf("duplicate title %q in catalog", rule.Title)
		}
		titles[rule.Title] = struct{}{}
	}
}

func TestHealthyParcelGetsMaintenanceNotCritical(t *testing.T) {
	input := recommend.Input{
		NDVI:   analyzed(series.NDVI, "Coffee", 0.52, 0.55, 0.60, 0.63, 0.68, 0.72),
		NDMI:   analyzed(series.NDMI, "Coffee", 0.35, 0.35, 0.35, 0.35, 0.35, 0.35),
		Crop:   "Coffee",
		Season: recommend.SeasonWet,
	}
	recs := recommend.Generate(input)

	foundMaintenance := false
	for _, rec := range recs {
		if rec.Category == "maintenance" {
			foundMaintenance = true
			if rec.Priority != recommend.PriorityLow {
				t.Fatalf("maintenance should be low priority, got %s", rec.Priority)
			}
		}
		if rec.Title == "Critical vegetation condition" {
			t.Fatal("healthy parcel must not trigger the critical rule")
		}
	}
	if !foundMaintenance {
		t.Fatalf("expected a maintenance recommendation, got %+v", recs)
	}
}

func TestWaterStressIrrigationFirst(t *testing.T) {
	input := recommend.Input{
		NDVI:   analyzed(series.NDVI, "", 0.65, 0.62, 0.58, 0.52, 0.45, 0.40),
		NDMI:   analyzed(series.NDMI, "", 0.10, 0.05, 0.00, -0.05, -0.10, -0.15),
		Crop:   "",
		Season: recommend.SeasonWet,
	}
	recs := recommend.Generate(input)

	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	first := recs[0]
	if first.Priority != recommend.PriorityHigh {
		t.Fatalf("expected high priority first, got %s", first.Priority)
	}
	if first.Category != "irrigation" {
		t.Fatalf("expected irrigation first, got %q (%s)", first.Category, first.Title)
	}
}

func TestEmptyInputYieldsOnlySeasonalGuidance(t *testing.T) {
	recs := recommend.Generate(recommend.Input{Season: recommend.SeasonDry})
	for _, rec := range recs {
		if rec.Category != "seasonal" {
			t.Fatalf("invalid analyses should only fire seasonal rules, got %q", rec.Category)
		}
	}
}

func TestSortAndDedupAndCap(t *testing.T) {
	input := recommend.Input{
		NDVI:   analyzed(series.NDVI, "", 0.65, 0.62, 0.58, 0.52, 0.45, 0.40),
		NDMI:   analyzed(series.NDMI, "", 0.10, 0.05, 0.00, -0.05, -0.10, -0.15),
		SAVI:   analyzed(series.SAVI, "", 0.25, 0.24, 0.22, 0.21, 0.20, 0.18),
		Season: recommend.SeasonDry,
	}
	recs := recommend.Generate(input)

	if len(recs) > 10 {
		t.Fatalf("expected at most 10 recommendations, got %d", len(recs))
	}
	seen := map[string]struct{}{}
	lastPriority := recommend.PriorityHigh
	for _, rec := range recs {
		if rec.Priority < lastPriority {
			t.Fatalf("priorities not descending: %+v", recs)
		}
		lastPriority = rec.Priority
		if _, dup := seen[rec.Title]; dup {
			t.Fatalf("duplicate title in output: %q", rec.Title)
		}
		seen[rec.Title] = struct{}{}
	}
}

func TestSeasonFor(t *testing.T) {
	cases := []struct {
		month time.Month
		want  recommend.Season
	}{
		{time.January, recommend.SeasonDry},
		{time.March, recommend.SeasonDry},
		{time.April, recommend.SeasonWet},
		{time.November, recommend.SeasonWet},
		{time.December, recommend.SeasonDry},
	}
	for _, tc := range cases {
		date := time.Date(2024, tc.month, 15, 0, 0, 0, 0, time.UTC)
		if got := recommend.SeasonFor(date); got != tc.want {
			t.Fatalf("SeasonFor(%s) = %s, want %s", tc.month, got, tc.want)
		}
	}
}
