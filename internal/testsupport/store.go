package testsupport

import (
	"context"
	"testing"

	"agrovista/internal/catalog"
	"agrovista/internal/config"
	"agrovista/internal/logging"
	"agrovista/internal/series"
)

// MustOpenStore opens a catalog store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.DatabasePath, logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedParcel inserts one parcel for tests using the provided store.
func SeedParcel(t testing.TB, store *catalog.Store, parcel series.Parcel) {
	t.Helper()

	if err := store.UpsertParcel(context.Background(), parcel); err != nil {
		t.Fatalf("store.UpsertParcel: %v", err)
	}
}

// SeedMonthlySeries inserts consecutive monthly records starting at
// (year, month), one per NDVI mean, with fixed climate values.
func SeedMonthlySeries(t testing.TB, store *catalog.Store, parcelID string, year, month int, ndviMeans []float64) {
	t.Helper()

	ctx := context.Background()
	for _, mean := range ndviMeans {
		rec := series.MonthlyRecord{
			Year:            year,
			Month:           month,
			NDVI:            series.Sample{Mean: series.Float(mean)},
			NDMI:            series.Sample{Mean: series.Float(0.25)},
			TemperatureC:    series.Float(21.0),
			PrecipitationMM: series.Float(110),
			CloudCover:      series.Float(0.15),
			Sensor:          "Sentinel-2",
		}
		if err := store.InsertMonthlyRecord(ctx, parcelID, rec); err != nil {
			t.Fatalf("store.InsertMonthlyRecord: %v", err)
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
}
