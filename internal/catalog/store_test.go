package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"agrovista/internal/catalog"
	"agrovista/internal/logging"
	"agrovista/internal/series"
	"agrovista/internal/services"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testParcel() series.Parcel {
	return series.Parcel{
		ID:              "p-1",
		Name:            "La Esperanza",
		Owner:           "Familia Rojas",
		Crop:            "Coffee",
		AreaHa:          3.2,
		GeometryGeoJSON: `{"type":"Polygon","coordinates":[[[-74.1,4.6],[-74.09,4.6],[-74.09,4.61],[-74.1,4.61],[-74.1,4.6]]]}`,
		MonitoringStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func monthRecord(year, month int, ndvi float64) series.MonthlyRecord {
	return series.MonthlyRecord{
		Year:  year,
		Month: month,
		NDVI:  series.Sample{Mean: series.Float(ndvi)},
	}
}

func TestFetchSeriesOrdersAscending(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertParcel(ctx, testParcel()); err != nil {
		t.Fatalf("upsert parcel: %v", err)
	}
	// Insert out of order on purpose.
	for _, rec := range []series.MonthlyRecord{
		monthRecord(2024, 3, 0.6),
		monthRecord(2024, 1, 0.5),
		monthRecord(2023, 12, 0.45),
		monthRecord(2024, 2, 0.55),
	} {
		if err := store.InsertMonthlyRecord(ctx, "p-1", rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	bundle, err := store.FetchSeries(ctx, "p-1", 12)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if bundle.Parcel.Name != "La Esperanza" {
		t.Fatalf("unexpected parcel: %+v", bundle.Parcel)
	}
	if len(bundle.Records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(bundle.Records))
	}
	prev := 0
	for _, rec := range bundle.Records {
		key := rec.Year*100 + rec.Month
		if key <= prev {
			t.Fatalf("records not ascending: %v", bundle.Records)
		}
		prev = key
	}
}

func TestFetchSeriesHonorsMonthsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertParcel(ctx, testParcel()); err != nil {
		t.Fatal(err)
	}
	for m := 1; m <= 8; m++ {
		if err := store.InsertMonthlyRecord(ctx, "p-1", monthRecord(2024, m, 0.5)); err != nil {
			t.Fatal(err)
		}
	}

	bundle, err := store.FetchSeries(ctx, "p-1", 3)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(bundle.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(bundle.Records))
	}
	if bundle.Records[0].Month != 6 || bundle.Records[2].Month != 8 {
		t.Fatalf("expected months 6..8, got %+v", bundle.Records)
	}
}

func TestFetchSeriesEmptyIsNoData(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertParcel(ctx, testParcel()); err != nil {
		t.Fatal(err)
	}
	_, err := store.FetchSeries(ctx, "p-1", 12)
	if !errors.Is(err, services.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetchSeriesUnknownParcel(t *testing.T) {
	store := openStore(t)
	_, err := store.FetchSeries(context.Background(), "ghost", 12)
	if !errors.Is(err, catalog.ErrParcelNotFound) {
		t.Fatalf("expected ErrParcelNotFound, got %v", err)
	}
}

func TestDuplicateMonthRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertParcel(ctx, testParcel()); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertMonthlyRecord(ctx, "p-1", monthRecord(2024, 5, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertMonthlyRecord(ctx, "p-1", monthRecord(2024, 5, 0.6)); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestOutOfRangeMeanDropped(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertParcel(ctx, testParcel()); err != nil {
		t.Fatal(err)
	}
	rec := monthRecord(2024, 5, 3.5) // corrupt upstream value
	rec.NDMI = series.Sample{Mean: series.Float(0.2)}
	if err := store.InsertMonthlyRecord(ctx, "p-1", rec); err != nil {
		t.Fatal(err)
	}

	bundle, err := store.FetchSeries(ctx, "p-1", 12)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if bundle.Records[0].NDVI.Mean != nil {
		t.Fatalf("expected out-of-range NDVI mean to be dropped, got %v", *bundle.Records[0].NDVI.Mean)
	}
	if bundle.Records[0].NDMI.Mean == nil {
		t.Fatal("expected valid NDMI mean to survive")
	}
}
