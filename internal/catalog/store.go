package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"agrovista/internal/logging"
	"agrovista/internal/series"
	"agrovista/internal/services"
)

// ErrParcelNotFound indicates the requested parcel does not exist.
var ErrParcelNotFound = errors.New("parcel not found")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the catalog database and applies the
// schema if needed.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logging.NewComponentLogger(logger, "catalog")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetParcel loads one parcel by id.
func (s *Store) GetParcel(ctx context.Context, parcelID string) (*series.Parcel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, COALESCE(crop, ''), area_ha, geometry_geojson, monitoring_start
         FROM parcels WHERE id = ?`, parcelID)

	var p series.Parcel
	var start string
	if err := row.Scan(&p.ID, &p.Name, &p.Owner, &p.Crop, &p.AreaHa, &p.GeometryGeoJSON, &start); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %w: %s", services.ErrValidation, ErrParcelNotFound, parcelID)
		}
		return nil, fmt.Errorf("scan parcel: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, start); err == nil {
		p.MonitoringStart = ts
	}
	return &p, nil
}

// FetchSeries loads the parcel and its most recent monthsBack monthly
// records ordered ascending by (year, month). An empty series yields
// services.ErrNoData, which the CLI maps to exit code 1.
func (s *Store) FetchSeries(ctx context.Context, parcelID string, monthsBack int) (*series.Bundle, error) {
	parcel, err := s.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if monthsBack <= 0 {
		monthsBack = 12
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, month,
                ndvi_mean, ndvi_min, ndvi_max,
                ndmi_mean, ndmi_min, ndmi_max,
                savi_mean, savi_min, savi_max,
                temperature_c, precipitation_mm,
                capture_date, cloud_cover, sensor, resolution_m,
                ndvi_image, ndmi_image, savi_image
         FROM monthly_records
         WHERE parcel_id = ?
         ORDER BY year DESC, month DESC
         LIMIT ?`, parcelID, monthsBack)
	if err != nil {
		return nil, fmt.Errorf("query monthly records: %w", err)
	}
	defer rows.Close()

	var records []series.MonthlyRecord
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly records: %w", err)
	}

	if len(records) == 0 {
		return nil, services.Wrap(services.ErrNoData, "assembly", "fetch",
			fmt.Sprintf("no monthly records for parcel %s", parcelID), nil)
	}

	// Query returned newest-first; the pipeline wants oldest-first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return &series.Bundle{Parcel: *parcel, Records: records}, nil
}

func (s *Store) scanRecord(rows *sql.Rows) (series.MonthlyRecord, error) {
	var rec series.MonthlyRecord
	var (
		ndviMean, ndviMin, ndviMax sql.NullFloat64
		ndmiMean, ndmiMin, ndmiMax sql.NullFloat64
		saviMean, saviMin, saviMax sql.NullFloat64
		temperature, precipitation sql.NullFloat64
		captureDate                sql.NullString
		cloudCover, resolution     sql.NullFloat64
		ndviImg, ndmiImg, saviImg  sql.NullString
	)

	err := rows.Scan(&rec.Year, &rec.Month,
		&ndviMean, &ndviMin, &ndviMax,
		&ndmiMean, &ndmiMin, &ndmiMax,
		&saviMean, &saviMin, &saviMax,
		&temperature, &precipitation,
		&captureDate, &cloudCover, &rec.Sensor, &resolution,
		&ndviImg, &ndmiImg, &saviImg)
	if err != nil {
		return rec, fmt.Errorf("scan monthly record: %w", err)
	}

	rec.NDVI = s.sampleOf(rec, series.NDVI, ndviMean, ndviMin, ndviMax)
	rec.NDMI = s.sampleOf(rec, series.NDMI, ndmiMean, ndmiMin, ndmiMax)
	rec.SAVI = s.sampleOf(rec, series.SAVI, saviMean, saviMin, saviMax)
	rec.TemperatureC = nullableFloat(temperature)
	rec.PrecipitationMM = nullableFloat(precipitation)
	rec.CloudCover = nullableFloat(cloudCover)
	rec.ResolutionM = nullableFloat(resolution)
	if captureDate.Valid {
		if ts, err := time.Parse(time.RFC3339, captureDate.String); err == nil {
			rec.CaptureDate = ts
		}
	}

	thumbs := map[series.IndexKind]string{}
	if ndviImg.Valid && ndviImg.String != "" {
		thumbs[series.NDVI] = ndviImg.String
	}
	if ndmiImg.Valid && ndmiImg.String != "" {
		thumbs[series.NDMI] = ndmiImg.String
	}
	if saviImg.Valid && saviImg.String != "" {
		thumbs[series.SAVI] = saviImg.String
	}
	if len(thumbs) > 0 {
		rec.Thumbnails = thumbs
	}
	return rec, nil
}

// sampleOf converts nullable columns into a Sample, dropping out-of-range
// means rather than clamping them.
func (s *Store) sampleOf(rec series.MonthlyRecord, kind series.IndexKind, mean, min, max sql.NullFloat64) series.Sample {
	sample := series.Sample{
		Mean: nullableFloat(mean),
		Min:  nullableFloat(min),
		Max:  nullableFloat(max),
	}
	if sample.Mean != nil && !series.InRange(*sample.Mean) {
		s.logger.Warn("dropping out-of-range index mean",
			logging.String(logging.FieldIndex, string(kind)),
			logging.Int("year", rec.Year),
			logging.Int("month", rec.Month),
			logging.Float64("value", *sample.Mean))
		sample.Mean = nil
	}
	return sample
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}
