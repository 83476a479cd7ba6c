package catalog

import (
	"context"
	"fmt"
	"time"

	"agrovista/internal/series"
)

// UpsertParcel inserts or replaces a parcel row. Used by ingestion tooling
// and tests; the pipeline itself never writes.
func (s *Store) UpsertParcel(ctx context.Context, p series.Parcel) error {
	var crop any
	if p.Crop != "" {
		crop = p.Crop
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parcels (id, name, owner, crop, area_ha, geometry_geojson, monitoring_start)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name,
             owner = excluded.owner,
             crop = excluded.crop,
             area_ha = excluded.area_ha,
             geometry_geojson = excluded.geometry_geojson,
             monitoring_start = excluded.monitoring_start`,
		p.ID, p.Name, p.Owner, crop, p.AreaHa, p.GeometryGeoJSON,
		p.MonitoringStart.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert parcel %s: %w", p.ID, err)
	}
	return nil
}

// InsertMonthlyRecord adds one parcel-month of observations. The unique
// (parcel, year, month) constraint rejects duplicates.
func (s *Store) InsertMonthlyRecord(ctx context.Context, parcelID string, rec series.MonthlyRecord) error {
	if rec.Month < 1 || rec.Month > 12 {
		return fmt.Errorf("insert record: month %d out of range", rec.Month)
	}

	var captureDate any
	if !rec.CaptureDate.IsZero() {
		captureDate = rec.CaptureDate.UTC().Format(time.RFC3339)
	}
	thumb := func(kind series.IndexKind) any {
		if path, ok := rec.Thumbnails[kind]; ok && path != "" {
			return path
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_records (
            parcel_id, year, month,
            ndvi_mean, ndvi_min, ndvi_max,
            ndmi_mean, ndmi_min, ndmi_max,
            savi_mean, savi_min, savi_max,
            temperature_c, precipitation_mm,
            capture_date, cloud_cover, sensor, resolution_m,
            ndvi_image, ndmi_image, savi_image
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		parcelID, rec.Year, rec.Month,
		floatArg(rec.NDVI.Mean), floatArg(rec.NDVI.Min), floatArg(rec.NDVI.Max),
		floatArg(rec.NDMI.Mean), floatArg(rec.NDMI.Min), floatArg(rec.NDMI.Max),
		floatArg(rec.SAVI.Mean), floatArg(rec.SAVI.Min), floatArg(rec.SAVI.Max),
		floatArg(rec.TemperatureC), floatArg(rec.PrecipitationMM),
		captureDate, floatArg(rec.CloudCover), rec.Sensor, floatArg(rec.ResolutionM),
		thumb(series.NDVI), thumb(series.NDMI), thumb(series.SAVI))
	if err != nil {
		return fmt.Errorf("insert record %s %d-%02d: %w", parcelID, rec.Year, rec.Month, err)
	}
	return nil
}

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
