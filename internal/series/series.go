package series

import (
	"fmt"
	"strings"
	"time"
)

// IndexKind identifies one of the vegetation/moisture indices tracked per
// parcel-month.
type IndexKind string

const (
	NDVI IndexKind = "ndvi"
	NDMI IndexKind = "ndmi"
	SAVI IndexKind = "savi"
)

// Kinds lists every supported index in canonical order.
func Kinds() []IndexKind {
	return []IndexKind{NDVI, NDMI, SAVI}
}

// ParseKind maps user input to an IndexKind.
func ParseKind(value string) (IndexKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ndvi":
		return NDVI, nil
	case "ndmi":
		return NDMI, nil
	case "savi":
		return SAVI, nil
	default:
		return "", fmt.Errorf("unknown index %q (expected ndvi, ndmi or savi)", value)
	}
}

// Display returns the uppercase label used in rendered artifacts.
func (k IndexKind) Display() string {
	return strings.ToUpper(string(k))
}

// Parcel is the host-owned description of a monitored field. The pipeline
// only reads it.
type Parcel struct {
	ID              string
	Name            string
	Owner           string
	Crop            string // empty when unknown
	AreaHa          float64
	GeometryGeoJSON string // WGS84 polygon, GeoJSON encoding
	MonitoringStart time.Time
}

// Sample holds the per-index aggregates for one month. Any field may be nil
// when the source imagery did not yield a usable value.
type Sample struct {
	Mean *float64
	Min  *float64
	Max  *float64
}

// MonthlyRecord is one parcel-month of satellite and climate observations.
type MonthlyRecord struct {
	Year  int
	Month int // 1-12

	NDVI Sample
	NDMI Sample
	SAVI Sample

	TemperatureC    *float64
	PrecipitationMM *float64

	CaptureDate time.Time
	CloudCover  *float64 // fraction 0..1
	Sensor      string
	ResolutionM *float64

	// Thumbnails maps an index to a local path or HTTP URL of the raster
	// image for that month. Missing entries mean no image exists.
	Thumbnails map[IndexKind]string
}

// Index returns the sample for the requested index.
func (r MonthlyRecord) Index(kind IndexKind) Sample {
	switch kind {
	case NDVI:
		return r.NDVI
	case NDMI:
		return r.NDMI
	case SAVI:
		return r.SAVI
	}
	return Sample{}
}

// PeriodLabel renders the record's month as "January 2024".
func (r MonthlyRecord) PeriodLabel() string {
	return fmt.Sprintf("%s %d", time.Month(r.Month).String(), r.Year)
}

// Bundle carries a parcel and its ordered monthly records through the
// pipeline. Records are sorted ascending by (year, month) and unique per
// month; the catalog store guarantees both.
type Bundle struct {
	Parcel  Parcel
	Records []MonthlyRecord
}

// Values extracts the valid (non-nil, in-range) mean values for one index,
// preserving series order, together with the records they came from.
func (b Bundle) Values(kind IndexKind) ([]float64, []MonthlyRecord) {
	values := make([]float64, 0, len(b.Records))
	records := make([]MonthlyRecord, 0, len(b.Records))
	for _, rec := range b.Records {
		sample := rec.Index(kind)
		if sample.Mean == nil {
			continue
		}
		if !InRange(*sample.Mean) {
			continue
		}
		values = append(values, *sample.Mean)
		records = append(records, rec)
	}
	return values, records
}

// HasIndex reports whether any record carries a valid mean for the index.
func (b Bundle) HasIndex(kind IndexKind) bool {
	values, _ := b.Values(kind)
	return len(values) > 0
}

// RangeLabel renders the temporal coverage of the bundle, e.g.
// "March 2024 - August 2024".
func (b Bundle) RangeLabel() string {
	if len(b.Records) == 0 {
		return ""
	}
	first := b.Records[0]
	last := b.Records[len(b.Records)-1]
	if first.Year == last.Year && first.Month == last.Month {
		return first.PeriodLabel()
	}
	return first.PeriodLabel() + " - " + last.PeriodLabel()
}

// InRange reports whether an index mean lies inside the natural [-1, 1]
// range shared by NDVI, NDMI and SAVI. Out-of-range values are dropped by
// the pipeline, never clamped.
func InRange(value float64) bool {
	return value >= -1 && value <= 1
}

// Float returns a pointer to v; convenient for building records in tests
// and fixtures.
func Float(v float64) *float64 {
	return &v
}
