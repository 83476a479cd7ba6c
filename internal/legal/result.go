package legal

import (
	"encoding/json"
	"math"
	"os"

	"agrovista/internal/layers"
)

// Finding records one restriction affecting the parcel.
type Finding struct {
	Layer       string   `json:"layer"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	OverlapHa   float64  `json:"overlap_area_ha"`
	OverlapPct  float64  `json:"overlap_pct"`
	Citation    string   `json:"citation"`
	DistanceM   *float64 `json:"distance_m,omitempty"`
	SetbackM    *float64 `json:"required_setback_m,omitempty"`
	ShortfallM  *float64 `json:"setback_shortfall_m,omitempty"`
	Description string   `json:"description"`
}

// CultivableArea reports the usable remainder of the parcel. It is only
// determinable when every consulted layer loaded with at least medium
// confidence.
type CultivableArea struct {
	Determinable bool    `json:"determinable"`
	ValueHa      float64 `json:"value_ha"`
	Note         string  `json:"note,omitempty"`
}

// Result is the full compliance record for one parcel.
type Result struct {
	ParcelID        string                            `json:"parcel_id"`
	Compliance      bool                              `json:"compliance"`
	TotalAreaHa     float64                           `json:"total_area_ha"`
	RestrictedHa    float64                           `json:"restricted_area_ha"`
	Cultivable      CultivableArea                    `json:"cultivable_area"`
	Findings        []Finding                         `json:"findings"`
	Warnings        []string                          `json:"warnings"`
	LayerConfidence map[layers.Kind]layers.Confidence `json:"layer_confidence"`
}

// LayersUnavailable reports whether any consulted layer failed to load.
func (r *Result) LayersUnavailable() bool {
	for _, confidence := range r.LayerConfidence {
		if confidence == layers.ConfidenceUnavailable {
			return true
		}
	}
	return false
}

// WriteJSON serializes the result to path with a stable, indented schema.
func (r *Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// roundHa reports hectares with two decimals.
func roundHa(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundPct reports percentages with one decimal.
func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundDistance reports whole metres at or above 10 m and one decimal below.
func roundDistance(v float64) float64 {
	if v >= 10 {
		return math.Round(v)
	}
	return math.Round(v*10) / 10
}
