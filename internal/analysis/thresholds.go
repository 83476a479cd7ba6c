package analysis

import (
	"strings"

	"agrovista/internal/series"
)

// State classifies the overall condition an index mean falls into.
type State string

const (
	StateNoData State = "no-data"

	// Vigor states (NDVI, SAVI).
	StateCritical  State = "critical"
	StateLow       State = "low"
	StateModerate  State = "moderate"
	StateGood      State = "good"
	StateVeryGood  State = "very-good"
	StateExcellent State = "excellent"

	// Moisture states (NDMI).
	StateSevereStress State = "severe-stress"
	StateStress       State = "stress"
	StateAdequate     State = "adequate"
	StateHumid        State = "humid"
	StateVeryHumid    State = "very-humid"
)

// thresholdTable maps an index mean to a state. Boundaries are strictly
// increasing; a value exactly on a boundary belongs to the upper class.
type thresholdTable struct {
	boundaries []float64
	states     []State
}

func (t thresholdTable) classify(value float64) State {
	for i, boundary := range t.boundaries {
		if value < boundary {
			return t.states[i]
		}
	}
	return t.states[len(t.states)-1]
}

// rank is the position of the state in its table, used for monotonicity and
// for the gallery's qualitative rating. Unknown states rank -1.
func (t thresholdTable) rank(state State) int {
	for i, s := range t.states {
		if s == state {
			return i
		}
	}
	return -1
}

var baseTables = map[series.IndexKind]thresholdTable{
	series.NDVI: {
		boundaries: []float64{0.3, 0.4, 0.6, 0.75, 0.85},
		states:     []State{StateCritical, StateLow, StateModerate, StateGood, StateVeryGood, StateExcellent},
	},
	series.SAVI: {
		boundaries: []float64{0.2, 0.3, 0.45, 0.6, 0.7},
		states:     []State{StateCritical, StateLow, StateModerate, StateGood, StateVeryGood, StateExcellent},
	},
	series.NDMI: {
		boundaries: []float64{0.0, 0.1, 0.2, 0.3, 0.4},
		states:     []State{StateSevereStress, StateStress, StateModerate, StateAdequate, StateHumid, StateVeryHumid},
	},
}

// cropShifts adjusts the vigor boundaries for crops whose healthy canopy
// reflects differently from the generic table. Moisture boundaries shift by
// half the vigor delta. Unknown crops fall back to the General row.
var cropShifts = map[string]float64{
	"general": 0,
	"coffee":  -0.05,
	"cacao":   -0.05,
	"banana":  0.05,
	"maize":   0,
	"pasture": -0.10,
}

// tableFor returns the crop-adjusted threshold table for an index.
func tableFor(kind series.IndexKind, crop string) thresholdTable {
	base := baseTables[kind]
	shift := cropShifts[normalizeCrop(crop)]
	if kind == series.NDMI {
		shift /= 2
	}
	if shift == 0 {
		return base
	}
	adjusted := thresholdTable{
		boundaries: make([]float64, len(base.boundaries)),
		states:     base.states,
	}
	for i, b := range base.boundaries {
		adjusted.boundaries[i] = b + shift
	}
	return adjusted
}

func normalizeCrop(crop string) string {
	normalized := strings.ToLower(strings.TrimSpace(crop))
	switch normalized {
	case "café", "cafe":
		normalized = "coffee"
	case "plátano", "platano":
		normalized = "banana"
	case "maíz", "maiz", "corn":
		normalized = "maize"
	case "pastos", "pasto":
		normalized = "pasture"
	}
	if _, ok := cropShifts[normalized]; !ok {
		return "general"
	}
	return normalized
}

// StateRank exposes the ordering of a state within its index table.
func StateRank(kind series.IndexKind, state State) int {
	return baseTables[kind].rank(state)
}

// RatingLabel maps a state to the short qualitative label shown next to
// gallery thumbnails.
func RatingLabel(state State) string {
	switch state {
	case StateCritical, StateSevereStress:
		return "Very poor"
	case StateLow, StateStress:
		return "Poor"
	case StateModerate:
		return "Fair"
	case StateGood, StateAdequate:
		return "Good"
	case StateVeryGood, StateHumid:
		return "Very good"
	case StateExcellent, StateVeryHumid:
		return "Excellent"
	default:
		return "No data"
	}
}

// ClassifyValue classifies a single raw value with the crop-adjusted table;
// used by the renderers to rate individual thumbnails.
func ClassifyValue(kind series.IndexKind, crop string, value float64) State {
	return tableFor(kind, crop).classify(value)
}
