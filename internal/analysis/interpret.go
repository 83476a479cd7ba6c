package analysis

import (
	"fmt"

	"agrovista/internal/series"
)

// Phrase catalogs for the two interpretation registers. Interpretations are
// assembled deterministically from (state, trend, variability); there is no
// generative text anywhere in the pipeline.

var stateTechnical = map[State]string{
	StateCritical:     "critically low canopy activity",
	StateLow:          "below-normal canopy vigor",
	StateModerate:     "moderate canopy vigor",
	StateGood:         "good canopy vigor",
	StateVeryGood:     "very good canopy vigor",
	StateExcellent:    "excellent canopy vigor",
	StateSevereStress: "severe canopy water deficit",
	StateStress:       "water stress in the canopy",
	StateAdequate:     "adequate canopy water content",
	StateHumid:        "high canopy water content",
	StateVeryHumid:    "very high canopy water content",
}

var statePlain = map[State]string{
	StateCritical:     "The vegetation is in critical condition and needs urgent attention.",
	StateLow:          "The vegetation is weaker than it should be.",
	StateModerate:     "The vegetation is in acceptable condition with room to improve.",
	StateGood:         "The vegetation is healthy.",
	StateVeryGood:     "The vegetation is in very good shape.",
	StateExcellent:    "The vegetation is thriving.",
	StateSevereStress: "The crop is severely short of water.",
	StateStress:       "The crop is showing signs of thirst.",
	StateAdequate:     "The crop has enough water.",
	StateHumid:        "The crop has plenty of water.",
	StateVeryHumid:    "The soil may be holding more water than the crop needs.",
}

var trendTechnical = map[TrendDirection]string{
	TrendStable:           "a stable temporal profile",
	TrendAscending:        "a sustained upward movement",
	TrendAscendingStrong:  "a pronounced upward movement",
	TrendDescending:       "a sustained downward movement",
	TrendDescendingStrong: "a pronounced downward movement",
}

var trendPlain = map[TrendDirection]string{
	TrendStable:           "It has stayed about the same over these months.",
	TrendAscending:        "It has been improving month after month.",
	TrendAscendingStrong:  "It has been improving quickly.",
	TrendDescending:       "It has been slipping month after month.",
	TrendDescendingStrong: "It has been dropping quickly.",
}

var variabilityTechnical = map[string]string{
	"low":      "with low dispersion between observations",
	"moderate": "with moderate dispersion between observations",
	"high":     "with high dispersion between observations",
}

var variabilityPlain = map[string]string{
	"low":      "Readings have been steady.",
	"moderate": "Readings have moved around somewhat.",
	"high":     "Readings have been quite uneven, so look at individual months too.",
}

func (a *Analyzer) technicalInterpretation(result Analysis) []Fragment {
	fragments := []Fragment{
		Bold(a.kind.Display()),
		Plain(fmt.Sprintf(" averaged %.3f over %d samples, indicating ", result.Stats.Mean, result.SampleCount)),
		Plain(stateTechnical[result.State]),
		Plain(". The series shows "),
		Plain(trendTechnical[result.Trend.Direction]),
		Plain(fmt.Sprintf(" (%+.1f%% across the period) ", result.Trend.PercentChange)),
		Plain(variabilityTechnical[result.Variability]),
		Plain(fmt.Sprintf(" (CV %.1f%%).", result.Variability100())),
	}
	if n := len(result.Anomalies); n > 0 {
		fragments = append(fragments,
			Break(),
			Plain(fmt.Sprintf("%d anomalous observation(s) exceeded two standard deviations, first at %s.",
				n, result.Anomalies[0].Period)))
	}
	return fragments
}

func (a *Analyzer) plainInterpretation(result Analysis) []Fragment {
	fragments := []Fragment{
		Plain(statePlain[result.State]),
		Plain(" "),
		Plain(trendPlain[result.Trend.Direction]),
		Plain(" "),
		Plain(variabilityPlain[result.Variability]),
	}
	if a.kind == series.NDVI && result.State == StateCritical {
		fragments = append(fragments, Break(), Bold("Visit the parcel as soon as possible."))
	}
	return fragments
}

// Variability100 returns the coefficient of variation as a percentage.
func (r Analysis) Variability100() float64 {
	return r.Stats.CV * 100
}
