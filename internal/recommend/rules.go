package recommend

import (
	"agrovista/internal/analysis"
	"agrovista/internal/temporal"
)

// Rule couples a predicate with the fixed recommendation it produces.
type Rule struct {
	Name           string
	Priority       Priority
	Category       string
	Title          string
	Technical      string
	Plain          string
	Actions        []string
	Impact         string
	Cost           string
	Horizon        string
	Predicate      func(Input) bool
}

// Build materializes the rule's recommendation.
func (r Rule) Build(Input) Recommendation {
	return Recommendation{
		Priority:  r.Priority,
		Category:  r.Category,
		Title:     r.Title,
		Technical: r.Technical,
		Plain:     r.Plain,
		Actions:   r.Actions,
		Impact:    r.Impact,
		Cost:      r.Cost,
		Horizon:   r.Horizon,
	}
}

func vigorState(input Input) analysis.State {
	return input.NDVI.State
}

func moistureState(input Input) analysis.State {
	return input.NDMI.State
}

// Catalog is the full declarative rule set, evaluated in order. Order does
// not affect the output beyond stable tie-breaking; the engine re-sorts by
// priority and title.
var Catalog = []Rule{
	{
		Name:     "critical-vegetation",
		Priority: PriorityHigh,
		Category: "vegetation-health",
		Title:    "Critical vegetation condition",
		Technical: "Mean NDVI sits in the critical band for the crop-adjusted threshold table, " +
			"indicating canopy loss or severe physiological stress.",
		Plain: "The plants are in very bad shape and need help right away.",
		Actions: []string{
			"Walk the parcel and map the most affected zones",
			"Check for pests and diseases on stems and leaves",
			"Test soil moisture at root depth",
			"Apply corrective fertilization once the cause is identified",
			"Re-evaluate with the next satellite pass",
		},
		Impact:  "Prevents loss of the planting",
		Cost:    "Medium to high, depending on the diagnosis",
		Horizon: "Immediate, within the week",
		Predicate: func(input Input) bool {
			return input.NDVI.Valid && vigorState(input) == analysis.StateCritical
		},
	},
	{
		Name:     "low-vigor-nutrition",
		Priority: PriorityHigh,
		Category: "nutrition",
		Title:    "Low vigor: adjust nitrogen and irrigation",
		Technical: "NDVI in the low band with no severe moisture deficit points to a nutritional " +
			"limitation rather than drought.",
		Plain: "The plants look weak; feeding them better should help.",
		Actions: []string{
			"Run a quick leaf-color check against the crop's reference chart",
			"Apply a split dose of nitrogen fertilizer",
			"Verify irrigation uniformity across the parcel",
			"Re-check NDVI after three to four weeks",
		},
		Impact:  "Recovers canopy growth within one cycle",
		Cost:    "Medium",
		Horizon: "One to two weeks",
		Predicate: func(input Input) bool {
			return input.NDVI.Valid && vigorState(input) == analysis.StateLow &&
				moistureState(input) != analysis.StateSevereStress
		},
	},
	{
		Name:     "declining-trend-prevention",
		Priority: PriorityMedium,
		Category: "prevention",
		Title:    "Declining vigor trend",
		Technical: "The NDVI series shows a sustained downward movement; intervening before the " +
			"mean crosses into the low band is substantially cheaper than recovery.",
		Plain: "The crop has been slowly losing strength; acting now avoids bigger problems later.",
		Actions: []string{
			"Compare recent months against the same months last year",
			"Inspect for early pest or disease pressure",
			"Review fertilization and irrigation calendars",
		},
		Impact:  "Stops the decline before yield is affected",
		Cost:    "Low",
		Horizon: "Two to four weeks",
		Predicate: func(input Input) bool {
			return input.NDVI.Valid && input.NDVI.Trend.Direction.Descending() &&
				vigorState(input) != analysis.StateCritical
		},
	},
	{
		Name:     "maintenance",
		Priority: PriorityLow,
		Category: "maintenance",
		Title:    "Maintain current management",
		Technical: "NDVI in the good band or better with a stable or rising trend; current " +
			"practices are working and should be documented.",
		Plain: "The crop is doing well; keep doing what you are doing.",
		Actions: []string{
			"Record the current fertilization and irrigation schedule",
			"Keep monthly satellite monitoring active",
			"Note any management change for later comparison",
		},
		Impact:  "Preserves a healthy baseline",
		Cost:    "Minimal",
		Horizon: "Ongoing",
		Predicate: func(input Input) bool {
			if !input.NDVI.Valid || input.NDVI.Trend.Direction.Descending() {
				return false
			}
			switch vigorState(input) {
			case analysis.StateGood, analysis.StateVeryGood, analysis.StateExcellent:
				return true
			}
			return false
		},
	},
	{
		Name:     "harvest-optimization",
		Priority: PriorityLow,
		Category: "optimization",
		Title:    "Optimize toward harvest",
		Technical: "Very good to excellent vigor with high fit confidence suggests the canopy is " +
			"at or near its seasonal plateau; harvest planning can start.",
		Plain: "The crop is at its best; a good moment to plan the harvest.",
		Actions: []string{
			"Estimate yield from canopy cover and historical records",
			"Schedule labor and post-harvest logistics",
			"Avoid late fertilizer applications that delay maturation",
		},
		Impact:  "Captures the quality peak",
		Cost:    "Minimal",
		Horizon: "Per crop calendar",
		Predicate: func(input Input) bool {
			if !input.NDVI.Valid {
				return false
			}
			state := vigorState(input)
			return (state == analysis.StateVeryGood || state == analysis.StateExcellent) &&
				input.Trend.Valid && input.Trend.Linear.Confidence == temporal.ConfidenceHigh
		},
	},
	{
		Name:     "severe-water-stress",
		Priority: PriorityHigh,
		Category: "irrigation",
		Title:    "Immediate irrigation required",
		Technical: "NDMI in the severe-stress band: canopy water content is below the level at " +
			"which most crops begin irreversible damage.",
		Plain: "The crop is very thirsty and needs water now.",
		Actions: []string{
			"Irrigate the driest zones first, today if possible",
			"Check pumps, lines and emitters for failures",
			"Mulch exposed soil to cut evaporation",
			"Re-measure canopy moisture after irrigating",
		},
		Impact:  "Avoids wilting and fruit drop",
		Cost:    "Low to medium",
		Horizon: "Immediate",
		Predicate: func(input Input) bool {
			return input.NDMI.Valid && moistureState(input) == analysis.StateSevereStress
		},
	},
	{
		Name:     "moderate-water-stress",
		Priority: PriorityMedium,
		Category: "irrigation",
		Title:    "Increase irrigation frequency",
		Technical: "NDMI in the stress band; the deficit is recoverable with a tighter irrigation " +
			"schedule before it propagates to NDVI.",
		Plain: "The crop is getting thirsty; water it more often.",
		Actions: []string{
			"Shorten the interval between irrigations",
			"Irrigate early morning or late afternoon",
			"Track soil moisture at two depths",
		},
		Impact:  "Keeps stress from reaching the canopy",
		Cost:    "Low",
		Horizon: "This week",
		Predicate: func(input Input) bool {
			return input.NDMI.Valid && moistureState(input) == analysis.StateStress
		},
	},
	{
		Name:     "declining-moisture",
		Priority: PriorityMedium,
		Category: "irrigation",
		Title:    "Moisture trending down",
		Technical: "The NDMI series is falling even though the current band is not yet critical; " +
			"the trajectory anticipates stress within one or two months.",
		Plain: "The land is drying out little by little; get ahead of it.",
		Actions: []string{
			"Review recent rainfall against the irrigation log",
			"Plan additional irrigation capacity for the coming weeks",
			"Check for runoff or drainage stealing water from the root zone",
		},
		Impact:  "Prevents future water stress",
		Cost:    "Low",
		Horizon: "Two to four weeks",
		Predicate: func(input Input) bool {
			return input.NDMI.Valid && input.NDMI.Trend.Direction.Descending() &&
				moistureState(input) != analysis.StateSevereStress &&
				moistureState(input) != analysis.StateStress
		},
	},
	{
		Name:     "waterlogging",
		Priority: PriorityMedium,
		Category: "drainage",
		Title:    "Possible waterlogging",
		Technical: "NDMI in the very-humid band combined with flat or falling NDVI suggests " +
			"saturated soil limiting root oxygenation.",
		Plain: "There may be too much water in the soil; the roots could be drowning.",
		Actions: []string{
			"Inspect low spots after the next rain",
			"Clear or deepen drainage channels",
			"Suspend irrigation until the profile drains",
		},
		Impact:  "Protects roots from asphyxia and fungus",
		Cost:    "Low to medium",
		Horizon: "One to two weeks",
		Predicate: func(input Input) bool {
			return input.NDMI.Valid && moistureState(input) == analysis.StateVeryHumid &&
				input.NDVI.Valid && !input.NDVI.Trend.Direction.Ascending()
		},
	},
	{
		Name:     "low-canopy-cover",
		Priority: PriorityMedium,
		Category: "canopy",
		Title:    "Evaluate canopy cover",
		Technical: "SAVI in the low band while NDVI reads higher indicates sparse cover with " +
			"exposed soil inflating the vigor signal.",
		Plain: "Much of the ground is bare; consider filling the gaps.",
		Actions: []string{
			"Count plants per hectare against the target density",
			"Replant gaps at the start of the next rains",
			"Use ground cover to protect exposed soil",
		},
		Impact:  "Raises effective productive area",
		Cost:    "Medium",
		Horizon: "Next planting window",
		Predicate: func(input Input) bool {
			return input.SAVI.Valid &&
				(input.SAVI.State == analysis.StateLow || input.SAVI.State == analysis.StateCritical)
		},
	},
	{
		Name:     "anomaly-follow-up",
		Priority: PriorityMedium,
		Category: "monitoring",
		Title:    "Investigate anomalous months",
		Technical: "One or more observations deviated beyond two standard deviations from the " +
			"series mean; single-month drops frequently map to localized damage events.",
		Plain: "Something unusual happened in at least one month; worth checking what it was.",
		Actions: []string{
			"Match the anomalous month against weather and field logs",
			"Inspect the zones visible in that month's satellite image",
			"Flag the cause in the parcel record",
		},
		Impact:  "Turns outliers into actionable history",
		Cost:    "Minimal",
		Horizon: "Next field visit",
		Predicate: func(input Input) bool {
			return len(input.NDVI.Anomalies) > 0 || len(input.NDMI.Anomalies) > 0
		},
	},
	{
		Name:     "high-variability",
		Priority: PriorityLow,
		Category: "monitoring",
		Title:    "Uneven readings across months",
		Technical: "High coefficient of variation in the NDVI series; monthly means are not " +
			"representative and zone-level inspection is advised.",
		Plain: "The measurements jump around a lot; look at each month separately.",
		Actions: []string{
			"Review cloud-cover flags on the noisiest months",
			"Compare zones inside the parcel rather than whole-parcel averages",
		},
		Impact:  "Improves confidence in future reports",
		Cost:    "Minimal",
		Horizon: "Ongoing",
		Predicate: func(input Input) bool {
			return input.NDVI.Valid && input.NDVI.Variability == "high"
		},
	},
	{
		Name:     "dry-season",
		Priority: PriorityLow,
		Category: "seasonal",
		Title:    "Dry-season guidance",
		Technical: "December through March brings reduced precipitation across the region; water " +
			"management dominates outcomes during this window.",
		Plain: "These are the dry months; take care of every drop.",
		Actions: []string{
			"Prioritize irrigation over fertilization",
			"Mulch to retain soil moisture",
			"Watch NDMI closely between satellite passes",
		},
		Impact:  "Reduces dry-season losses",
		Cost:    "Low",
		Horizon: "Through the season",
		Predicate: func(input Input) bool {
			return input.Season == SeasonDry
		},
	},
	{
		Name:     "wet-season",
		Priority: PriorityLow,
		Category: "seasonal",
		Title:    "Wet-season guidance",
		Technical: "The rainy window raises fungal pressure and nutrient leaching; drainage and " +
			"split fertilization matter more than irrigation.",
		Plain: "The rains are here; keep the water moving and the fungus out.",
		Actions: []string{
			"Keep drainage channels clear",
			"Split fertilizer applications to limit leaching",
			"Scout weekly for fungal outbreaks",
		},
		Impact:  "Protects the crop through the rains",
		Cost:    "Low",
		Horizon: "Through the season",
		Predicate: func(input Input) bool {
			return input.Season == SeasonWet
		},
	},
}
