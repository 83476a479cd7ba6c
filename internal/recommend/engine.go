package recommend

import (
	"sort"
	"time"

	"agrovista/internal/analysis"
	"agrovista/internal/temporal"
)

// Priority orders recommendations; high sorts first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String returns the lowercase priority token used in artifacts.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Season is derived from the calendar: December through March is the dry
// season on the Colombian Andean calendar, the rest is wet.
type Season string

const (
	SeasonDry Season = "dry"
	SeasonWet Season = "wet"
)

// SeasonFor maps a date to its season.
func SeasonFor(date time.Time) Season {
	switch date.Month() {
	case time.December, time.January, time.February, time.March:
		return SeasonDry
	default:
		return SeasonWet
	}
}

// Input bundles everything the rule predicates can consult.
type Input struct {
	NDVI   analysis.Analysis
	NDMI   analysis.Analysis
	SAVI   analysis.Analysis
	Trend  temporal.Report
	Crop   string
	Season Season
}

// Recommendation is one agronomic action plan produced by a firing rule.
type Recommendation struct {
	Priority  Priority `json:"priority"`
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Technical string   `json:"technical"`
	Plain     string   `json:"plain"`
	Actions   []string `json:"actions"` // at most five concrete steps
	Impact    string   `json:"impact"`
	Cost      string   `json:"cost"`
	Horizon   string   `json:"horizon"`
}

// maxRecommendations caps the final list.
const maxRecommendations = 10

// Generate evaluates the catalog against the input, then sorts by priority
// (ties broken by title), deduplicates by title and truncates to ten. An
// input with no valid analyses simply yields fewer or no recommendations;
// Generate never fails.
func Generate(input Input) []Recommendation {
	var collected []Recommendation
	for _, rule := range Catalog {
		if rule.Predicate(input) {
			collected = append(collected, rule.Build(input))
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].Priority != collected[j].Priority {
			return collected[i].Priority < collected[j].Priority
		}
		return collected[i].Title < collected[j].Title
	})

	seen := map[string]struct{}{}
	deduped := collected[:0]
	for _, rec := range collected {
		if _, ok := seen[rec.Title]; ok {
			continue
		}
		seen[rec.Title] = struct{}{}
		deduped = append(deduped, rec)
	}

	if len(deduped) > maxRecommendations {
		deduped = deduped[:maxRecommendations]
	}
	return deduped
}
