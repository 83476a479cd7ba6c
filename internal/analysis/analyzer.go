package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"agrovista/internal/series"
)

// TrendDirection classifies the mean per-step movement of a series.
type TrendDirection string

const (
	TrendStable           TrendDirection = "stable"
	TrendAscending        TrendDirection = "ascending"
	TrendAscendingStrong  TrendDirection = "ascending-strong"
	TrendDescending       TrendDirection = "descending"
	TrendDescendingStrong TrendDirection = "descending-strong"
)

// Ascending reports whether the direction points up.
func (d TrendDirection) Ascending() bool {
	return d == TrendAscending || d == TrendAscendingStrong
}

// Descending reports whether the direction points down.
func (d TrendDirection) Descending() bool {
	return d == TrendDescending || d == TrendDescendingStrong
}

// Stats summarizes the valid samples of one index series.
type Stats struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
	CV     float64 // coefficient of variation, stddev/|mean|
}

// Trend is the analyzer's per-step movement summary.
type Trend struct {
	Direction     TrendDirection
	MeanDelta     float64
	PercentChange float64 // first valid point to last, in percent
}

// AnomalyDirection tags an outlier as a drop or a spike.
type AnomalyDirection string

const (
	AnomalyDrop  AnomalyDirection = "drop"
	AnomalySpike AnomalyDirection = "spike"
)

// Anomaly is one outlier month in the series.
type Anomaly struct {
	Year      int
	Month     int
	Period    string
	Value     float64
	ZScore    float64
	Direction AnomalyDirection
}

// Analysis is the full per-index result consumed by the recommendation
// engine and the renderers.
type Analysis struct {
	Index       series.IndexKind
	Crop        string
	Valid       bool
	SampleCount int
	Stats       Stats
	Trend       Trend
	State       State
	Variability string // low | moderate | high
	Anomalies   []Anomaly
	Score       float64
	Technical   []Fragment
	Plain       []Fragment
	Warnings    []string
}

// Analyzer computes an Analysis for one index, parameterized by crop type.
// The zero value is not usable; construct with New.
type Analyzer struct {
	kind  series.IndexKind
	crop  string
	table thresholdTable
}

// New builds an analyzer for the given index and crop. Unknown crops use the
// General threshold row.
func New(kind series.IndexKind, crop string) *Analyzer {
	return &Analyzer{kind: kind, crop: crop, table: tableFor(kind, crop)}
}

// Analyze produces the per-index analysis. It never returns an error: a
// series without a single valid sample yields the sentinel no-data analysis
// and downstream consumers degrade accordingly.
func (a *Analyzer) Analyze(bundle series.Bundle) Analysis {
	result := Analysis{Index: a.kind, Crop: a.crop, State: StateNoData}

	values, records := bundle.Values(a.kind)
	result.Warnings = collectWarnings(bundle, a.kind)
	result.SampleCount = len(values)
	if len(values) == 0 {
		result.Technical = []Fragment{Plain("No valid samples were available for "), Bold(a.kind.Display()), Plain(" in the selected period.")}
		result.Plain = []Fragment{Plain("There is not enough satellite data to evaluate this index.")}
		return result
	}

	result.Valid = true
	result.Stats = summarize(values)
	result.Trend = classifyTrend(values)
	result.State = a.table.classify(result.Stats.Mean)
	result.Variability = variabilityClass(result.Stats.CV)
	result.Anomalies = detectAnomalies(values, records, result.Stats)
	result.Score = score(result.Stats.Mean, result.Trend.Direction)
	result.Technical = a.technicalInterpretation(result)
	result.Plain = a.plainInterpretation(result)
	return result
}

// collectWarnings reports every out-of-range mean in the bundle. Bundles are
// not required to come from the catalog, so records may still carry raw means.
func collectWarnings(bundle series.Bundle, kind series.IndexKind) []string {
	var warnings []string
	for _, rec := range bundle.Records {
		sample := rec.Index(kind)
		if sample.Mean != nil && !series.InRange(*sample.Mean) {
			warnings = append(warnings, fmt.Sprintf("%s: %s value %.3f outside valid range, skipped",
				rec.PeriodLabel(), kind.Display(), *sample.Mean))
		}
	}
	return warnings
}

func summarize(values []float64) Stats {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	minimum, _ := stats.Min(values)
	maximum, _ := stats.Max(values)
	stddev, _ := stats.StandardDeviationPopulation(values)

	cv := 0.0
	if mean != 0 {
		cv = stddev / math.Abs(mean)
	}
	return Stats{Mean: mean, Median: median, Min: minimum, Max: maximum, StdDev: stddev, CV: cv}
}

func classifyTrend(values []float64) Trend {
	if len(values) < 2 {
		return Trend{Direction: TrendStable}
	}
	total := 0.0
	for i := 1; i < len(values); i++ {
		total += values[i] - values[i-1]
	}
	meanDelta := total / float64(len(values)-1)

	direction := TrendStable
	switch {
	case math.Abs(meanDelta) < 0.02:
		direction = TrendStable
	case meanDelta > 0.05:
		direction = TrendAscendingStrong
	case meanDelta > 0:
		direction = TrendAscending
	case meanDelta < -0.05:
		direction = TrendDescendingStrong
	default:
		direction = TrendDescending
	}

	percent := 0.0
	if first := values[0]; first != 0 {
		percent = (values[len(values)-1] - first) / math.Abs(first) * 100
	}
	return Trend{Direction: direction, MeanDelta: meanDelta, PercentChange: percent}
}

func detectAnomalies(values []float64, records []series.MonthlyRecord, s Stats) []Anomaly {
	if s.StdDev == 0 {
		return nil
	}
	var anomalies []Anomaly
	for i, value := range values {
		z := (value - s.Mean) / s.StdDev
		if math.Abs(z) <= 2 {
			continue
		}
		direction := AnomalySpike
		if z < 0 {
			direction = AnomalyDrop
		}
		anomalies = append(anomalies, Anomaly{
			Year:      records[i].Year,
			Month:     records[i].Month,
			Period:    records[i].PeriodLabel(),
			Value:     value,
			ZScore:    z,
			Direction: direction,
		})
	}
	return anomalies
}

// score maps the series mean onto [0, 10] (0.0 -> 0, 1.0 -> 10) and adjusts
// one point for a decided trend direction.
func score(mean float64, direction TrendDirection) float64 {
	base := mean * 10
	switch {
	case direction.Ascending():
		base += 1.0
	case direction.Descending():
		base -= 1.0
	}
	if base < 0 {
		base = 0
	}
	if base > 10 {
		base = 10
	}
	return math.Round(base*10) / 10
}

func variabilityClass(cv float64) string {
	switch {
	case cv < 0.10:
		return "low"
	case cv < 0.25:
		return "moderate"
	default:
		return "high"
	}
}
