package temporal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"agrovista/internal/analysis"
	"agrovista/internal/series"
)

// minSamples is the floor below which no trend statistics are attempted.
const minSamples = 3

// Confidence grades the linear fit by its R².
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // R² > 0.7
	ConfidenceMedium Confidence = "medium" // R² > 0.4
	ConfidenceLow    Confidence = "low"
)

// LinearTrend is the OLS fit over sample index vs value.
type LinearTrend struct {
	Slope         float64
	Intercept     float64
	R2            float64
	PercentChange float64
	Direction     analysis.TrendDirection
	Confidence    Confidence
}

// Seasonality summarizes the calendar-month profile of the series.
type Seasonality struct {
	Detected    bool
	PeakMonth   string
	PeakValue   float64
	ValleyMonth string
	ValleyValue float64
	Description string
}

// CyclePoint is a local extreme relative to the series mean.
type CyclePoint struct {
	Period string
	Value  float64
}

// Cycles lists up to three peaks and three valleys.
type Cycles struct {
	Peaks   []CyclePoint
	Valleys []CyclePoint
}

// Severity grades an anomaly by its z-score.
type Severity string

const (
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe" // |z| > 3
)

// Anomaly is one outlier month flagged by the combined z-score and
// relative-change rules.
type Anomaly struct {
	Period         string
	Value          float64
	ZScore         float64
	RelativeChange float64
	Severity       Severity
	Direction      analysis.AnomalyDirection
}

// YearSummary is one calendar year's mean for the inter-annual comparison.
type YearSummary struct {
	Year    int
	Mean    float64
	Samples int
}

// InterAnnual compares calendar years; Available is false with fewer than
// two distinct years.
type InterAnnual struct {
	Available bool
	Years     []YearSummary
	DeltaPct  float64 // last year vs first year, in percent
}

// Projection is the one-step forecast with its 95% confidence margin.
type Projection struct {
	Value  float64
	Margin float64
}

// Report is the full temporal analysis for one index.
type Report struct {
	Index       series.IndexKind
	Valid       bool
	Reason      string // set when Valid is false
	SampleCount int
	Variability struct {
		StdDev float64
		CV     float64
	}
	Linear      LinearTrend
	Seasonality Seasonality
	Cycles      Cycles
	Anomalies   []Anomaly
	InterAnnual InterAnnual
	Projection  Projection
}

// Analyze computes the trend report for the chosen index. Fewer than three
// valid samples yield an insufficient-data report with Valid=false.
func Analyze(bundle series.Bundle, kind series.IndexKind) Report {
	report := Report{Index: kind}

	values, records := bundle.Values(kind)
	report.SampleCount = len(values)
	if len(values) < minSamples {
		report.Reason = fmt.Sprintf("insufficient data: %d valid samples, need at least %d", len(values), minSamples)
		return report
	}
	report.Valid = true

	mean, _ := stats.Mean(values)
	stddev, _ := stats.StandardDeviationPopulation(values)
	report.Variability.StdDev = stddev
	if mean != 0 {
		report.Variability.CV = stddev / math.Abs(mean)
	}

	report.Linear = linearFit(values)
	report.Seasonality = seasonality(values, records)
	report.Cycles = cycles(values, records, mean)
	report.Anomalies = anomalies(values, records, mean, stddev)
	report.InterAnnual = interAnnual(values, records)
	report.Projection = projection(values, report.Linear.Slope, stddev)
	return report
}

func linearFit(values []float64) LinearTrend {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	var slope, intercept float64
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	} else {
		intercept = sumY / n
	}

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range values {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - meanY) * (y - meanY)
	}
	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	}

	percent := 0.0
	if first := values[0]; first != 0 {
		percent = (values[len(values)-1] - first) / math.Abs(first) * 100
	}

	direction := analysis.TrendStable
	perStep := slope
	switch {
	case math.Abs(perStep) < 0.005:
		direction = analysis.TrendStable
	case perStep > 0.03:
		direction = analysis.TrendAscendingStrong
	case perStep > 0:
		direction = analysis.TrendAscending
	case perStep < -0.03:
		direction = analysis.TrendDescendingStrong
	default:
		direction = analysis.TrendDescending
	}

	confidence := ConfidenceLow
	switch {
	case r2 > 0.7:
		confidence = ConfidenceHigh
	case r2 > 0.4:
		confidence = ConfidenceMedium
	}

	return LinearTrend{
		Slope:         slope,
		Intercept:     intercept,
		R2:            r2,
		PercentChange: percent,
		Direction:     direction,
		Confidence:    confidence,
	}
}

// seasonality groups values by calendar month and declares a pattern when
// the spread across month means exceeds 15% of the minimum month mean.
func seasonality(values []float64, records []series.MonthlyRecord) Seasonality {
	byMonth := map[int][]float64{}
	for i, rec := range records {
		byMonth[rec.Month] = append(byMonth[rec.Month], values[i])
	}
	if len(byMonth) < 2 {
		return Seasonality{Description: "Not enough distinct months to evaluate seasonality."}
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	peakMonth, valleyMonth := months[0], months[0]
	peakValue := math.Inf(-1)
	valleyValue := math.Inf(1)
	for _, m := range months {
		mean, _ := stats.Mean(byMonth[m])
		if mean > peakValue {
			peakValue, peakMonth = mean, m
		}
		if mean < valleyValue {
			valleyValue, valleyMonth = mean, m
		}
	}

	detected := valleyValue != 0 && (peakValue-valleyValue) > 0.15*math.Abs(valleyValue)
	description := "No clear seasonal pattern in the observed window."
	if detected {
		description = fmt.Sprintf("Values peak around %s and dip around %s.",
			time.Month(peakMonth).String(), time.Month(valleyMonth).String())
	}
	return Seasonality{
		Detected:    detected,
		PeakMonth:   time.Month(peakMonth).String(),
		PeakValue:   peakValue,
		ValleyMonth: time.Month(valleyMonth).String(),
		ValleyValue: valleyValue,
		Description: description,
	}
}

// cycles finds local maxima above the mean and local minima below it,
// capped to three of each.
func cycles(values []float64, records []series.MonthlyRecord, mean float64) Cycles {
	var result Cycles
	for i := 1; i < len(values)-1; i++ {
		value := values[i]
		if value > values[i-1] && value > values[i+1] && value > mean && len(result.Peaks) < 3 {
			result.Peaks = append(result.Peaks, CyclePoint{Period: records[i].PeriodLabel(), Value: value})
		}
		if value < values[i-1] && value < values[i+1] && value < mean && len(result.Valleys) < 3 {
			result.Valleys = append(result.Valleys, CyclePoint{Period: records[i].PeriodLabel(), Value: value})
		}
	}
	return result
}

func anomalies(values []float64, records []series.MonthlyRecord, mean, stddev float64) []Anomaly {
	var result []Anomaly
	for i, value := range values {
		z := 0.0
		if stddev != 0 {
			z = (value - mean) / stddev
		}
		relative := 0.0
		if i > 0 && values[i-1] != 0 {
			relative = (value - values[i-1]) / math.Abs(values[i-1])
		}

		if math.Abs(z) <= 2 && math.Abs(relative) <= 0.25 {
			continue
		}
		severity := SeverityModerate
		if math.Abs(z) > 3 {
			severity = SeveritySevere
		}
		direction := analysis.AnomalySpike
		if z < 0 || (z == 0 && relative < 0) {
			direction = analysis.AnomalyDrop
		}
		result = append(result, Anomaly{
			Period:         records[i].PeriodLabel(),
			Value:          value,
			ZScore:         z,
			RelativeChange: relative,
			Severity:       severity,
			Direction:      direction,
		})
	}
	return result
}

func interAnnual(values []float64, records []series.MonthlyRecord) InterAnnual {
	byYear := map[int][]float64{}
	for i, rec := range records {
		byYear[rec.Year] = append(byYear[rec.Year], values[i])
	}
	if len(byYear) < 2 {
		return InterAnnual{}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	summaries := make([]YearSummary, 0, len(years))
	for _, y := range years {
		mean, _ := stats.Mean(byYear[y])
		summaries = append(summaries, YearSummary{Year: y, Mean: mean, Samples: len(byYear[y])})
	}

	delta := 0.0
	if first := summaries[0].Mean; first != 0 {
		delta = (summaries[len(summaries)-1].Mean - first) / math.Abs(first) * 100
	}
	return InterAnnual{Available: true, Years: summaries, DeltaPct: delta}
}

// projection extends the series one step with the fitted slope; the margin
// is the 95% normal interval of the mean, 1.96·σ/√n.
func projection(values []float64, slope, stddev float64) Projection {
	last := values[len(values)-1]
	margin := 1.96 * stddev / math.Sqrt(float64(len(values)))
	return Projection{Value: last + slope, Margin: margin}
}
