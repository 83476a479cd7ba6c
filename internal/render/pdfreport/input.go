package pdfreport

import (
	"time"

	"agrovista/internal/analysis"
	"agrovista/internal/legal"
	"agrovista/internal/recommend"
	"agrovista/internal/series"
	"agrovista/internal/temporal"
)

// ThumbnailFunc resolves one gallery slot to a local image path. ok=false
// turns the slot into a labeled placeholder.
type ThumbnailFunc func(kind series.IndexKind, year, month int) (string, bool)

// Input carries everything a report needs. All fields except Bundle are
// optional: missing pieces degrade to placeholders.
type Input struct {
	Bundle          series.Bundle
	Analyses        map[series.IndexKind]analysis.Analysis
	Temporal        map[series.IndexKind]temporal.Report
	Recommendations []recommend.Recommendation
	Legal           *legal.Result
	Thumbnail       ThumbnailFunc
	GeneratedAt     time.Time
}

func (in Input) analysisFor(kind series.IndexKind) (analysis.Analysis, bool) {
	a, ok := in.Analyses[kind]
	return a, ok && a.Valid
}

func (in Input) generatedAt() time.Time {
	if in.GeneratedAt.IsZero() {
		return time.Now()
	}
	return in.GeneratedAt
}
