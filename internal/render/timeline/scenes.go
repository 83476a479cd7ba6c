package timeline

import (
	"fmt"
	"strings"

	"agrovista/internal/series"
)

// Scene durations in seconds, fixed by the storyboard.
const (
	coverDuration   = 3.0
	monthlyDuration = 2.5
	textDuration    = 5.0
	closingDuration = 3.0
)

// maxTextItems caps sentences on the analysis scene and bullets on the
// recommendations scene.
const maxTextItems = 3

// ThumbnailFunc resolves the raster for one month of the chosen index.
type ThumbnailFunc func(kind series.IndexKind, year, month int) (string, bool)

// Input describes one video request.
type Input struct {
	Bundle              series.Bundle
	Index               series.IndexKind
	AnalysisText        string
	RecommendationsText string
	Thumbnail           ThumbnailFunc
}

// scene is one storyboard entry: a single frame held for its duration.
type scene struct {
	name     string
	duration float64
	draw     func(f *frame)
}

// monthlyContext carries everything a map scene shows.
type monthlyContext struct {
	record     series.MonthlyRecord
	rasterPath string
	mean       *float64
	previous   *float64
}

func buildScenes(in Input, product, tagline string) []scene {
	scenes := []scene{{
		name:     "cover",
		duration: coverDuration,
		draw:     coverScene(in, product),
	}}

	var previous *float64
	for _, rec := range in.Bundle.Records {
		path, ok := resolveRaster(in, rec)
		mean := rec.Index(in.Index).Mean
		if ok {
			scenes = append(scenes, scene{
				name:     fmt.Sprintf("month-%04d-%02d", rec.Year, rec.Month),
				duration: monthlyDuration,
				draw: monthlyScene(in, monthlyContext{
					record:     rec,
					rasterPath: path,
					mean:       mean,
					previous:   previous,
				}),
			})
		}
		if mean != nil {
			previous = mean
		}
	}

	if sentences := truncateSentences(in.AnalysisText, maxTextItems); sentences != "" {
		scenes = append(scenes, scene{
			name:     "analysis",
			duration: textDuration,
			draw:     paragraphScene("Analysis", sentences),
		})
	}
	if bullets := truncateBullets(in.RecommendationsText, maxTextItems); len(bullets) > 0 {
		scenes = append(scenes, scene{
			name:     "recommendations",
			duration: textDuration,
			draw:     bulletScene("Recommendations", bullets),
		})
	}

	scenes = append(scenes, scene{
		name:     "closing",
		duration: closingDuration,
		draw:     closingScene(product, tagline),
	})
	return scenes
}

func resolveRaster(in Input, rec series.MonthlyRecord) (string, bool) {
	if in.Thumbnail == nil {
		return "", false
	}
	return in.Thumbnail(in.Index, rec.Year, rec.Month)
}

func totalDuration(scenes []scene) float64 {
	var total float64
	for _, s := range scenes {
		total += s.duration
	}
	return total
}

// truncateSentences keeps at most limit sentences. A sentence ends at
// '.', '!' or '?' followed by a space or the end of the text, so decimals
// like 0.65 do not split.
func truncateSentences(text string, limit int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] != ' ' {
				continue
			}
			count++
			if count == limit {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}

// truncateBullets splits the text into at most limit items, accepting
// newline or semicolon separators.
func truncateBullets(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	var bullets []string
	for _, part := range parts {
		part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-*0123456789. "))
		if part == "" {
			continue
		}
		bullets = append(bullets, part)
		if len(bullets) == limit {
			break
		}
	}
	return bullets
}
