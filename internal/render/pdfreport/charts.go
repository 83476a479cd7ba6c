package pdfreport

import (
	"bytes"
	"errors"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"agrovista/internal/analysis"
	"agrovista/internal/series"
)

// chartDPI rasterizes embedded charts at print quality.
const chartDPI = 150

var indexColors = map[series.IndexKind]drawing.Color{
	series.NDVI: {R: 46, G: 125, B: 50, A: 255},
	series.NDMI: {R: 21, G: 101, B: 192, A: 255},
	series.SAVI: {R: 230, G: 81, B: 0, A: 255},
}

var errNoChartData = errors.New("no index has enough samples to chart")

// evolutionChart draws the multi-line temporal evolution of all indices
// that have at least two valid samples, on a shared monthly x-axis.
func evolutionChart(bundle series.Bundle) ([]byte, error) {
	graph := chart.Chart{
		Width:  1060,
		Height: 520,
		DPI:    chartDPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 8},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -0.2, Max: 1.0},
		},
	}

	for _, kind := range series.Kinds() {
		values, records := bundle.Values(kind)
		if len(values) < 2 {
			continue
		}
		xs := make([]time.Time, len(records))
		for i, rec := range records {
			xs[i] = time.Date(rec.Year, time.Month(rec.Month), 15, 0, 0, 0, 0, time.UTC)
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    kind.Display(),
			XValues: xs,
			YValues: values,
			Style: chart.Style{
				StrokeColor: indexColors[kind],
				StrokeWidth: 2.2,
			},
		})
	}
	if len(graph.Series) == 0 {
		return nil, errNoChartData
	}

	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// comparativeChart draws the three-bar comparison of period averages.
func comparativeChart(analyses map[series.IndexKind]analysis.Analysis) ([]byte, error) {
	var bars []chart.Value
	for _, kind := range series.Kinds() {
		a, ok := analyses[kind]
		if !ok || !a.Valid {
			continue
		}
		bars = append(bars, chart.Value{
			Label: kind.Display(),
			Value: a.Stats.Mean,
			Style: chart.Style{
				FillColor:   indexColors[kind],
				StrokeColor: indexColors[kind],
			},
		})
	}
	if len(bars) == 0 {
		return nil, errNoChartData
	}

	graph := chart.BarChart{
		Width:    1060,
		Height:   420,
		DPI:      chartDPI,
		BarWidth: 90,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 8},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1.0},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
