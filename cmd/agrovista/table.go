package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"agrovista/internal/layers"
	"agrovista/internal/legal"
)

func newStatusTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// layerTable renders one row per restriction layer in canonical order, with
// the feature count right-aligned.
func layerTable(set *layers.Set) string {
	tw := newStatusTable()
	tw.AppendHeader(table.Row{"Layer", "Available", "Confidence", "Features"})
	for _, kind := range layers.Kinds() {
		layer := set.Layer(kind)
		tw.AppendRow(table.Row{
			layer.Kind.DisplayName(),
			yesNo(layer.Available),
			string(layer.Confidence),
			strconv.Itoa(len(layer.Features)),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// findingTable renders one row per restriction finding. Setback findings
// report the shortfall in metres instead of the overlap area.
func findingTable(findings []legal.Finding) string {
	tw := newStatusTable()
	tw.AppendHeader(table.Row{"Layer", "Feature", "Detail", "Citation"})
	for _, f := range findings {
		detail := fmt.Sprintf("%.2f ha (%.1f%%)", f.OverlapHa, f.OverlapPct)
		if f.ShortfallM != nil {
			detail = fmt.Sprintf("setback short by %.0f m", *f.ShortfallM)
		}
		tw.AppendRow(table.Row{f.Layer, f.Name, detail, f.Citation})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
