package main

import (
	"strings"
	"testing"

	"agrovista/internal/layers"
	"agrovista/internal/legal"
	"agrovista/internal/logging"
	"agrovista/internal/series"
)

func TestLayerTableListsEveryKind(t *testing.T) {
	set, err := layers.NewLoader(t.TempDir(), logging.NewNop()).Load()
	if err != nil {
		t.Fatalf("load layers: %v", err)
	}

	rendered := layerTable(set)
	requireContains(t, rendered, "Layer")
	requireContains(t, rendered, "Features")
	for _, kind := range layers.Kinds() {
		requireContains(t, rendered, kind.DisplayName())
	}
	if got := strings.Count(rendered, "unavailable"); got != len(layers.Kinds()) {
		t.Fatalf("expected %d unavailable rows, got %d:\n%s", len(layers.Kinds()), got, rendered)
	}
}

func TestFindingTableShowsOverlapAndShortfall(t *testing.T) {
	findings := []legal.Finding{
		{
			Layer:      "protected areas",
			Name:       "PNN Chingaza",
			OverlapHa:  1.25,
			OverlapPct: 12.5,
			Citation:   "Ley 2 de 1959",
		},
		{
			Layer:      "water network",
			Name:       "Quebrada Honda",
			Citation:   "Decreto 1076 de 2015",
			ShortfallM: series.Float(12),
		},
	}

	rendered := findingTable(findings)
	requireContains(t, rendered, "1.25 ha (12.5%)")
	requireContains(t, rendered, "setback short by 12 m")
	requireContains(t, rendered, "Quebrada Honda")
	requireContains(t, rendered, "Decreto 1076 de 2015")
}
