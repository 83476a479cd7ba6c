package layers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"agrovista/internal/layers"
	"agrovista/internal/logging"
)

const waterGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"nombre": "Quebrada La Honda", "clase": "quebrada"},
      "geometry": {"type": "LineString", "coordinates": [[-74.10, 4.60], [-74.09, 4.61]]}
    }
  ]
}`

const protectedGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"nombre": "PNN Chingaza"},
      "geometry": {"type": "Polygon", "coordinates": [[[-73.9, 4.5], [-73.8, 4.5], [-73.8, 4.6], [-73.9, 4.6], [-73.9, 4.5]]]}
    }
  ]
}`

func writeLayerDir(t *testing.T, sidecar string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layers.toml"), []byte(sidecar), 0o644))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadParsesDeclaredLayers(t *testing.T) {
	sidecar := `
[water_network]
file = "water.geojson"
confidence = "high"
name_field = "nombre"
class_field = "clase"

[protected_areas]
file = "protected.geojson"
confidence = "medium"
name_field = "nombre"
`
	dir := writeLayerDir(t, sidecar, map[string]string{
		"water.geojson":     waterGeoJSON,
		"protected.geojson": protectedGeoJSON,
	})

	set, err := layers.NewLoader(dir, logging.NewNop()).Load()
	require.NoError(t, err)

	water := set.Layer(layers.WaterNetwork)
	require.True(t, water.Available)
	require.Equal(t, layers.ConfidenceHigh, water.Confidence)
	require.Len(t, water.Features, 1)
	require.Equal(t, "Quebrada La Honda", water.Features[0].Name)
	require.Equal(t, "quebrada", water.Features[0].Category)

	protected := set.Layer(layers.ProtectedAreas)
	require.True(t, protected.Available)
	require.Equal(t, "PNN Chingaza", protected.Features[0].Name)

	// Undeclared layers come back unavailable with a warning.
	paramos := set.Layer(layers.Paramos)
	require.False(t, paramos.Available)
	require.Equal(t, layers.ConfidenceUnavailable, paramos.Confidence)
	require.Contains(t, set.Warnings(), "páramos layer unavailable")
}

func TestLoadDegradesOnMissingFile(t *testing.T) {
	sidecar := `
[water_network]
file = "missing.geojson"
confidence = "high"
`
	dir := writeLayerDir(t, sidecar, nil)

	set, err := layers.NewLoader(dir, logging.NewNop()).Load()
	require.NoError(t, err)

	water := set.Layer(layers.WaterNetwork)
	require.False(t, water.Available)
	require.Equal(t, layers.ConfidenceUnavailable, water.Confidence)
	require.Contains(t, set.Warnings(), "water network layer unavailable")
}

func TestLoadIsIdempotent(t *testing.T) {
	dir := writeLayerDir(t, "", nil)
	loader := layers.NewLoader(dir, logging.NewNop())

	first, err := loader.Load()
	require.NoError(t, err)
	second, err := loader.Load()
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLowConfidenceWarns(t *testing.T) {
	sidecar := `
[protected_areas]
file = "protected.geojson"
confidence = "low"
name_field = "nombre"
`
	dir := writeLayerDir(t, sidecar, map[string]string{"protected.geojson": protectedGeoJSON})

	set, err := layers.NewLoader(dir, logging.NewNop()).Load()
	require.NoError(t, err)
	require.Contains(t, set.Warnings(), "protected areas layer has low confidence")
}
