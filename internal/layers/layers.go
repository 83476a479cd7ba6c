package layers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/peterstace/simplefeatures/geom"

	"agrovista/internal/logging"
)

// Kind identifies one restriction layer.
type Kind string

const (
	WaterNetwork       Kind = "water-network"
	ProtectedAreas     Kind = "protected-areas"
	IndigenousReserves Kind = "indigenous-reserves"
	Paramos            Kind = "paramos"
)

// Kinds lists every layer in canonical order.
func Kinds() []Kind {
	return []Kind{WaterNetwork, ProtectedAreas, IndigenousReserves, Paramos}
}

// DisplayName is the layer name used in warnings and reports.
func (k Kind) DisplayName() string {
	switch k {
	case WaterNetwork:
		return "water network"
	case ProtectedAreas:
		return "protected areas"
	case IndigenousReserves:
		return "indigenous reserves"
	case Paramos:
		return "páramos"
	}
	return string(k)
}

// Confidence expresses completeness and authority of a layer's source.
type Confidence string

const (
	ConfidenceHigh        Confidence = "high"
	ConfidenceMedium      Confidence = "medium"
	ConfidenceLow         Confidence = "low"
	ConfidenceUnavailable Confidence = "unavailable"
)

// AtLeastMedium reports whether the confidence supports area arithmetic.
func (c Confidence) AtLeastMedium() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium
}

// Feature is one named geometry inside a layer.
type Feature struct {
	Name     string
	Category string // watercourse class for the water network
	Geometry geom.Geometry
}

// Layer holds one loaded restriction dataset.
type Layer struct {
	Kind       Kind
	Confidence Confidence
	Available  bool
	Features   []Feature
}

// Set is the full collection the verifier consults, plus the warnings
// accumulated while loading.
type Set struct {
	layers   map[Kind]*Layer
	warnings []string
}

// Layer returns the entry for a kind; never nil. Missing kinds come back as
// unavailable.
func (s *Set) Layer(kind Kind) *Layer {
	if layer, ok := s.layers[kind]; ok {
		return layer
	}
	return &Layer{Kind: kind, Confidence: ConfidenceUnavailable}
}

// Warnings lists the problems encountered at load time.
func (s *Set) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// sidecar mirrors layers.toml.
type sidecar map[string]sidecarEntry

type sidecarEntry struct {
	File       string `toml:"file"`
	Confidence string `toml:"confidence"`
	NameField  string `toml:"name_field"`
	ClassField string `toml:"class_field"`
}

var sidecarKeys = map[Kind]string{
	WaterNetwork:       "water_network",
	ProtectedAreas:     "protected_areas",
	IndigenousReserves: "indigenous_reserves",
	Paramos:            "paramos",
}

// Loader loads the layer set once per process and hands out the shared,
// immutable result afterwards.
type Loader struct {
	dir    string
	logger *slog.Logger

	once sync.Once
	set  *Set
	err  error
}

// NewLoader builds a lazy loader over the given directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{dir: dir, logger: logging.NewComponentLogger(logger, "layers")}
}

// Load parses the sidecar and every declared layer file. It only fails for
// an unreadable sidecar; individual layer problems degrade to unavailable
// entries.
func (l *Loader) Load() (*Set, error) {
	l.once.Do(func() {
		l.set, l.err = l.loadAll()
	})
	return l.set, l.err
}

func (l *Loader) loadAll() (*Set, error) {
	set := &Set{layers: map[Kind]*Layer{}}

	meta, err := l.readSidecar()
	if err != nil {
		return nil, err
	}

	for _, kind := range Kinds() {
		entry, declared := meta[sidecarKeys[kind]]
		if !declared {
			set.layers[kind] = &Layer{Kind: kind, Confidence: ConfidenceUnavailable}
			set.warnings = append(set.warnings, fmt.Sprintf("%s layer unavailable", kind.DisplayName()))
			continue
		}
		layer := l.loadLayer(kind, entry)
		set.layers[kind] = layer
		if !layer.Available {
			set.warnings = append(set.warnings, fmt.Sprintf("%s layer unavailable", kind.DisplayName()))
		} else if layer.Confidence == ConfidenceLow {
			set.warnings = append(set.warnings, fmt.Sprintf("%s layer has low confidence", kind.DisplayName()))
		}
	}
	return set, nil
}

func (l *Loader) readSidecar() (sidecar, error) {
	path := filepath.Join(l.dir, "layers.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("layer sidecar missing, all layers unavailable", logging.String("path", path))
			return sidecar{}, nil
		}
		return nil, fmt.Errorf("read layer sidecar: %w", err)
	}
	var meta sidecar
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse layer sidecar: %w", err)
	}
	return meta, nil
}

func (l *Loader) loadLayer(kind Kind, entry sidecarEntry) *Layer {
	layer := &Layer{Kind: kind, Confidence: parseConfidence(entry.Confidence)}

	path := entry.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn("layer file unreadable",
			logging.String(logging.FieldLayer, string(kind)),
			logging.String("path", path),
			logging.Error(err))
		layer.Confidence = ConfidenceUnavailable
		return layer
	}

	var fc geom.GeoJSONFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		l.logger.Warn("layer file is not a GeoJSON feature collection",
			logging.String(logging.FieldLayer, string(kind)),
			logging.Error(err))
		layer.Confidence = ConfidenceUnavailable
		return layer
	}

	for i, feature := range fc {
		if feature.Geometry.IsEmpty() {
			continue
		}
		layer.Features = append(layer.Features, Feature{
			Name:     stringProp(feature.Properties, entry.NameField, fmt.Sprintf("%s #%d", kind.DisplayName(), i+1)),
			Category: stringProp(feature.Properties, entry.ClassField, ""),
			Geometry: feature.Geometry,
		})
	}
	layer.Available = true
	l.logger.Info("layer loaded",
		logging.String(logging.FieldLayer, string(kind)),
		logging.Int("features", len(layer.Features)),
		logging.String("confidence", string(layer.Confidence)))
	return layer
}

func parseConfidence(value string) Confidence {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

func stringProp(props map[string]any, field, fallback string) string {
	if field == "" {
		return fallback
	}
	if raw, ok := props[field]; ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return fallback
}
