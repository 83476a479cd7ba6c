package legal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/peterstace/simplefeatures/geom"

	"agrovista/internal/layers"
	"agrovista/internal/logging"
	"agrovista/internal/series"
	"agrovista/internal/services"
)

// Verification phases. A layer that fails to load skips its phase and the
// run transitions straight to aggregation with the layer marked
// unavailable.
const (
	phaseInit            = "init"
	phaseLayersLoaded    = "layers-loaded"
	phaseParcelProjected = "parcel-projected"
	phaseOverlaps        = "overlaps-computed"
	phaseSetbacks        = "setbacks-checked"
	phaseAggregated      = "aggregated"
	phaseDone            = "done"
)

// complianceThreshold is the restricted fraction of the parcel above which
// compliance fails.
const complianceThreshold = 0.01

// Setback distances in metres by watercourse class.
const (
	setbackQuebrada = 30.0
	setbackRio      = 30.0
	setbackRioMayor = 100.0
)

// Regulation citations attached to findings.
const (
	citationWater      = "Decreto 1449 de 1977, art. 3"
	citationProtected  = "Decreto 2372 de 2010"
	citationIndigenous = "Decreto 2164 de 1995"
	citationParamos    = "Ley 1930 de 2018"
)

var polygonCitations = map[layers.Kind]string{
	layers.ProtectedAreas:     citationProtected,
	layers.IndigenousReserves: citationIndigenous,
	layers.Paramos:            citationParamos,
}

// Verifier checks one parcel against the loaded restriction layers.
type Verifier struct {
	logger *slog.Logger
}

// NewVerifier builds a verifier that logs under the legal component.
func NewVerifier(logger *slog.Logger) *Verifier {
	return &Verifier{logger: logging.NewComponentLogger(logger, "legal")}
}

// Verify runs the full verification state machine for one parcel. It only
// returns an error for an unusable parcel geometry; layer problems degrade
// to warnings inside the result.
func (v *Verifier) Verify(parcel series.Parcel, set *layers.Set) (*Result, error) {
	run := &verification{
		parcel: parcel,
		set:    set,
		logger: v.logger.With(logging.String(logging.FieldParcel, parcel.ID)),
		result: &Result{
			ParcelID:        parcel.ID,
			Findings:        []Finding{},
			Warnings:        []string{},
			LayerConfidence: map[layers.Kind]layers.Confidence{},
		},
	}
	if err := run.execute(); err != nil {
		return nil, err
	}
	return run.result, nil
}

type verification struct {
	parcel series.Parcel
	set    *layers.Set
	logger *slog.Logger
	result *Result

	projected  geom.Geometry
	boundary   geom.Geometry
	totalM2    float64
	restricted geom.Geometry
	shortfall  bool
}

func (run *verification) execute() error {
	run.transition(phaseInit)

	run.transition(phaseLayersLoaded)
	run.recordLayers()

	run.transition(phaseParcelProjected)
	if err := run.projectParcel(); err != nil {
		return err
	}

	run.transition(phaseOverlaps)
	run.computeOverlaps()

	run.transition(phaseSetbacks)
	run.checkSetbacks()

	run.transition(phaseAggregated)
	run.aggregate()

	run.transition(phaseDone)
	return nil
}

func (run *verification) transition(phase string) {
	run.logger.Debug("verification phase", logging.String(logging.FieldStage, phase))
}

func (run *verification) recordLayers() {
	for _, kind := range layers.Kinds() {
		run.result.LayerConfidence[kind] = run.set.Layer(kind).Confidence
	}
	run.result.Warnings = append(run.result.Warnings, run.set.Warnings()...)
}

func (run *verification) projectParcel() error {
	raw := strings.TrimSpace(run.parcel.GeometryGeoJSON)
	if raw == "" {
		return services.Wrap(services.ErrValidation, "legal", "project parcel",
			fmt.Sprintf("parcel %s has no geometry", run.parcel.ID), nil)
	}
	g, err := geom.UnmarshalGeoJSON([]byte(raw))
	if err != nil {
		return services.Wrap(services.ErrValidation, "legal", "project parcel",
			fmt.Sprintf("parcel %s geometry is invalid", run.parcel.ID), err)
	}
	if g.Dimension() != 2 {
		return services.Wrap(services.ErrValidation, "legal", "project parcel",
			fmt.Sprintf("parcel %s geometry is not areal", run.parcel.ID), nil)
	}
	projected, err := ProjectToMetric(g)
	if err != nil {
		return services.Wrap(services.ErrValidation, "legal", "project parcel",
			fmt.Sprintf("parcel %s could not be reprojected", run.parcel.ID), err)
	}
	run.projected = projected
	run.boundary = projected.Boundary()
	run.totalM2 = projected.Area()
	if run.totalM2 <= 0 {
		return services.Wrap(services.ErrValidation, "legal", "project parcel",
			fmt.Sprintf("parcel %s has zero area", run.parcel.ID), nil)
	}
	return nil
}

func (run *verification) computeOverlaps() {
	for _, kind := range []layers.Kind{layers.ProtectedAreas, layers.IndigenousReserves, layers.Paramos} {
		layer := run.set.Layer(kind)
		if !layer.Available {
			continue
		}
		for _, feature := range layer.Features {
			run.overlapFinding(kind, feature)
		}
	}
}

func (run *verification) overlapFinding(kind layers.Kind, feature layers.Feature) {
	projected, err := ProjectToMetric(feature.Geometry)
	if err != nil {
		run.degrade(kind, feature.Name, err)
		return
	}
	overlap, err := geom.Intersection(run.projected, projected)
	if err != nil {
		run.degrade(kind, feature.Name, err)
		return
	}
	overlapM2 := overlap.Area()
	if overlapM2 <= 0 {
		return
	}
	run.mergeRestricted(overlap)

	ha := overlapM2 / 10000
	run.result.Findings = append(run.result.Findings, Finding{
		Layer:      string(kind),
		Name:       feature.Name,
		OverlapHa:  roundHa(ha),
		OverlapPct: roundPct(overlapM2 / run.totalM2 * 100),
		Citation:   polygonCitations[kind],
		Description: fmt.Sprintf("Parcel overlaps %s (%s) by %.2f ha (%.1f%% of parcel)",
			feature.Name, kind.DisplayName(), roundHa(ha), roundPct(overlapM2/run.totalM2*100)),
	})
	run.logger.Info("restriction overlap",
		logging.String(logging.FieldLayer, string(kind)),
		logging.String("feature", feature.Name),
		logging.Float64("overlap_ha", roundHa(ha)))
}

func (run *verification) checkSetbacks() {
	water := run.set.Layer(layers.WaterNetwork)
	if !water.Available {
		return
	}
	for _, feature := range water.Features {
		run.setbackFinding(feature)
	}
}

func (run *verification) setbackFinding(feature layers.Feature) {
	projected, err := ProjectToMetric(feature.Geometry)
	if err != nil {
		run.degrade(layers.WaterNetwork, feature.Name, err)
		return
	}

	required := setbackFor(feature.Category)
	distance, ok := geom.Distance(run.boundary, projected)
	if !ok {
		return
	}
	if geom.Intersects(run.projected, projected) {
		distance = 0
	}
	if distance >= required {
		return
	}

	buffer, err := bufferLine(projected, required)
	if err != nil {
		run.degrade(layers.WaterNetwork, feature.Name, err)
		return
	}
	overlap, err := geom.Intersection(run.projected, buffer)
	if err != nil {
		run.degrade(layers.WaterNetwork, feature.Name, err)
		return
	}
	overlapM2 := overlap.Area()
	if overlapM2 > 0 {
		run.mergeRestricted(overlap)
	}

	run.shortfall = true
	dist := roundDistance(distance)
	setback := required
	short := roundDistance(required - distance)
	run.result.Findings = append(run.result.Findings, Finding{
		Layer:      string(layers.WaterNetwork),
		Name:       feature.Name,
		Category:   feature.Category,
		OverlapHa:  roundHa(overlapM2 / 10000),
		OverlapPct: roundPct(overlapM2 / run.totalM2 * 100),
		Citation:   citationWater,
		DistanceM:  &dist,
		SetbackM:   &setback,
		ShortfallM: &short,
		Description: fmt.Sprintf("Parcel boundary lies %.1f m from %s; the required setback is %.0f m",
			dist, feature.Name, required),
	})
	run.logger.Info("setback shortfall",
		logging.String("feature", feature.Name),
		logging.Float64("distance_m", dist),
		logging.Float64("required_m", required))
}

func (run *verification) aggregate() {
	restrictedM2 := 0.0
	if !run.restricted.IsEmpty() {
		restrictedM2 = run.restricted.Area()
	}
	if restrictedM2 > run.totalM2 {
		restrictedM2 = run.totalM2
	}

	run.result.TotalAreaHa = roundHa(run.totalM2 / 10000)
	run.result.RestrictedHa = roundHa(restrictedM2 / 10000)
	run.result.Compliance = restrictedM2/run.totalM2 < complianceThreshold && !run.shortfall

	if blocked := run.indeterminableLayers(); len(blocked) > 0 {
		run.result.Cultivable = CultivableArea{
			Determinable: false,
			Note:         strings.Join(blocked, "; "),
		}
	} else {
		cultivable := run.totalM2 - restrictedM2
		if cultivable < 0 {
			cultivable = 0
		}
		run.result.Cultivable = CultivableArea{
			Determinable: true,
			ValueHa:      roundHa(cultivable / 10000),
		}
	}

	run.logger.Info("verification aggregated",
		logging.Bool("compliance", run.result.Compliance),
		logging.Float64("restricted_ha", run.result.RestrictedHa),
		logging.Int("findings", len(run.result.Findings)))
}

// indeterminableLayers lists the reasons cultivable area cannot be
// computed, one per layer below medium confidence.
func (run *verification) indeterminableLayers() []string {
	var reasons []string
	for _, kind := range layers.Kinds() {
		layer := run.set.Layer(kind)
		if !layer.Available {
			reasons = append(reasons, fmt.Sprintf("%s layer unavailable", kind.DisplayName()))
			continue
		}
		if !layer.Confidence.AtLeastMedium() {
			reasons = append(reasons, fmt.Sprintf("%s layer has low confidence", kind.DisplayName()))
		}
	}
	return reasons
}

func (run *verification) mergeRestricted(overlap geom.Geometry) {
	if run.restricted.IsEmpty() {
		run.restricted = overlap
		return
	}
	merged, err := geom.Union(run.restricted, overlap)
	if err != nil {
		// Keep the larger piece rather than losing the aggregate.
		run.logger.Warn("restricted union failed", logging.Error(err))
		if overlap.Area() > run.restricted.Area() {
			run.restricted = overlap
		}
		return
	}
	run.restricted = merged
}

// degrade marks a layer unavailable after a geometry failure mid-run.
func (run *verification) degrade(kind layers.Kind, feature string, err error) {
	run.logger.Warn("layer feature unusable",
		logging.String(logging.FieldLayer, string(kind)),
		logging.String("feature", feature),
		logging.Error(err))
	run.result.LayerConfidence[kind] = layers.ConfidenceLow
	run.result.Warnings = append(run.result.Warnings,
		fmt.Sprintf("%s layer has low confidence", kind.DisplayName()))
}

// setbackFor maps a watercourse class to its minimum setback in metres.
func setbackFor(category string) float64 {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "rio mayor", "río mayor", "major river":
		return setbackRioMayor
	case "rio", "río", "river":
		return setbackRio
	case "quebrada", "stream", "creek":
		return setbackQuebrada
	default:
		return setbackQuebrada
	}
}
