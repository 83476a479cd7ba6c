package legal

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// capSegments is the number of segments approximating a quarter circle at
// line vertices. 4 per quadrant keeps the polygon within ~2% of the true
// buffer area, well inside the setback tolerance.
const capSegments = 16

// bufferLine builds a polygonal buffer of the given radius around every
// line segment of g. Each segment contributes a rectangle, each vertex a
// regular polygon approximating a circle, and the pieces are unioned.
// Point inputs get only the circle; polygon inputs buffer their boundary
// and union the polygon back in so the setback extends outward.
func bufferLine(g geom.Geometry, radius float64) (geom.Geometry, error) {
	if radius <= 0 || g.IsEmpty() {
		return g, nil
	}

	var out geom.Geometry
	merge := func(piece geom.Geometry) error {
		if out.IsEmpty() {
			out = piece
			return nil
		}
		merged, err := geom.Union(out, piece)
		if err != nil {
			return err
		}
		out = merged
		return nil
	}

	paths := linework(g)
	for _, path := range paths {
		for i := 0; i < len(path); i++ {
			if err := merge(circlePolygon(path[i], radius).AsGeometry()); err != nil {
				return geom.Geometry{}, err
			}
			if i+1 < len(path) {
				rect, ok := segmentRectangle(path[i], path[i+1], radius)
				if !ok {
					continue
				}
				if err := merge(rect.AsGeometry()); err != nil {
					return geom.Geometry{}, err
				}
			}
		}
	}

	if g.Dimension() == 2 {
		if err := merge(g); err != nil {
			return geom.Geometry{}, err
		}
	}
	return out, nil
}

// linework extracts vertex paths from any geometry: line strings as-is,
// polygon rings as closed paths, points as single-vertex paths.
func linework(g geom.Geometry) [][]geom.XY {
	var paths [][]geom.XY
	switch g.Type() {
	case geom.TypePoint:
		if xy, ok := g.MustAsPoint().XY(); ok {
			paths = append(paths, []geom.XY{xy})
		}
	case geom.TypeMultiPoint:
		mp := g.MustAsMultiPoint()
		for i := 0; i < mp.NumPoints(); i++ {
			if xy, ok := mp.PointN(i).XY(); ok {
				paths = append(paths, []geom.XY{xy})
			}
		}
	case geom.TypeLineString:
		paths = append(paths, sequencePath(g.MustAsLineString().Coordinates()))
	case geom.TypeMultiLineString:
		mls := g.MustAsMultiLineString()
		for i := 0; i < mls.NumLineStrings(); i++ {
			paths = append(paths, sequencePath(mls.LineStringN(i).Coordinates()))
		}
	case geom.TypePolygon:
		paths = append(paths, polygonPaths(g.MustAsPolygon())...)
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			paths = append(paths, polygonPaths(mp.PolygonN(i))...)
		}
	case geom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			paths = append(paths, linework(gc.GeometryN(i))...)
		}
	}
	return paths
}

func polygonPaths(p geom.Polygon) [][]geom.XY {
	paths := [][]geom.XY{sequencePath(p.ExteriorRing().Coordinates())}
	for i := 0; i < p.NumInteriorRings(); i++ {
		paths = append(paths, sequencePath(p.InteriorRingN(i).Coordinates()))
	}
	return paths
}

func sequencePath(seq geom.Sequence) []geom.XY {
	path := make([]geom.XY, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		path = append(path, seq.GetXY(i))
	}
	return path
}

// segmentRectangle returns the radius-wide rectangle around segment a-b.
// Degenerate (zero length) segments report ok=false.
func segmentRectangle(a, b geom.XY, radius float64) (geom.Polygon, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return geom.Polygon{}, false
	}
	// Unit normal to the segment.
	nx := -dy / length * radius
	ny := dx / length * radius

	coords := []float64{
		a.X + nx, a.Y + ny,
		b.X + nx, b.Y + ny,
		b.X - nx, b.Y - ny,
		a.X - nx, a.Y - ny,
		a.X + nx, a.Y + ny,
	}
	ring := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{ring}), true
}

// circlePolygon approximates a circle of the given radius as a regular
// polygon with capSegments sides.
func circlePolygon(center geom.XY, radius float64) geom.Polygon {
	coords := make([]float64, 0, (capSegments+1)*2)
	for i := 0; i <= capSegments; i++ {
		angle := 2 * math.Pi * float64(i%capSegments) / capSegments
		coords = append(coords, center.X+radius*math.Cos(angle), center.Y+radius*math.Sin(angle))
	}
	ring := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{ring})
}
