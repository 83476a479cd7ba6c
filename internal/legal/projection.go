package legal

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// EPSG:3116, MAGNA-SIRGAS / Colombia Bogotá zone: a Gauss-Krüger
// transverse Mercator on the GRS80 ellipsoid. Constants from the IGAC
// definition.
const (
	grs80A = 6378137.0
	grs80F = 1.0 / 298.257222101

	originLatDeg = 4.596200416666666
	originLonDeg = -74.07750791666666
	scaleFactor  = 1.0
	falseEasting = 1000000.0
	falseNorth   = 1000000.0
)

var (
	e2  = grs80F * (2 - grs80F) // first eccentricity squared
	ep2 = e2 / (1 - e2)         // second eccentricity squared
	m0  = meridionalArc(originLatDeg * math.Pi / 180)
)

// ProjectToMetric reprojects a WGS84 geometry (lon/lat degrees) into
// EPSG:3116 planar coordinates in metres. WGS84 and MAGNA-SIRGAS are
// treated as coincident, which holds to well under a metre.
func ProjectToMetric(g geom.Geometry) (geom.Geometry, error) {
	return g.TransformXY(func(xy geom.XY) geom.XY {
		x, y := forward(xy.Y, xy.X)
		return geom.XY{X: x, Y: y}
	}), nil
}

// forward converts geographic coordinates in degrees to planar metres.
func forward(latDeg, lonDeg float64) (easting, northing float64) {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	lon0 := originLonDeg * math.Pi / 180

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := grs80A / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := (lon - lon0) * cosLat

	m := meridionalArc(lat)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	easting = falseEasting + scaleFactor*n*(a+
		(1-t+c)*a3/6+
		(5-18*t+t*t+72*c-58*ep2)*a5/120)
	northing = falseNorth + scaleFactor*(m-m0+n*tanLat*(a2/2+
		(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*ep2)*a6/720))
	return easting, northing
}

// meridionalArc is the ellipsoidal arc length from the equator to lat.
func meridionalArc(lat float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2
	return grs80A * ((1-e2/4-3*e4/64-5*e6/256)*lat -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*lat) +
		(15*e4/256+45*e6/1024)*math.Sin(4*lat) -
		(35*e6/3072)*math.Sin(6*lat))
}
