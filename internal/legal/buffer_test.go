package legal

import (
	"math"
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/require"
)

func lineGeometry(coords ...float64) geom.Geometry {
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq).AsGeometry()
}

// probeSquare is a tiny square centred on (x, y) used to test coverage.
func probeSquare(x, y float64) geom.Geometry {
	const half = 0.01
	ring := geom.NewLineString(geom.NewSequence([]float64{
		x - half, y - half,
		x + half, y - half,
		x + half, y + half,
		x - half, y + half,
		x - half, y - half,
	}, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{ring}).AsGeometry()
}

func TestCirclePolygonArea(t *testing.T) {
	circle := circlePolygon(geom.XY{X: 0, Y: 0}, 10)
	// A regular 16-gon holds about 97.5% of the circle area.
	require.InEpsilon(t, math.Pi*100, circle.Area(), 0.03)
}

func TestBufferLineAreaOfStraightSegment(t *testing.T) {
	buffer, err := bufferLine(lineGeometry(0, 0, 100, 0), 10)
	require.NoError(t, err)

	// Rectangle 100 x 20 plus two approximated half circles.
	want := 100*20 + math.Pi*100
	require.InEpsilon(t, want, buffer.Area(), 0.05)
}

func TestBufferLineCoversOffsetPoint(t *testing.T) {
	buffer, err := bufferLine(lineGeometry(0, 0, 100, 0), 30)
	require.NoError(t, err)

	require.True(t, geom.Intersects(buffer, probeSquare(50, 25)))
	require.False(t, geom.Intersects(buffer, probeSquare(50, 35)))
}

func TestBufferLineZeroRadiusIsIdentity(t *testing.T) {
	line := lineGeometry(0, 0, 10, 10)
	buffer, err := bufferLine(line, 0)
	require.NoError(t, err)
	require.Equal(t, line, buffer)
}

func TestBufferLineHandlesMultiSegmentPath(t *testing.T) {
	buffer, err := bufferLine(lineGeometry(0, 0, 50, 0, 50, 50), 10)
	require.NoError(t, err)

	// Both legs are 50 long; the union must exceed a single leg's buffer.
	single, err := bufferLine(lineGeometry(0, 0, 50, 0), 10)
	require.NoError(t, err)
	require.Greater(t, buffer.Area(), single.Area())

	require.True(t, geom.Intersects(buffer, probeSquare(50, 0)))
}
