package tiger

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiPolygonFromShape_HoleJoinsPreviousPolygon(t *testing.T) {
	outer := square(0, 0, 10)
	// Counter-clockwise ring inside the outer one.
	hole := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}}
	island := square(20, 20, 1)

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{outer, hole, island}))
	mp := MultiPolygonFromShape(&poly)
	require.NotNil(t, mp)

	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
}

func TestMultiPolygonFromShape_Degenerate(t *testing.T) {
	assert.Nil(t, MultiPolygonFromShape(nil))
	assert.Nil(t, MultiPolygonFromShape(&shp.Polygon{}))
	assert.Nil(t, MultiPolygonFromShape(&shp.Point{X: 1, Y: 2}))

	tiny := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}))
	assert.Nil(t, MultiPolygonFromShape(&tiny), "rings need four positions")
}

func TestSignedArea(t *testing.T) {
	ccw := []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}
	assert.InDelta(t, 1.0, signedArea(ccw), 1e-9)

	cw := []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}
	assert.InDelta(t, -1.0, signedArea(cw), 1e-9)
}
