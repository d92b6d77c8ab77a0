package topology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// Two unit squares side by side sharing the edge x=1.
const twoSquares = `{
  "type": "Topology",
  "objects": {
    "counties": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "id": "01001", "properties": {"name": "West"}, "arcs": [[0, 1]]},
        {"type": "Polygon", "id": 1003, "properties": {"name": "East"}, "arcs": [[-1, 2]]},
        {"type": "Point", "id": "99999", "coordinates": [0, 0]},
        {"type": null, "id": "88888"}
      ]
    }
  },
  "arcs": [
    [[1, 0], [1, 1]],
    [[1, 1], [0, 1], [0, 0], [1, 0]],
    [[1, 0], [2, 0], [2, 1], [1, 1]]
  ]
}`

func decode(t *testing.T, doc string) *Topology {
	t.Helper()
	topo, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return topo
}

func TestDecode_RejectsNonTopology(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"FeatureCollection"}`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestFeatures(t *testing.T) {
	topo := decode(t, twoSquares)

	features, err := topo.Features("counties")
	require.NoError(t, err)
	require.Len(t, features, 3, "point member is skipped")

	assert.Equal(t, "01001", features[0].ID, "string ids keep leading zeros")
	assert.Equal(t, "1003", features[1].ID)
	assert.Equal(t, "88888", features[2].ID)
	assert.Equal(t, 0, features[2].Geometry.NumPolygons())
	assert.Equal(t, "West", features[0].Properties["name"])

	west := features[0].Geometry.Polygon(0).LinearRing(0).Coords()
	assert.Equal(t, []geom.Coord{{1, 0}, {1, 1}, {0, 1}, {0, 0}, {1, 0}}, west)

	east := features[1].Geometry.Polygon(0).LinearRing(0).Coords()
	assert.Equal(t, []geom.Coord{{1, 1}, {1, 0}, {2, 0}, {2, 1}, {1, 1}}, east, "reversed shared arc")
}

func TestFeatures_UnknownObject(t *testing.T) {
	topo := decode(t, twoSquares)
	_, err := topo.Features("states")
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestFeatures_ArcOutOfRange(t *testing.T) {
	topo := decode(t, `{"type":"Topology","objects":{"x":{"type":"Polygon","arcs":[[7]]}},"arcs":[]}`)
	_, err := topo.Features("x")
	assert.Error(t, err)
}

func TestQuantizedArcs(t *testing.T) {
	topo := decode(t, `{
	  "type": "Topology",
	  "transform": {"scale": [0.5, 0.5], "translate": [10, 20]},
	  "objects": {"x": {"type": "LineString", "arcs": [0]}},
	  "arcs": [[[0, 0], [2, 0], [0, 2]]]
	}`)

	flat, err := topo.arc(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 11, 20, 11, 21}, flat)

	rev, err := topo.arc(^0)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 21, 11, 20, 10, 20}, rev)
}

func TestInteriorMesh(t *testing.T) {
	topo := decode(t, twoSquares)

	mesh, err := topo.InteriorMesh("counties")
	require.NoError(t, err)
	require.Equal(t, 1, mesh.NumLineStrings(), "only the shared edge")
	assert.Equal(t, []geom.Coord{{1, 0}, {1, 1}}, mesh.LineString(0).Coords())

	_, err = topo.InteriorMesh("nation")
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestStringProperty(t *testing.T) {
	g := &Geometry{Properties: map[string]any{"name": "Travis", "code": float64(48)}}
	assert.Equal(t, "Travis", g.StringProperty("name"))
	assert.Equal(t, "48", g.StringProperty("code"))
	assert.Equal(t, "", g.StringProperty("missing"))
}
