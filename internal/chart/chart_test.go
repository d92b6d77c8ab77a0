package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/healthmap/internal/boundary"
	"github.com/sells-group/healthmap/internal/healthdata"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/svg"
)

func square(t *testing.T, lon, lat float64) *geom.MultiPolygon {
	t.Helper()
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords([][][]geom.Coord{{{
		{lon, lat}, {lon, lat + 1}, {lon + 1, lat + 1}, {lon + 1, lat}, {lon, lat},
	}}})
	require.NoError(t, err)
	return mp
}

func readings(hbp, chd, stroke, chol float64) metric.Set {
	var s metric.Set
	for i, v := range []float64{hbp, chd, stroke, chol} {
		if v >= 0 {
			s.Put(metric.Keys[i], metric.Of(v))
		}
	}
	return s
}

// testGeography joins three counties: Travis and Harris with data, Acadia
// with stroke missing and zero coronary disease, and Autauga unmatched.
func testGeography(t *testing.T) *healthdata.Geography {
	t.Helper()
	bounds := []boundary.Feature{
		{FIPS: "48453", Name: "Travis", StateFIPS: "48", Geometry: square(t, -98, 30)},
		{FIPS: "48201", Name: "Harris", StateFIPS: "48", Geometry: square(t, -96, 29)},
		{FIPS: "22001", Name: "Acadia", StateFIPS: "22", Geometry: square(t, -93, 30)},
		{FIPS: "01001", Name: "Autauga", StateFIPS: "01", Geometry: square(t, -87, 32)},
	}
	rows := []healthdata.Row{
		{FIPS: "48453", Metrics: readings(30, 5, 2.5, 31)},
		{FIPS: "48201", Metrics: readings(34, 6, 3, 36)},
		{FIPS: "22001", Metrics: readings(40, 0, -1, 35)},
	}
	geo, err := healthdata.Join(bounds, rows)
	require.NoError(t, err)

	geo.StateBorders, err = geom.NewMultiLineString(geom.XY).SetCoords([][]geom.Coord{{{-94, 29}, {-94, 33}}})
	require.NoError(t, err)
	return geo
}

var national = readings(32.3, 6.2, 3.0, 33.1)

func texts(root *svg.Element, class string) []string {
	var out []string
	for _, e := range root.FindClass(class) {
		out = append(out, e.Text)
	}
	return out
}
