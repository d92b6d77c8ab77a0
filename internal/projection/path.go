package projection

import (
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// PolygonPath renders every ring of mp as closed SVG path data. Unprojectable
// points are skipped; a ring with fewer than three drawable points is
// dropped.
func PolygonPath(mp *geom.MultiPolygon, p Projector) string {
	if mp == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			writeLine(&b, poly.LinearRing(j).FlatCoords(), poly.Stride(), p, true)
		}
	}
	return b.String()
}

// LinePath renders every line of mls as open SVG path data.
func LinePath(mls *geom.MultiLineString, p Projector) string {
	if mls == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < mls.NumLineStrings(); i++ {
		ls := mls.LineString(i)
		writeLine(&b, ls.FlatCoords(), ls.Stride(), p, false)
	}
	return b.String()
}

func writeLine(b *strings.Builder, flat []float64, stride int, p Projector, closed bool) {
	if stride < 2 {
		return
	}
	pts := make([]float64, 0, len(flat)/stride*2)
	for i := 0; i+1 < len(flat); i += stride {
		x, y, ok := p.Project(flat[i], flat[i+1])
		if !ok {
			continue
		}
		pts = append(pts, x, y)
	}
	need := 4
	if closed {
		need = 6
	}
	if len(pts) < need {
		return
	}

	var buf []byte
	for i := 0; i < len(pts); i += 2 {
		if i == 0 {
			buf = append(buf, 'M')
		} else {
			buf = append(buf, 'L')
		}
		buf = strconv.AppendFloat(buf, pts[i], 'f', 1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, pts[i+1], 'f', 1, 64)
	}
	if closed {
		buf = append(buf, 'Z')
	}
	b.Write(buf)
}
