package boundary

import (
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// FromGeoJSON decodes a county FeatureCollection. The county id is taken
// from the feature id, falling back to a GEOID or id property; the name from
// a name or NAME property.
func FromGeoJSON(r io.Reader) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: read geojson")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: decode geojson")
	}

	set := &Set{Counties: make([]Feature, 0, len(fc.Features))}
	var skipped int
	for _, f := range fc.Features {
		mp := toMultiPolygon(f.Geometry)
		if mp == nil {
			skipped++
			continue
		}
		fips := featureID(f)
		set.Counties = append(set.Counties, Feature{
			FIPS:      fips,
			Name:      firstString(f.Properties, "name", "NAME"),
			StateFIPS: stateOf(fips),
			Geometry:  mp,
		})
	}
	if skipped > 0 {
		zap.L().Debug("boundary: skipped non-polygonal geojson features", zap.Int("skipped", skipped))
	}
	return set, nil
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
	default:
		return fmt.Sprint(id)
	}
	return firstString(f.Properties, "GEOID", "geoid", "id")
}

func firstString(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		switch v := props[k].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// toMultiPolygon converts an orb polygonal geometry to go-geom.
func toMultiPolygon(g orb.Geometry) *geom.MultiPolygon {
	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{v}
	case orb.MultiPolygon:
		polys = v
	default:
		return nil
	}

	coords := make([][][]geom.Coord, 0, len(polys))
	for _, p := range polys {
		rings := make([][]geom.Coord, 0, len(p))
		for _, ring := range p {
			if len(ring) < 4 {
				continue
			}
			c := make([]geom.Coord, len(ring))
			for i, pt := range ring {
				c[i] = geom.Coord{pt[0], pt[1]}
			}
			rings = append(rings, c)
		}
		if len(rings) > 0 {
			coords = append(coords, rings)
		}
	}

	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(coords)
	if err != nil {
		return nil
	}
	return mp
}
