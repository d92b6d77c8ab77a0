// Package topology decodes TopoJSON documents into go-geom geometries.
//
// A topology stores shared boundaries once as arcs; polygons reference arcs
// by index, with a negative index (bitwise complement) meaning the arc is
// traversed in reverse. When a transform is present the arc positions are
// quantized and delta-encoded.
package topology

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrUnknownObject is returned when a named object is not in the topology.
var ErrUnknownObject = eris.New("topology: unknown object")

// Topology is a decoded TopoJSON document.
type Topology struct {
	Type      string               `json:"type"`
	Transform *Transform           `json:"transform,omitempty"`
	Objects   map[string]*Geometry `json:"objects"`
	Arcs      [][][]float64        `json:"arcs"`

	decoded [][]float64 // absolute flat XY per arc
}

// Transform dequantizes arc positions.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Geometry is a TopoJSON geometry object.
type Geometry struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
	Arcs       json.RawMessage `json:"arcs,omitempty"`
	Geometries []*Geometry     `json:"geometries,omitempty"`
}

// Feature is one polygonal geometry with its identity.
type Feature struct {
	ID         string
	Properties map[string]any
	Geometry   *geom.MultiPolygon
}

// Decode reads a topology document.
func Decode(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, eris.Wrap(err, "topology: decode")
	}
	if t.Type != "Topology" {
		return nil, eris.Errorf("topology: expected type Topology, got %q", t.Type)
	}
	return &t, nil
}

// IDString renders a geometry id. Numeric ids keep their digits as written,
// so FIPS codes stored as strings retain leading zeros.
func (g *Geometry) IDString() string {
	if len(g.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(g.ID, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(g.ID, &n); err == nil {
		return n.String()
	}
	return string(g.ID)
}

// StringProperty returns a string-valued property, formatting numbers.
func (g *Geometry) StringProperty(name string) string {
	switch v := g.Properties[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Object returns the named top-level object.
func (t *Topology) Object(name string) (*Geometry, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, eris.Wrapf(ErrUnknownObject, "topology: object %q", name)
	}
	return obj, nil
}

// Features flattens the named object into polygon features. Non-polygonal
// members are skipped; members with no arcs get an empty geometry.
func (t *Topology) Features(object string) ([]Feature, error) {
	obj, err := t.Object(object)
	if err != nil {
		return nil, err
	}

	var members []*Geometry
	if obj.Type == "GeometryCollection" {
		members = obj.Geometries
	} else {
		members = []*Geometry{obj}
	}

	features := make([]Feature, 0, len(members))
	for _, g := range members {
		mp, err := t.multiPolygon(g)
		if err != nil {
			return nil, eris.Wrapf(err, "topology: geometry %s", g.IDString())
		}
		if mp == nil {
			continue
		}
		features = append(features, Feature{
			ID:         g.IDString(),
			Properties: g.Properties,
			Geometry:   mp,
		})
	}
	return features, nil
}

func (t *Topology) multiPolygon(g *Geometry) (*geom.MultiPolygon, error) {
	var polys [][][]int
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, eris.Wrap(err, "decode polygon arcs")
		}
		polys = [][][]int{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, eris.Wrap(err, "decode multipolygon arcs")
		}
	case "":
		return geom.NewMultiPolygon(geom.XY), nil
	default:
		return nil, nil
	}

	coords := make([][][]geom.Coord, 0, len(polys))
	for _, rings := range polys {
		poly := make([][]geom.Coord, 0, len(rings))
		for _, ring := range rings {
			c, err := t.ring(ring)
			if err != nil {
				return nil, err
			}
			if len(c) >= 4 {
				poly = append(poly, c)
			}
		}
		if len(poly) > 0 {
			coords = append(coords, poly)
		}
	}

	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, eris.Wrap(err, "build multipolygon")
	}
	return mp, nil
}

// ring stitches arcs into one coordinate sequence, dropping the shared
// endpoint between consecutive arcs.
func (t *Topology) ring(arcs []int) ([]geom.Coord, error) {
	var out []geom.Coord
	for i, ref := range arcs {
		flat, err := t.arc(ref)
		if err != nil {
			return nil, err
		}
		start := 0
		if i > 0 {
			start = 2
		}
		for j := start; j+1 < len(flat); j += 2 {
			out = append(out, geom.Coord{flat[j], flat[j+1]})
		}
	}
	return out, nil
}

// arc returns the absolute positions of an arc reference, reversed for
// negative references.
func (t *Topology) arc(ref int) ([]float64, error) {
	t.decodeArcs()
	idx := ref
	reversed := ref < 0
	if reversed {
		idx = ^ref
	}
	if idx < 0 || idx >= len(t.decoded) {
		return nil, eris.Errorf("topology: arc %d out of range (%d arcs)", ref, len(t.decoded))
	}
	flat := t.decoded[idx]
	if !reversed {
		return flat, nil
	}
	rev := make([]float64, len(flat))
	for i := 0; i+1 < len(flat); i += 2 {
		j := len(flat) - i - 2
		rev[i], rev[i+1] = flat[j], flat[j+1]
	}
	return rev, nil
}

func (t *Topology) decodeArcs() {
	if t.decoded != nil {
		return
	}
	t.decoded = make([][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		flat := make([]float64, 0, len(arc)*2)
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform != nil {
				x += pos[0]
				y += pos[1]
				flat = append(flat,
					x*t.Transform.Scale[0]+t.Transform.Translate[0],
					y*t.Transform.Scale[1]+t.Transform.Translate[1],
				)
			} else {
				flat = append(flat, pos[0], pos[1])
			}
		}
		t.decoded[i] = flat
	}
}
