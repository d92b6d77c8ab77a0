package topology

import (
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// InteriorMesh returns the arcs of the named object that are shared by two
// or more distinct member geometries, i.e. the internal borders between
// neighbours without the outer coastline.
func (t *Topology) InteriorMesh(object string) (*geom.MultiLineString, error) {
	obj, err := t.Object(object)
	if err != nil {
		return nil, err
	}

	members := obj.Geometries
	if obj.Type != "GeometryCollection" {
		members = []*Geometry{obj}
	}

	owners := make(map[int]map[int]struct{})
	for gi, g := range members {
		refs, err := arcRefs(g)
		if err != nil {
			return nil, eris.Wrapf(err, "topology: mesh geometry %s", g.IDString())
		}
		for _, ref := range refs {
			idx := ref
			if idx < 0 {
				idx = ^idx
			}
			if owners[idx] == nil {
				owners[idx] = make(map[int]struct{})
			}
			owners[idx][gi] = struct{}{}
		}
	}

	shared := make([]int, 0, len(owners))
	for idx, gs := range owners {
		if len(gs) > 1 {
			shared = append(shared, idx)
		}
	}
	sort.Ints(shared)

	mls := geom.NewMultiLineString(geom.XY)
	for _, idx := range shared {
		flat, err := t.arc(idx)
		if err != nil {
			return nil, err
		}
		if len(flat) < 4 {
			continue
		}
		if err := mls.Push(geom.NewLineStringFlat(geom.XY, flat)); err != nil {
			return nil, eris.Wrap(err, "topology: push mesh line")
		}
	}
	return mls, nil
}

func arcRefs(g *Geometry) ([]int, error) {
	switch g.Type {
	case "Polygon", "MultiLineString":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, err
		}
		var out []int
		for _, r := range rings {
			out = append(out, r...)
		}
		return out, nil
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, err
		}
		var out []int
		for _, p := range polys {
			for _, r := range p {
				out = append(out, r...)
			}
		}
		return out, nil
	case "LineString":
		var line []int
		if err := json.Unmarshal(g.Arcs, &line); err != nil {
			return nil, err
		}
		return line, nil
	default:
		return nil, nil
	}
}
