package boundary

import (
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/topology"
)

// Object names used by the us-atlas county topology.
const (
	countiesObject = "counties"
	statesObject   = "states"
)

// FromTopoJSON decodes a us-atlas style topology: polygons from the
// "counties" object (id = FIPS, properties.name) and the interior state
// borders from the "states" object.
func FromTopoJSON(r io.Reader) (*Set, error) {
	topo, err := topology.Decode(r)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: decode topojson")
	}

	features, err := topo.Features(countiesObject)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: counties")
	}

	set := &Set{Counties: make([]Feature, 0, len(features))}
	for _, f := range features {
		name, _ := f.Properties["name"].(string)
		set.Counties = append(set.Counties, Feature{
			FIPS:      f.ID,
			Name:      name,
			StateFIPS: stateOf(f.ID),
			Geometry:  f.Geometry,
		})
	}

	mesh, err := topo.InteriorMesh(statesObject)
	switch {
	case errors.Is(err, topology.ErrUnknownObject):
		zap.L().Debug("boundary: topology has no states object, drawing no state borders")
	case err != nil:
		return nil, eris.Wrap(err, "boundary: state mesh")
	default:
		set.StateBorders = mesh
	}

	return set, nil
}
