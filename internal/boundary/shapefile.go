package boundary

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/healthmap/internal/fetcher"
	"github.com/sells-group/healthmap/internal/tiger"
)

// FromShapefile reads a TIGER/Line county shapefile (.shp or the Census .zip
// archive). TIGER county files carry no state topology, so StateBorders is
// nil.
func FromShapefile(ctx context.Context, client *fetcher.Client, location, destDir string) (*Set, error) {
	shpPath, err := tiger.Download(ctx, client, location, destDir)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: shapefile")
	}

	product, _ := tiger.ProductByName("COUNTY")
	records, err := tiger.ReadPolygons(shpPath, product)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: shapefile")
	}

	set := &Set{Counties: make([]Feature, 0, len(records))}
	for _, rec := range records {
		fips := rec.ID(product)
		state := rec.Attrs["statefp"]
		if state == "" {
			state = stateOf(fips)
		}
		set.Counties = append(set.Counties, Feature{
			FIPS:      fips,
			Name:      rec.Attrs["name"],
			StateFIPS: state,
			Geometry:  rec.Geometry,
		})
	}
	return set, nil
}
