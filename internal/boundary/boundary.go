// Package boundary loads county boundary geometries from TopoJSON, GeoJSON
// or TIGER/Line shapefile sources.
package boundary

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/fetcher"
)

// ErrUnsupportedFormat is returned for a location whose extension names no
// known boundary format.
var ErrUnsupportedFormat = eris.New("boundary: unsupported format")

// Feature is one county boundary.
type Feature struct {
	FIPS      string // 5-digit county FIPS as given by the source
	Name      string
	StateFIPS string
	Geometry  *geom.MultiPolygon // lon/lat degrees
}

// Set is everything the map draws: counties plus the interior state border
// mesh, which may be nil when the source carries no state topology.
type Set struct {
	Counties     []Feature
	StateBorders *geom.MultiLineString
}

// Format identifies a boundary encoding.
type Format string

// Supported formats.
const (
	FormatTopoJSON  Format = "topojson"
	FormatGeoJSON   Format = "geojson"
	FormatShapefile Format = "shapefile"
)

// DetectFormat picks the format from the location's extension.
func DetectFormat(location string) (Format, error) {
	switch ext := fetcher.Ext(location); ext {
	case ".json", ".topojson":
		return FormatTopoJSON, nil
	case ".geojson":
		return FormatGeoJSON, nil
	case ".shp", ".zip":
		return FormatShapefile, nil
	default:
		return "", eris.Wrapf(ErrUnsupportedFormat, "boundary: extension %q of %s", ext, location)
	}
}

// Load reads the boundary set at location. Shapefile archives are extracted
// under tempDir.
func Load(ctx context.Context, client *fetcher.Client, location, tempDir string) (*Set, error) {
	format, err := DetectFormat(location)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("component", "boundary"),
		zap.String("location", location),
		zap.String("format", string(format)),
	)

	var set *Set
	switch format {
	case FormatShapefile:
		set, err = FromShapefile(ctx, client, location, filepath.Join(tempDir, "tiger"))
	default:
		rc, openErr := client.Open(ctx, location)
		if openErr != nil {
			return nil, eris.Wrap(openErr, "boundary: open")
		}
		defer rc.Close() //nolint:errcheck

		if format == FormatTopoJSON {
			set, err = FromTopoJSON(rc)
		} else {
			set, err = FromGeoJSON(rc)
		}
	}
	if err != nil {
		return nil, err
	}

	borders := 0
	if set.StateBorders != nil {
		borders = set.StateBorders.NumLineStrings()
	}
	log.Info("boundaries loaded",
		zap.Int("counties", len(set.Counties)),
		zap.Int("state_border_lines", borders),
	)
	return set, nil
}

// stateOf derives the state FIPS from a county FIPS.
func stateOf(fips string) string {
	if len(fips) < 3 {
		return ""
	}
	return fips[:len(fips)-3]
}
