package healthdata

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/boundary"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/tiger"
)

// County is one joined county: boundary geometry plus its four readings.
type County struct {
	FIPS     string
	Name     string
	State    string // USPS abbreviation, empty when the FIPS prefix is unknown
	Geometry *geom.MultiPolygon
	Metrics  metric.Set
}

// JoinReport summarizes how well the two inputs correlated.
type JoinReport struct {
	Boundaries          int `json:"boundaries"`
	Rows                int `json:"rows"`
	Matched             int `json:"matched"`
	UnmatchedBoundaries int `json:"unmatched_boundaries"`
	UnmatchedRows       int `json:"unmatched_rows"`
}

// Geography is the immutable joined dataset the views draw from.
type Geography struct {
	Counties     []County
	StateBorders *geom.MultiLineString
	Report       JoinReport

	index map[string]int
}

// Lookup returns the county with the given FIPS.
func (g *Geography) Lookup(fips string) (County, bool) {
	i, ok := g.index[fips]
	if !ok {
		return County{}, false
	}
	return g.Counties[i], true
}

// Len returns the number of counties.
func (g *Geography) Len() int {
	return len(g.Counties)
}

// Join correlates boundaries with statistics rows by exact FIPS equality.
// Matched counties copy the row's readings; unmatched counties keep every
// reading missing. When several rows share a FIPS the last one wins. Neither
// input is modified. A join with zero matches is an *IntegrityError.
func Join(boundaries []boundary.Feature, rows []Row) (*Geography, error) {
	byFIPS := make(map[string]int, len(rows))
	for i, r := range rows {
		byFIPS[r.FIPS] = i
	}

	geo := &Geography{
		Counties: make([]County, 0, len(boundaries)),
		index:    make(map[string]int, len(boundaries)),
	}
	used := make(map[string]struct{}, len(rows))

	for _, b := range boundaries {
		c := County{
			FIPS:     b.FIPS,
			Name:     b.Name,
			Geometry: b.Geometry,
		}
		c.State, _ = tiger.AbbrFromFIPS(b.StateFIPS)
		if i, ok := byFIPS[b.FIPS]; ok {
			c.Metrics = rows[i].Metrics
			if c.Name == "" {
				c.Name = rows[i].Name
			}
			used[b.FIPS] = struct{}{}
			geo.Report.Matched++
		} else {
			geo.Report.UnmatchedBoundaries++
		}
		if _, dup := geo.index[c.FIPS]; !dup {
			geo.index[c.FIPS] = len(geo.Counties)
		}
		geo.Counties = append(geo.Counties, c)
	}

	geo.Report.Boundaries = len(boundaries)
	geo.Report.Rows = len(rows)
	geo.Report.UnmatchedRows = len(byFIPS) - len(used)

	if geo.Report.Matched == 0 {
		return nil, &IntegrityError{Boundaries: len(boundaries), Rows: len(rows)}
	}

	zap.L().Info("healthdata: join complete",
		zap.Int("boundaries", geo.Report.Boundaries),
		zap.Int("rows", geo.Report.Rows),
		zap.Int("matched", geo.Report.Matched),
		zap.Int("unmatched_boundaries", geo.Report.UnmatchedBoundaries),
		zap.Int("unmatched_rows", geo.Report.UnmatchedRows),
	)
	return geo, nil
}
