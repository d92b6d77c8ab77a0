package tiger

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Record is one shapefile feature: its requested attributes (lower-cased
// column name to trimmed value) and its polygon geometry.
type Record struct {
	Attrs    map[string]string
	Geometry *geom.MultiPolygon
}

// ID returns the product's identifier attribute.
func (r Record) ID(product Product) string {
	return r.Attrs[product.IDField]
}

// ReadPolygons reads a polygon shapefile and returns one record per shape.
// Records without a drawable polygon are skipped.
func ReadPolygons(shpPath string, product Product) ([]Record, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	if _, ok := fieldIdx[product.IDField]; !ok {
		return nil, eris.Errorf("tiger: shapefile %s has no %s field", shpPath, strings.ToUpper(product.IDField))
	}

	var records []Record
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		attrs := make(map[string]string, len(product.Columns))
		for _, col := range product.Columns {
			idx, ok := fieldIdx[col]
			if !ok {
				continue
			}
			val := strings.TrimRight(reader.Attribute(idx), "\x00")
			attrs[col] = strings.TrimSpace(val)
		}

		mp := MultiPolygonFromShape(shape)
		if mp == nil {
			skipped++
			continue
		}
		records = append(records, Record{Attrs: attrs, Geometry: mp})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "tiger: read shapefile %s", shpPath)
	}

	if skipped > 0 {
		zap.L().Debug("tiger: skipped shapefile records",
			zap.String("product", product.Name),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}
