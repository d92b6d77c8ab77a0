// Package healthdata loads the county boundary and health statistics inputs,
// joins them by county FIPS and computes national averages.
package healthdata

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/metric"
)

// Statistics column names.
const (
	FIPSColumn = "cnty_fips"
	NameColumn = "display_name"
)

// Row is one county row of the statistics file.
type Row struct {
	FIPS    string
	Name    string // optional display name
	Metrics metric.Set
}

// ParseRows maps a header and its data records to rows. The FIPS column is
// required; metric columns that are absent leave that metric missing for
// every row. Records with an empty FIPS are skipped. Cell values that do not
// parse become missing readings, never errors.
func ParseRows(header []string, records [][]string) ([]Row, error) {
	fipsIdx, nameIdx := -1, -1
	var metricIdx [metric.Count]int
	for i := range metricIdx {
		metricIdx[i] = -1
	}

	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch name {
		case FIPSColumn:
			fipsIdx = i
		case NameColumn:
			nameIdx = i
		default:
			if k, err := metric.Parse(name); err == nil {
				metricIdx[k] = i
			}
		}
	}
	if fipsIdx < 0 {
		return nil, eris.Errorf("healthdata: statistics header has no %s column", FIPSColumn)
	}
	for _, k := range metric.Keys {
		if metricIdx[k] < 0 {
			zap.L().Warn("healthdata: statistics file has no column for metric",
				zap.String("metric", k.Field()),
			)
		}
	}

	cell := func(rec []string, idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		fips := cell(rec, fipsIdx)
		if fips == "" {
			continue
		}
		row := Row{FIPS: fips, Name: cell(rec, nameIdx)}
		for _, k := range metric.Keys {
			row.Metrics.Put(k, metric.ParseReading(cell(rec, metricIdx[k])))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
