package healthdata

import "github.com/sells-group/healthmap/internal/metric"

// NationalAverages returns, per metric, the arithmetic mean over the rows
// with a valid reading. Missing readings are excluded, not counted as zero;
// a metric with no valid reading stays missing.
func NationalAverages(rows []Row) metric.Set {
	var (
		sums   [metric.Count]float64
		counts [metric.Count]int
	)
	for _, r := range rows {
		for _, k := range metric.Keys {
			if rd := r.Metrics.Get(k); rd.Valid {
				sums[k] += rd.Value
				counts[k]++
			}
		}
	}

	var out metric.Set
	for _, k := range metric.Keys {
		if counts[k] > 0 {
			out.Put(k, metric.Of(sums[k]/float64(counts[k])))
		}
	}
	return out
}
