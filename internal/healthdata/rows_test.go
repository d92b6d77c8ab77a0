package healthdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/healthmap/internal/metric"
)

var statsHeader = []string{
	"cnty_fips", "display_name",
	"percent_high_blood_pressure", "percent_coronary_heart_disease",
	"percent_stroke", "percent_high_cholesterol",
}

func TestParseRows(t *testing.T) {
	rows, err := ParseRows(statsHeader, [][]string{
		{"01001", "Autauga, AL", "41.2", "7.1", "3.9", "36.4"},
		{"01003", "Baldwin, AL", "", "-1", "abc", "34.0"},
		{"", "blank fips", "1", "1", "1", "1"},
		{"01005"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "01001", rows[0].FIPS)
	assert.Equal(t, "Autauga, AL", rows[0].Name)
	assert.Equal(t, metric.Of(41.2), rows[0].Metrics.Get(metric.HighBloodPressure))
	assert.Equal(t, metric.Of(36.4), rows[0].Metrics.Get(metric.HighCholesterol))

	assert.False(t, rows[1].Metrics.Get(metric.HighBloodPressure).Valid)
	assert.False(t, rows[1].Metrics.Get(metric.CoronaryHeartDisease).Valid)
	assert.False(t, rows[1].Metrics.Get(metric.Stroke).Valid)
	assert.Equal(t, metric.Of(34), rows[1].Metrics.Get(metric.HighCholesterol))

	assert.Equal(t, metric.Set{}, rows[2].Metrics, "short record reads as all missing")
}

func TestParseRows_HeaderCaseAndOrder(t *testing.T) {
	rows, err := ParseRows(
		[]string{" PERCENT_STROKE ", "CNTY_FIPS"},
		[][]string{{"4.5", "48453"}},
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "48453", rows[0].FIPS)
	assert.Equal(t, "", rows[0].Name)
	assert.Equal(t, metric.Of(4.5), rows[0].Metrics.Get(metric.Stroke))
	assert.False(t, rows[0].Metrics.Get(metric.HighCholesterol).Valid)
}

func TestParseRows_MissingFIPSColumn(t *testing.T) {
	_, err := ParseRows([]string{"display_name", "percent_stroke"}, nil)
	assert.Error(t, err)
}
