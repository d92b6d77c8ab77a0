package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/svg"
	"github.com/sells-group/healthmap/internal/theme"
)

const stripe = "url(#lightstripe)"

func newMap(t *testing.T) *ChoroplethMap {
	t.Helper()
	m, err := NewChoroplethMap(DefaultMapConfig(), testGeography(t), metric.HighCholesterol, theme.Default())
	require.NoError(t, err)
	return m
}

func county(t *testing.T, root *svg.Element, fips string) *svg.Element {
	t.Helper()
	e := root.ByID("county-" + fips)
	require.NotNil(t, e, fips)
	return e
}

func TestChoroplethMap_EveryCountyFilled(t *testing.T) {
	m := newMap(t)
	root := m.Render()

	paths := root.FindClass("county")
	require.Len(t, paths, 4)
	for _, p := range paths {
		fill := p.Attr("fill")
		assert.True(t, fill == stripe || strings.HasPrefix(fill, "#"), "fill %q", fill)
		assert.NotEmpty(t, p.Attr("d"))
	}

	assert.Equal(t, stripe, county(t, root, "01001").Attr("fill"), "unmatched county uses the pattern")
	assert.NotEqual(t, county(t, root, "48453").Attr("fill"), county(t, root, "48201").Attr("fill"))
	require.NotNil(t, root.ByID(StripePatternID))
	require.NotNil(t, root.ByID("state-borders"))
}

func TestChoroplethMap_ColorDomain(t *testing.T) {
	m := newMap(t)
	lo, hi, ok := m.ColorDomain()
	require.True(t, ok)
	assert.Equal(t, 31.0, lo)
	assert.Equal(t, 36.0, hi)

	require.NoError(t, m.SetActiveMetric(metric.CoronaryHeartDisease))
	lo, hi, ok = m.ColorDomain()
	require.True(t, ok)
	assert.Equal(t, 0.0, lo, "a recorded zero is part of the domain")
	assert.Equal(t, 6.0, hi)
	assert.NotEqual(t, stripe, m.Fill("22001"), "zero is colored, not missing")
	assert.Equal(t, metric.CoronaryHeartDisease, m.ActiveMetric())
}

func TestChoroplethMap_SetActiveMetricRebuildsLegend(t *testing.T) {
	m := newMap(t)
	require.NoError(t, m.SetActiveMetric(metric.Stroke))
	root := m.Render()

	assert.Equal(t, []string{"% stroke"}, texts(root, "legend-title"))
	assert.Equal(t, []string{"2.5", "2.6", "2.8", "2.9", "3.0"}, texts(root, "legend-label"))
	assert.Len(t, root.FindClass("legend-bar"), 1)
	assert.Len(t, root.FindClass("legend-nodata"), 1)
	assert.Equal(t, stripe, county(t, root, "22001").Attr("fill"), "missing stroke reading")

	assert.Error(t, m.SetActiveMetric(metric.Key(9)))
	assert.Equal(t, metric.Stroke, m.ActiveMetric())
}

func TestChoroplethMap_NoValidReadings(t *testing.T) {
	geo := testGeography(t)
	for i := range geo.Counties {
		geo.Counties[i].Metrics.Put(metric.Stroke, metric.Reading{})
	}
	m, err := NewChoroplethMap(DefaultMapConfig(), geo, metric.Stroke, theme.Default())
	require.NoError(t, err)

	_, _, ok := m.ColorDomain()
	assert.False(t, ok)
	root := m.Render()
	for _, p := range root.FindClass("county") {
		assert.Equal(t, stripe, p.Attr("fill"))
	}
	assert.Empty(t, root.FindClass("legend-bar"))
	assert.Len(t, root.FindClass("legend-nodata"), 1)
}

func TestChoroplethMap_RenderIsIdempotent(t *testing.T) {
	m := newMap(t)
	first := m.Render()
	second := m.Render()
	assert.Equal(t, first, second)
	assert.Equal(t, first.String(), second.String())
	assert.Len(t, second.FindClass("legend"), 1)
}

func TestChoroplethMap_Click(t *testing.T) {
	m := newMap(t)

	var got []SelectEvent
	m.OnSelect(func(e SelectEvent) { got = append(got, e) })

	for _, p := range m.Render().FindClass("county") {
		assert.Equal(t, "0.8", p.Attr("opacity"))
	}

	require.True(t, m.Click("48453"))
	root := m.Render()
	assert.Equal(t, "1", county(t, root, "48453").Attr("opacity"))
	assert.Equal(t, "county active", county(t, root, "48453").Attr("class"))
	assert.Equal(t, "0.2", county(t, root, "48201").Attr("opacity"))
	assert.Equal(t, "0.2", county(t, root, "01001").Attr("opacity"))

	require.True(t, m.Click("22001"))
	root = m.Render()
	assert.Len(t, root.FindClass("active"), 1, "highlight moves")
	assert.Equal(t, "1", county(t, root, "22001").Attr("opacity"))
	assert.Equal(t, "0.2", county(t, root, "48453").Attr("opacity"))

	require.Len(t, got, 2)
	assert.Equal(t, "48453", got[0].FIPS)
	assert.Equal(t, "Travis", got[0].Name)
	assert.Equal(t, metric.Of(31), got[0].Metrics.Get(metric.HighCholesterol))
	assert.Equal(t, "22001", m.Selected())

	assert.False(t, m.Click("99999"))
	assert.Len(t, got, 2)

	m.ClearSelection()
	for _, p := range m.Render().FindClass("county") {
		assert.Equal(t, "0.8", p.Attr("opacity"))
		assert.Equal(t, "county", p.Attr("class"))
	}
}

func TestChoroplethMap_Hover(t *testing.T) {
	m := newMap(t)

	var hovered []HoverEvent
	m.OnHover(func(e HoverEvent) { hovered = append(hovered, e) })

	tip, ok := m.Hover("48453", 100, 200)
	require.True(t, ok)
	assert.Equal(t, Tooltip{Title: "Travis", Body: "% high cholesterol: 31%", X: 110, Y: 210}, tip)

	root := m.Render()
	assert.Equal(t, "white", county(t, root, "48453").Attr("stroke"))
	assert.Equal(t, "1.8", county(t, root, "48453").Attr("stroke-width"))
	assert.Equal(t, "transparent", county(t, root, "48201").Attr("stroke"))

	m.Leave("48453")
	assert.Equal(t, "transparent", county(t, m.Render(), "48453").Attr("stroke"))

	tip, ok = m.Hover("01001", 0, 0)
	require.True(t, ok)
	assert.Equal(t, "No data available", tip.Body)

	require.NoError(t, m.SetActiveMetric(metric.CoronaryHeartDisease))
	tip, _ = m.Hover("22001", 0, 0)
	assert.Equal(t, "No data available", tip.Body, "non-positive values read as no data")

	_, ok = m.Hover("99999", 0, 0)
	assert.False(t, ok)
	assert.Len(t, hovered, 3)
}
