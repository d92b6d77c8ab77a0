package chart

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/scale"
	"github.com/sells-group/healthmap/internal/svg"
	"github.com/sells-group/healthmap/internal/theme"
)

// Mode is the grouped chart state.
type Mode int

// Grouped chart states.
const (
	// Aggregate shows the national averages alone.
	Aggregate Mode = iota
	// Comparison shows national averages next to one county.
	Comparison
)

func (m Mode) String() string {
	if m == Comparison {
		return "comparison"
	}
	return "aggregate"
}

// MarshalText encodes the mode name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Series identifies one bar within a category group.
type Series int

// Bar series.
const (
	National Series = iota
	County
)

// ErrUnknownSeries is returned by ParseSeries.
var ErrUnknownSeries = eris.New("chart: unknown series")

var seriesNames = [2]string{"national", "county"}

func (s Series) String() string {
	if s == County {
		return seriesNames[County]
	}
	return seriesNames[National]
}

// ParseSeries maps "national" or "county" to a Series. An empty string is
// the national series.
func ParseSeries(s string) (Series, error) {
	switch s {
	case "", seriesNames[National]:
		return National, nil
	case seriesNames[County]:
		return County, nil
	default:
		return 0, eris.Wrapf(ErrUnknownSeries, "chart: series %q", s)
	}
}

// Default grouped chart labels.
const (
	DefaultGroupedTitle = "Health Conditions Comparison"
	NationalGroupName   = "National Average"
	CountyGroupName     = "Selected County"
)

// GroupedConfig sizes the grouped bar chart.
type GroupedConfig struct {
	Width          float64 `mapstructure:"width"`
	Height         float64 `mapstructure:"height"`
	Margin         Margin  `mapstructure:"margin"`
	GroupPadding   float64 `mapstructure:"group_padding"`
	BarPadding     float64 `mapstructure:"bar_padding"`
	YTicks         int     `mapstructure:"y_ticks"`
	LegendSpacing  float64 `mapstructure:"legend_spacing"`
	TooltipPadding float64 `mapstructure:"tooltip_padding"`
}

// DefaultGroupedConfig returns the standard 800×400 layout.
func DefaultGroupedConfig() GroupedConfig {
	return GroupedConfig{
		Width:          800,
		Height:         400,
		Margin:         Margin{Top: 50, Right: 50, Bottom: 90, Left: 50},
		GroupPadding:   0.3,
		BarPadding:     0.1,
		YTicks:         6,
		LegendSpacing:  150,
		TooltipPadding: 10,
	}
}

// BarSelectEvent is emitted when a national bar is clicked in Aggregate.
type BarSelectEvent struct {
	Metric metric.Key
}

type barRef struct {
	key    metric.Key
	series Series
}

// GroupedBarchart compares national averages with one county. It starts in
// Aggregate; UpdateCountyData enters Comparison and Reset leaves it.
type GroupedBarchart struct {
	cfg          GroupedConfig
	theme        theme.Theme
	defaultTitle string

	width, height float64
	x             *scale.Band
	y             scale.Linear

	national   metric.Set
	county     metric.Set
	countyName string
	title      string
	groupNames [2]string
	mode       Mode
	hovered    *barRef

	onSelect func(BarSelectEvent)
}

// NewGroupedBarchart creates the chart in Aggregate mode over national.
func NewGroupedBarchart(cfg GroupedConfig, national metric.Set, th theme.Theme) *GroupedBarchart {
	g := &GroupedBarchart{
		cfg:          cfg,
		theme:        th,
		defaultTitle: th.GroupedTitle,
		national:     national,
	}
	if g.defaultTitle == "" {
		g.defaultTitle = DefaultGroupedTitle
	}
	g.width, g.height = cfg.Margin.inner(cfg.Width, cfg.Height)
	g.x = scale.NewBand(metricFields(), 0, g.width, cfg.GroupPadding, cfg.GroupPadding)
	g.Reset()
	return g
}

// OnSelect registers the bar click callback.
func (g *GroupedBarchart) OnSelect(fn func(BarSelectEvent)) {
	g.onSelect = fn
}

// Mode returns the current state.
func (g *GroupedBarchart) Mode() Mode {
	return g.mode
}

// Title returns the chart title.
func (g *GroupedBarchart) Title() string {
	return g.title
}

// CountyName returns the compared county name, empty in Aggregate.
func (g *GroupedBarchart) CountyName() string {
	return g.countyName
}

// GroupNames returns the series names shown in the group legend.
func (g *GroupedBarchart) GroupNames() [2]string {
	return g.groupNames
}

// ResetVisible reports whether the reset control is part of the scene.
func (g *GroupedBarchart) ResetVisible() bool {
	return g.mode == Comparison
}

// YDomain returns the value axis extent for the current data.
func (g *GroupedBarchart) YDomain() (float64, float64) {
	return g.yScale().Domain()
}

// UpdateCountyData enters Comparison with the given county readings. It is
// valid from either state; repeated calls replace the county series.
func (g *GroupedBarchart) UpdateCountyData(county metric.Set, name string) {
	g.mode = Comparison
	g.county = county
	g.countyName = name
	g.title = "Health Conditions: National vs " + name + " County"
	g.groupNames[1] = name + " County"
	g.hovered = nil
}

// Reset returns to Aggregate with the original national-only data.
func (g *GroupedBarchart) Reset() {
	g.mode = Aggregate
	g.county = metric.Set{}
	g.countyName = ""
	g.title = g.defaultTitle
	g.groupNames = [2]string{NationalGroupName, CountyGroupName}
	g.hovered = nil
}

// reading returns the value behind a bar and whether that bar is drawn.
func (g *GroupedBarchart) reading(k metric.Key, s Series) (metric.Reading, bool) {
	if !k.Valid() {
		return metric.Reading{}, false
	}
	switch s {
	case National:
		r := g.national.Get(k)
		return r, r.Valid
	case County:
		if g.mode != Comparison {
			return metric.Reading{}, false
		}
		r := g.county.Get(k)
		return r, r.Valid
	default:
		return metric.Reading{}, false
	}
}

func (g *GroupedBarchart) yScale() scale.Linear {
	var top float64
	for _, k := range metric.Keys {
		for _, s := range []Series{National, County} {
			if r, ok := g.reading(k, s); ok && r.Value > top {
				top = r.Value
			}
		}
	}
	return scale.NewLinear(0, top*1.1, g.height, 0)
}

func (g *GroupedBarchart) barBand() *scale.Band {
	return scale.NewBand(seriesNames[:], 0, g.x.Bandwidth(), g.cfg.BarPadding, g.cfg.BarPadding)
}

// Hover outlines a drawn bar and returns its tooltip.
func (g *GroupedBarchart) Hover(k metric.Key, s Series) (Tooltip, bool) {
	r, ok := g.reading(k, s)
	if !ok {
		return Tooltip{}, false
	}
	g.hovered = &barRef{key: k, series: s}

	y := g.yScale()
	bars := g.barBand()
	cx, _ := g.x.Pos(k.Field())
	bx, _ := bars.Pos(s.String())
	return Tooltip{
		Title: k.Label(),
		Body:  g.groupNames[s] + ": " + strconv.FormatFloat(r.Value, 'f', 1, 64) + "%",
		X:     g.cfg.Margin.Left + cx + bx + bars.Bandwidth()/2 + g.cfg.TooltipPadding,
		Y:     g.cfg.Margin.Top + y.Scale(r.Value) + g.cfg.TooltipPadding,
	}, true
}

// Leave removes the hover outline.
func (g *GroupedBarchart) Leave() {
	g.hovered = nil
}

// Click fires the select callback for a national bar in Aggregate and
// reports whether it did. The bar's own category is the selected metric.
// Clicks in Comparison select nothing.
func (g *GroupedBarchart) Click(k metric.Key, s Series) bool {
	if g.mode != Aggregate || s != National {
		return false
	}
	if _, ok := g.reading(k, s); !ok {
		return false
	}
	if g.onSelect != nil {
		g.onSelect(BarSelectEvent{Metric: k})
	}
	return true
}

// Render builds the full grouped chart scene.
func (g *GroupedBarchart) Render() *svg.Element {
	cfg := g.cfg
	g.y = g.yScale()
	bars := g.barBand()

	root := svg.Root(cfg.Width, cfg.Height).Set("class", "grouped-barchart")
	root.Add("text").
		Set("class", "chart-title").
		SetF("x", cfg.Width/2).
		SetF("y", cfg.Margin.Top/2).
		Set("text-anchor", "middle").
		Set("font-size", "16px").
		Set("font-weight", "bold").
		SetText(g.title)

	chart := root.Add("g").Set("transform", svg.Translate(cfg.Margin.Left, cfg.Margin.Top))
	chart.Append(bottomAxis(g.x, metricLabels(), g.width, g.height))
	chart.Append(leftAxis(g.y, cfg.YTicks, g.height))

	for _, k := range metric.Keys {
		cx, _ := g.x.Pos(k.Field())
		group := chart.Add("g").
			Set("class", "category-group").
			Set("data-metric", k.Field()).
			Set("transform", svg.Translate(cx, 0))

		for _, s := range []Series{National, County} {
			r, ok := g.reading(k, s)
			if !ok {
				continue
			}
			bx, _ := bars.Pos(s.String())
			y := g.y.Scale(r.Value)
			rect := group.Add("rect").
				Set("class", "bar").
				Set("data-metric", k.Field()).
				Set("data-series", s.String()).
				SetF("x", bx).
				SetF("y", y).
				SetF("width", bars.Bandwidth()).
				SetF("height", g.height-y).
				Set("fill", g.barFill(k, s))
			if h := g.hovered; h != nil && h.key == k && h.series == s {
				rect.SetF("opacity", 0.8).Set("stroke", "white").SetF("stroke-width", 2)
			}

			label := ""
			if r.Value > 0 {
				label = strconv.FormatFloat(r.Value, 'f', 1, 64)
			}
			group.Add("text").
				Set("class", "bar-label").
				SetF("x", bx+bars.Bandwidth()/2).
				SetF("y", y-5).
				Set("text-anchor", "middle").
				Set("font-size", "10px").
				Set("fill", "#333").
				SetText(label)
		}
	}

	chart.Add("text").
		Set("class", "x-axis-label").
		SetF("x", g.width/2).
		SetF("y", g.height+35).
		Set("text-anchor", "middle").
		Set("font-size", "14px").
		SetText("Health Condition")
	chart.Add("text").
		Set("class", "y-axis-label").
		Set("transform", "rotate(-90)").
		SetF("x", -g.height/2).
		SetF("y", -30).
		Set("text-anchor", "middle").
		Set("font-size", "14px").
		SetText("Percent (%)")

	root.Append(g.legend())
	if g.ResetVisible() {
		root.Append(resetControl(cfg.Width))
	}
	return root
}

func (g *GroupedBarchart) barFill(k metric.Key, s Series) string {
	if g.mode == Aggregate {
		return g.theme.Accent(k)
	}
	if s == County {
		return g.theme.CountyColor
	}
	return g.theme.NationalColor
}

// legend holds both the category legend and the group legend; the mode
// decides which one is displayed.
func (g *GroupedBarchart) legend() *svg.Element {
	cfg := g.cfg
	legend := svg.New("g").
		Set("class", "legend").
		Set("transform", svg.Translate(cfg.Margin.Left, g.height+cfg.Margin.Top+40))

	categories := legend.Add("g").Set("class", "category-legend")
	for i, k := range metric.Keys {
		categories.Append(swatchItem("category-item", float64(i)*cfg.LegendSpacing, g.theme.Accent(k), k.Label()))
	}

	groups := legend.Add("g").Set("class", "group-legend").Set("transform", svg.Translate(0, 30))
	groups.Append(
		swatchItem("group-item", 0, g.theme.NationalColor, g.groupNames[0]),
		swatchItem("group-item", cfg.LegendSpacing, g.theme.CountyColor, g.groupNames[1]),
	)

	if g.mode == Comparison {
		categories.Set("display", "none")
	} else {
		groups.Set("display", "none")
	}
	return legend
}

func resetControl(width float64) *svg.Element {
	btn := svg.New("g").
		Set("id", "reset-button").
		Set("class", "reset-control").
		Set("transform", svg.Translate(width-140, 8))
	btn.Add("rect").
		SetF("width", 130).
		SetF("height", 24).
		SetF("rx", 4).
		Set("fill", "#f7f7f7").
		Set("stroke", "#999")
	btn.Add("text").
		SetF("x", 65).
		SetF("y", 12).
		Set("dy", "0.35em").
		Set("text-anchor", "middle").
		Set("font-size", "12px").
		SetText("Reset Comparison")
	return btn
}
