package chart

import (
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/healthmap/internal/healthdata"
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/projection"
	"github.com/sells-group/healthmap/internal/scale"
	"github.com/sells-group/healthmap/internal/svg"
	"github.com/sells-group/healthmap/internal/theme"
)

// Map opacities.
const (
	OpacityDefault  = 0.8
	OpacityActive   = 1.0
	OpacityDimmed   = 0.2
	HoverStrokeWide = 1.8
)

const legendGradientID = "legend-gradient"

// MapConfig sizes the choropleth map and its legend.
type MapConfig struct {
	Width            float64 `mapstructure:"width"`
	Height           float64 `mapstructure:"height"`
	Margin           Margin  `mapstructure:"margin"`
	TooltipPadding   float64 `mapstructure:"tooltip_padding"`
	LegendLeft       float64 `mapstructure:"legend_left"`
	LegendBottom     float64 `mapstructure:"legend_bottom"`
	LegendRectWidth  float64 `mapstructure:"legend_rect_width"`
	LegendRectHeight float64 `mapstructure:"legend_rect_height"`
}

// DefaultMapConfig returns the standard 1000×500 layout.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Width:            1000,
		Height:           500,
		Margin:           Margin{Top: 30, Right: 10, Bottom: 10, Left: 10},
		TooltipPadding:   10,
		LegendLeft:       50,
		LegendBottom:     50,
		LegendRectWidth:  150,
		LegendRectHeight: 12,
	}
}

// HoverEvent is emitted when the pointer moves over a county.
type HoverEvent struct {
	FIPS    string
	Tooltip Tooltip
}

// SelectEvent is emitted when a county is clicked.
type SelectEvent struct {
	FIPS    string
	Name    string
	Metrics metric.Set
}

type countyShape struct {
	fips    string
	name    string
	path    string
	metrics metric.Set
}

// ChoroplethMap shades counties by the active metric.
type ChoroplethMap struct {
	cfg   MapConfig
	theme theme.Theme

	width, height float64
	counties      []countyShape
	index         map[string]int
	borders       string

	active metric.Key
	color  scale.Color
	// hasDomain is false when no county has a valid reading.
	hasDomain bool

	hovered  string
	selected string

	onHover  func(HoverEvent)
	onSelect func(SelectEvent)
}

// NewChoroplethMap projects every county once and colors the map by
// initial. Paths are not rebuilt afterwards.
func NewChoroplethMap(cfg MapConfig, geo *healthdata.Geography, initial metric.Key, th theme.Theme) (*ChoroplethMap, error) {
	m := &ChoroplethMap{
		cfg:   cfg,
		theme: th,
		index: make(map[string]int, geo.Len()),
	}
	m.width, m.height = cfg.Margin.inner(cfg.Width, cfg.Height)

	proj := projection.NewAlbersUSA(m.width, m.width/2, m.height/2)
	m.counties = make([]countyShape, 0, geo.Len())
	empty := 0
	for _, c := range geo.Counties {
		if _, dup := m.index[c.FIPS]; dup {
			continue
		}
		shape := countyShape{
			fips:    c.FIPS,
			name:    c.Name,
			path:    projection.PolygonPath(c.Geometry, proj),
			metrics: c.Metrics,
		}
		if shape.path == "" {
			empty++
		}
		m.index[c.FIPS] = len(m.counties)
		m.counties = append(m.counties, shape)
	}
	m.borders = projection.LinePath(geo.StateBorders, proj)

	zap.L().Debug("chart: map projected",
		zap.Int("counties", len(m.counties)),
		zap.Int("unprojectable", empty),
	)

	if err := m.SetActiveMetric(initial); err != nil {
		return nil, err
	}
	return m, nil
}

// OnHover registers the hover callback.
func (m *ChoroplethMap) OnHover(fn func(HoverEvent)) {
	m.onHover = fn
}

// OnSelect registers the click callback.
func (m *ChoroplethMap) OnSelect(fn func(SelectEvent)) {
	m.onSelect = fn
}

// ActiveMetric returns the metric the map is shaded by.
func (m *ChoroplethMap) ActiveMetric() metric.Key {
	return m.active
}

// Selected returns the highlighted county FIPS, or "".
func (m *ChoroplethMap) Selected() string {
	return m.selected
}

// SetActiveMetric rebuilds the color scale for k over the counties with a
// valid reading.
func (m *ChoroplethMap) SetActiveMetric(k metric.Key) error {
	if !k.Valid() {
		return eris.Wrapf(metric.ErrUnknown, "chart: map metric %d", int(k))
	}

	var lo, hi float64
	found := false
	for _, c := range m.counties {
		r := c.metrics.Get(k)
		if !r.Valid {
			continue
		}
		if !found || r.Value < lo {
			lo = r.Value
		}
		if !found || r.Value > hi {
			hi = r.Value
		}
		found = true
	}

	color, err := scale.NewColor(lo, hi, m.theme.Low, m.theme.Accent(k))
	if err != nil {
		return eris.Wrap(err, "chart: map color scale")
	}
	m.active = k
	m.color = color
	m.hasDomain = found
	return nil
}

// ColorDomain returns the color scale domain, and false when the active
// metric has no valid reading.
func (m *ChoroplethMap) ColorDomain() (float64, float64, bool) {
	lo, hi := m.color.Domain()
	return lo, hi, m.hasDomain
}

// Fill returns the fill of a county: a scale color, or the stripe pattern
// when its reading is missing.
func (m *ChoroplethMap) Fill(fips string) string {
	i, ok := m.index[fips]
	if !ok {
		return ""
	}
	return m.fill(m.counties[i])
}

func (m *ChoroplethMap) fill(c countyShape) string {
	r := c.metrics.Get(m.active)
	if !r.Valid || !m.hasDomain {
		return "url(#" + StripePatternID + ")"
	}
	return m.color.Hex(r.Value)
}

// Hover outlines the county and returns its tooltip positioned at the
// pointer offset by the tooltip padding.
func (m *ChoroplethMap) Hover(fips string, x, y float64) (Tooltip, bool) {
	i, ok := m.index[fips]
	if !ok {
		return Tooltip{}, false
	}
	c := m.counties[i]
	m.hovered = fips

	tip := Tooltip{
		Title: c.name,
		Body:  "No data available",
		X:     x + m.cfg.TooltipPadding,
		Y:     y + m.cfg.TooltipPadding,
	}
	if r := c.metrics.Get(m.active); r.Valid && r.Value > 0 {
		tip.Body = m.active.Label() + ": " + strconv.FormatFloat(r.Value, 'f', -1, 64) + "%"
	}
	if m.onHover != nil {
		m.onHover(HoverEvent{FIPS: fips, Tooltip: tip})
	}
	return tip, true
}

// Leave removes the hover outline.
func (m *ChoroplethMap) Leave(fips string) {
	if m.hovered == fips {
		m.hovered = ""
	}
}

// Click highlights the county, dims the rest and fires the select
// callback. A second click elsewhere moves the highlight.
func (m *ChoroplethMap) Click(fips string) bool {
	i, ok := m.index[fips]
	if !ok {
		return false
	}
	c := m.counties[i]
	m.selected = fips
	if m.onSelect != nil {
		m.onSelect(SelectEvent{FIPS: c.fips, Name: c.name, Metrics: c.metrics})
	}
	return true
}

// ClearSelection restores the default opacity on every county.
func (m *ChoroplethMap) ClearSelection() {
	m.selected = ""
}

// Render builds the full map scene.
func (m *ChoroplethMap) Render() *svg.Element {
	root := svg.Root(m.cfg.Width, m.cfg.Height).Set("class", "center-container")

	defs := root.Add("defs")
	defs.Append(stripePattern(m.theme.StripeColor))
	if m.hasDomain {
		defs.Append(m.gradient())
	}

	g := root.Add("g").
		Set("class", "center-container center-items us-state").
		Set("transform", svg.Translate(m.cfg.Margin.Left, m.cfg.Margin.Top))

	counties := g.Add("g").Set("id", "counties")
	for _, c := range m.counties {
		p := counties.Add("path").
			Set("class", "county").
			Set("id", "county-"+c.fips).
			Set("data-fips", c.fips).
			Set("data-name", c.name).
			Set("d", c.path).
			Set("fill", m.fill(c))

		if c.fips == m.hovered {
			p.Set("stroke", "white").SetF("stroke-width", HoverStrokeWide)
		} else {
			p.Set("stroke", "transparent")
		}

		switch {
		case m.selected == "":
			p.SetF("opacity", OpacityDefault)
		case c.fips == m.selected:
			p.Set("class", "county active").SetF("opacity", OpacityActive)
		default:
			p.SetF("opacity", OpacityDimmed)
		}
	}

	if m.borders != "" {
		g.Add("path").
			Set("id", "state-borders").
			Set("d", m.borders).
			Set("fill", "none").
			Set("stroke", m.theme.BorderColor).
			Set("stroke-linejoin", "round")
	}

	root.Append(m.legend())
	return root
}

func (m *ChoroplethMap) gradient() *svg.Element {
	grad := svg.New("linearGradient").Set("id", legendGradientID)
	for i := 0; i <= 4; i++ {
		t := float64(i) / 4
		grad.Add("stop").
			Set("offset", strconv.Itoa(i*25)+"%").
			Set("stop-color", m.color.At(t))
	}
	return grad
}

// legend draws the gradient bar with five tick labels spanning the domain
// and a separate "No data" swatch.
func (m *ChoroplethMap) legend() *svg.Element {
	cfg := m.cfg
	legend := svg.New("g").
		Set("class", "legend").
		Set("transform", svg.Translate(cfg.LegendLeft, cfg.Height-cfg.LegendBottom))

	legend.Add("text").
		Set("class", "legend-title").
		SetF("y", -8).
		SetText(m.active.Label())

	x := 0.0
	if m.hasDomain {
		legend.Add("rect").
			Set("class", "legend-bar").
			SetF("width", cfg.LegendRectWidth).
			SetF("height", cfg.LegendRectHeight).
			Set("fill", "url(#"+legendGradientID+")")

		lo, hi := m.color.Domain()
		for i := 0; i <= 4; i++ {
			v := lo + (hi-lo)*float64(i)/4
			legend.Add("text").
				Set("class", "legend-label").
				SetF("x", cfg.LegendRectWidth*float64(i)/4).
				SetF("y", cfg.LegendRectHeight+14).
				Set("text-anchor", "middle").
				SetText(strconv.FormatFloat(v, 'f', 1, 64))
		}
		x = cfg.LegendRectWidth + 30
	}

	nodata := legend.Add("g").Set("class", "legend-nodata").Set("transform", svg.Translate(x, 0))
	nodata.Add("rect").
		SetF("width", cfg.LegendRectHeight).
		SetF("height", cfg.LegendRectHeight).
		Set("fill", "url(#"+StripePatternID+")").
		Set("stroke", m.theme.StripeColor)
	nodata.Add("text").
		SetF("x", cfg.LegendRectHeight+6).
		SetF("y", cfg.LegendRectHeight/2).
		Set("dy", "0.35em").
		SetText("No data")
	return legend
}
