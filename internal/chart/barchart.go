package chart

import (
	"math"
	"strconv"

	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/scale"
	"github.com/sells-group/healthmap/internal/svg"
	"github.com/sells-group/healthmap/internal/theme"
)

// BarConfig sizes the single-series bar chart.
type BarConfig struct {
	Width         float64 `mapstructure:"width"`
	Height        float64 `mapstructure:"height"`
	Margin        Margin  `mapstructure:"margin"`
	YTicks        int     `mapstructure:"y_ticks"`
	LegendSpacing float64 `mapstructure:"legend_spacing"`
}

// DefaultBarConfig returns the standard 1000×500 layout.
func DefaultBarConfig() BarConfig {
	return BarConfig{
		Width:         1000,
		Height:        500,
		Margin:        Margin{Top: 25, Right: 20, Bottom: 60, Left: 40},
		YTicks:        6,
		LegendSpacing: 150,
	}
}

// Barchart draws one bar per metric.
type Barchart struct {
	cfg   BarConfig
	theme theme.Theme

	width, height float64
	x             *scale.Band
	y             scale.Linear
	data          metric.Set
	hovered       metric.Key
}

// NewBarchart creates an empty chart; call Render with data to draw it.
func NewBarchart(cfg BarConfig, th theme.Theme) *Barchart {
	b := &Barchart{cfg: cfg, theme: th, hovered: -1}
	b.width, b.height = cfg.Margin.inner(cfg.Width, cfg.Height)
	b.x = scale.NewBand(metricFields(), 0, b.width, 0.2, 0)
	b.y = scale.NewLinear(0, 0, b.height, 0)
	return b
}

// YDomain returns the value axis extent of the last render.
func (b *Barchart) YDomain() (float64, float64) {
	return b.y.Domain()
}

// Hover outlines the bar for k and returns its tooltip, anchored at the top
// center of the bar. Missing readings have no bar and no tooltip.
func (b *Barchart) Hover(k metric.Key) (Tooltip, bool) {
	r := b.data.Get(k)
	if !r.Valid {
		return Tooltip{}, false
	}
	b.hovered = k
	x, _ := b.x.Pos(k.Field())
	return Tooltip{
		Title: k.Label(),
		Body:  k.Label() + ": " + strconv.FormatFloat(math.Round(r.Value), 'f', 0, 64) + "%",
		X:     b.cfg.Margin.Left + x + b.x.Bandwidth()/2,
		Y:     b.cfg.Margin.Top + b.y.Scale(r.Value),
	}, true
}

// Leave removes the hover outline.
func (b *Barchart) Leave() {
	b.hovered = -1
}

// Render draws data with the value axis scaled to [0, max valid value].
func (b *Barchart) Render(data metric.Set) *svg.Element {
	b.data = data
	top, _ := data.Max()
	b.y = scale.NewLinear(0, top, b.height, 0)

	root := svg.Root(b.cfg.Width, b.cfg.Height).Set("class", "barchart")
	root.Add("text").
		Set("class", "axis-title").
		SetF("x", 0).
		SetF("y", 0).
		Set("dy", ".71em").
		SetText("%")

	chart := root.Add("g").Set("transform", svg.Translate(b.cfg.Margin.Left, b.cfg.Margin.Top))
	chart.Append(bottomAxis(b.x, metricLabels(), b.width, b.height))
	chart.Append(leftAxis(b.y, b.cfg.YTicks, b.height))

	for _, k := range metric.Keys {
		r := data.Get(k)
		if !r.Valid {
			continue
		}
		x, _ := b.x.Pos(k.Field())
		y := b.y.Scale(r.Value)
		bar := chart.Add("rect").
			Set("class", "bar").
			Set("id", "bar-"+k.Field()).
			Set("data-metric", k.Field()).
			SetF("x", x).
			SetF("width", b.x.Bandwidth()).
			SetF("y", y).
			SetF("height", b.height-y).
			Set("fill", b.theme.Accent(k))
		if k == b.hovered {
			bar.Set("stroke", "white").SetF("stroke-width", 2)
		}
	}

	legend := root.Add("g").
		Set("class", "legend category-legend").
		Set("transform", svg.Translate(b.cfg.Margin.Left, b.cfg.Height-20))
	for i, k := range metric.Keys {
		legend.Append(swatchItem("category-item", float64(i)*b.cfg.LegendSpacing, b.theme.Accent(k), k.Label()))
	}
	return root
}
