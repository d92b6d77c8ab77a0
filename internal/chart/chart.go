// Package chart renders the dashboard views as SVG element trees.
//
// Every view keeps only its own state and rebuilds its whole scene on each
// Render call. Interaction methods (Hover, Click, Leave) restyle the view and
// return what the page should show; cross-view effects go through the
// OnHover and OnSelect callbacks, which the dashboard controller registers.
package chart

import (
	"github.com/sells-group/healthmap/internal/metric"
	"github.com/sells-group/healthmap/internal/scale"
	"github.com/sells-group/healthmap/internal/svg"
)

// StripePatternID is the fill pattern for counties without data.
const StripePatternID = "lightstripe"

// Margin is the space between the container edge and the plotting area.
type Margin struct {
	Top    float64 `json:"top" mapstructure:"top"`
	Right  float64 `json:"right" mapstructure:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
	Left   float64 `json:"left" mapstructure:"left"`
}

// inner returns the plotting area size for a container.
func (m Margin) inner(width, height float64) (float64, float64) {
	return width - m.Left - m.Right, height - m.Top - m.Bottom
}

// Tooltip is the floating label shown next to the pointer.
type Tooltip struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// stripePattern defines the diagonal hatch used for missing data.
func stripePattern(stroke string) *svg.Element {
	p := svg.New("pattern").
		Set("id", StripePatternID).
		Set("patternUnits", "userSpaceOnUse").
		SetF("width", 5).
		SetF("height", 5)
	p.Add("rect").SetF("width", 5).SetF("height", 5).Set("fill", "white")
	p.Add("path").
		Set("d", "M0,5L5,0M-1,1L1,-1M4,6L6,4").
		Set("stroke", stroke).
		SetF("stroke-width", 1)
	return p
}

// bottomAxis draws category tick labels under a band scale at y.
func bottomAxis(band *scale.Band, labels map[string]string, width, y float64) *svg.Element {
	g := svg.New("g").Set("class", "axis x-axis").Set("transform", svg.Translate(0, y))
	g.Add("path").Set("class", "domain").Set("d", "M0,0H"+svg.Num(width)).Set("stroke", "currentColor")
	for _, key := range band.Domain() {
		x, _ := band.Pos(key)
		tick := g.Add("g").Set("class", "tick").Set("transform", svg.Translate(x+band.Bandwidth()/2, 0))
		tick.Add("line").SetF("y2", 6).Set("stroke", "currentColor")
		tick.Add("text").SetF("y", 9).Set("dy", "0.71em").Set("text-anchor", "middle").SetText(labels[key])
	}
	return g
}

// leftAxis draws value ticks for a linear scale whose range is [height, 0].
func leftAxis(lin scale.Linear, count int, height float64) *svg.Element {
	g := svg.New("g").Set("class", "axis y-axis")
	g.Add("path").Set("class", "domain").Set("d", "M0,"+svg.Num(height)+"V0").Set("stroke", "currentColor")
	format := lin.TickFormat(count)
	for _, v := range lin.Ticks(count) {
		tick := g.Add("g").Set("class", "tick").Set("transform", svg.Translate(0, lin.Scale(v)))
		tick.Add("line").SetF("x2", -6).Set("stroke", "currentColor")
		tick.Add("text").SetF("x", -9).Set("dy", "0.32em").Set("text-anchor", "end").SetText(format(v))
	}
	return g
}

// swatchItem is one legend entry: a 15px square and its label.
func swatchItem(class string, x float64, fill, label string) *svg.Element {
	item := svg.New("g").Set("class", class).Set("transform", svg.Translate(x, 0))
	item.Add("rect").SetF("width", 15).SetF("height", 15).Set("fill", fill)
	item.Add("text").SetF("x", 20).SetF("y", 7.5).Set("dy", "0.35em").Set("font-size", "12px").SetText(label)
	return item
}

// metricLabels maps each raw field name to its display label.
func metricLabels() map[string]string {
	labels := make(map[string]string, metric.Count)
	for _, k := range metric.Keys {
		labels[k.Field()] = k.Label()
	}
	return labels
}

// metricFields lists the raw field names in enumeration order.
func metricFields() []string {
	out := make([]string, 0, metric.Count)
	for _, k := range metric.Keys {
		out = append(out, k.Field())
	}
	return out
}
