package scale

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
)

// Color is a two-stop linear color scale interpolated in HCL space.
type Color struct {
	lin      Linear
	from, to colorful.Color
}

// NewColor creates a color scale over [d0, d1] from one hex color to another.
func NewColor(d0, d1 float64, from, to string) (Color, error) {
	f, err := ParseHex(from)
	if err != nil {
		return Color{}, err
	}
	t, err := ParseHex(to)
	if err != nil {
		return Color{}, err
	}
	return Color{lin: NewLinear(d0, d1, 0, 1), from: f, to: t}, nil
}

// Hex returns the color for v as "#rrggbb".
func (c Color) Hex(v float64) string {
	return c.At(c.lin.Normalize(v))
}

// At returns the color at fraction t of the range.
func (c Color) At(t float64) string {
	return c.from.BlendHcl(c.to, t).Clamped().Hex()
}

// Domain returns the scale domain.
func (c Color) Domain() (float64, float64) {
	return c.lin.Domain()
}

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (colorful.Color, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, eris.Wrapf(err, "scale: parse color %q", s)
	}
	return c, nil
}
