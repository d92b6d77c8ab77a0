// Package projection projects longitude/latitude onto the drawing plane and
// turns geometries into SVG path data.
package projection

import "math"

// Projector maps a lon/lat pair in degrees to drawing coordinates. ok is
// false when the point falls outside the projection's coverage.
type Projector interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

const radians = math.Pi / 180

// conic is a conic equal-area projection with rotation, centering, scale and
// translation applied.
type conic struct {
	n, c, r0 float64
	rotate   float64 // radians added to longitude
	k        float64
	dx, dy   float64
}

func newConic(parallels [2]float64, rotateLon float64, center [2]float64, k float64, tx, ty float64) conic {
	sy0 := math.Sin(parallels[0] * radians)
	n := (sy0 + math.Sin(parallels[1]*radians)) / 2
	c := 1 + sy0*(2*n-sy0)
	p := conic{
		n:      n,
		c:      c,
		r0:     math.Sqrt(c) / n,
		rotate: rotateLon * radians,
		k:      k,
	}
	// The center is given in the rotated frame.
	cx, cy := p.raw(center[0]*radians, center[1]*radians)
	p.dx = tx - k*cx
	p.dy = ty + k*cy
	return p
}

func (p conic) raw(lambda, phi float64) (float64, float64) {
	r := math.Sqrt(math.Max(0, p.c-2*p.n*math.Sin(phi))) / p.n
	lambda *= p.n
	return r * math.Sin(lambda), p.r0 - r*math.Cos(lambda)
}

func (p conic) project(lon, lat float64) (float64, float64) {
	lambda := wrap(lon*radians + p.rotate)
	x, y := p.raw(lambda, lat*radians)
	return p.dx + p.k*x, p.dy - p.k*y
}

// wrap folds an angle into [-π, π].
func wrap(a float64) float64 {
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AlbersUSA is the composite U.S. projection: the lower 48 states in an
// Albers conic, with Alaska and Hawaii as scaled insets to the lower left.
type AlbersUSA struct {
	lower48 conic
	alaska  conic
	hawaii  conic
}

// NewAlbersUSA creates the projection. scale is the lower-48 scale factor
// and (tx, ty) the drawing position of the lower-48 center.
func NewAlbersUSA(scale, tx, ty float64) *AlbersUSA {
	return &AlbersUSA{
		lower48: newConic([2]float64{29.5, 45.5}, 96, [2]float64{-0.6, 38.7}, scale, tx, ty),
		alaska:  newConic([2]float64{55, 65}, 154, [2]float64{-2, 58.5}, scale*0.35, tx-0.307*scale, ty+0.201*scale),
		hawaii:  newConic([2]float64{8, 18}, 157, [2]float64{-3, 19.9}, scale, tx-0.205*scale, ty+0.212*scale),
	}
}

// Project implements Projector. Points outside the three regions (for
// example Puerto Rico or Guam) are not drawn.
func (a *AlbersUSA) Project(lon, lat float64) (float64, float64, bool) {
	switch {
	case lat >= 50 && (lon <= -129 || lon >= 170):
		x, y := a.alaska.project(lon, lat)
		return x, y, true
	case lat >= 18 && lat <= 23 && lon >= -161 && lon <= -154:
		x, y := a.hawaii.project(lon, lat)
		return x, y, true
	case lat >= 23 && lat <= 50 && lon >= -125.5 && lon <= -65:
		x, y := a.lower48.project(lon, lat)
		return x, y, true
	default:
		return 0, 0, false
	}
}
