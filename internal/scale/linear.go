// Package scale maps data values to drawing coordinates and colors.
package scale

import (
	"math"
	"strconv"
)

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Normalize returns where v sits in the domain, 0 at d0 and 1 at d1. A
// degenerate domain maps everything to the midpoint.
func (l Linear) Normalize(v float64) float64 {
	span := l.d1 - l.d0
	if span == 0 || math.IsNaN(span) {
		return 0.5
	}
	return (v - l.d0) / span
}

// Scale maps v to the range.
func (l Linear) Scale(v float64) float64 {
	return l.r0 + l.Normalize(v)*(l.r1-l.r0)
}

// Domain returns the input extent.
func (l Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

// Ticks returns roughly count evenly spaced round values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	lo, hi := l.d0, l.d1
	if hi < lo {
		lo, hi = hi, lo
	}
	return Ticks(lo, hi, count)
}

// TickFormat returns a formatter with just enough decimals for the tick step.
func (l Linear) TickFormat(count int) func(float64) string {
	lo, hi := l.d0, l.d1
	if hi < lo {
		lo, hi = hi, lo
	}
	step := math.Abs(tickIncrementStep(lo, hi, count))
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec picks a 1-2-5 step. A negative inc means the step is 1/-inc,
// which avoids floating point error for fractional steps.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errv := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errv >= e10:
		factor = 10
	case errv >= e5:
		factor = 5
	case errv >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		return i1, i2, -inc
	}
	inc = math.Pow(10, power) * factor
	i1 = math.Round(start / inc)
	i2 = math.Round(stop / inc)
	if i1*inc < start {
		i1++
	}
	if i2*inc > stop {
		i2--
	}
	return i1, i2, inc
}

func tickIncrementStep(start, stop float64, count int) float64 {
	if count <= 0 || stop <= start {
		return 0
	}
	_, _, inc := tickSpec(start, stop, count)
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// Ticks returns round values between start and stop (start <= stop).
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 || math.IsInf(inc, 0) || inc == 0 {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := range n {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	return ticks
}
