package scale

import "math"

// Band divides a range into equal bands, one per category.
type Band struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand lays out domain across [r0, r1]. paddingInner is the fraction of
// a step left empty between bands and paddingOuter the fraction of a step
// before the first and after the last band. Bands are centered in the range.
func NewBand(domain []string, r0, r1, paddingInner, paddingOuter float64) *Band {
	b := &Band{
		domain: append([]string(nil), domain...),
		index:  make(map[string]int, len(domain)),
	}
	for i, d := range b.domain {
		if _, dup := b.index[d]; !dup {
			b.index[d] = i
		}
	}

	paddingInner = math.Min(1, math.Max(0, paddingInner))
	n := float64(len(b.domain))
	lo, hi := r0, r1
	if hi < lo {
		lo, hi = hi, lo
	}
	b.step = (hi - lo) / math.Max(1, n-paddingInner+paddingOuter*2)
	b.start = lo + (hi-lo-b.step*(n-paddingInner))*0.5
	b.bandwidth = b.step * (1 - paddingInner)
	return b
}

// Pos returns the start of the band for key.
func (b *Band) Pos(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 {
	return b.bandwidth
}

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 {
	return b.step
}

// Domain returns the categories in layout order.
func (b *Band) Domain() []string {
	return append([]string(nil), b.domain...)
}
