package demod

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	FilterTaps  = 8
	FilterCount = 129
)

// Sinc is the normalized sinc, exactly 1 at 0.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

// Filter is an 8 tap fractional delay interpolator.
type Filter struct {
	Taps [FilterTaps]float64
	// taps in reverse order so Convolve is a plain dot product
	rev [FilterTaps]float64
}

func NewFilter(offset float64) Filter {
	var f Filter
	for j := range f.Taps {
		f.Taps[j] = Sinc(-4+float64(j)+offset) / FilterTaps
	}
	for j := range f.rev {
		f.rev[j] = f.Taps[FilterTaps-1-j]
	}
	return f
}

// Convolve returns the dot product of window, newest sample last, against
// the taps with the newest sample on tap 0. It panics if window is not
// FilterTaps long.
func (f *Filter) Convolve(window []float64) float64 {
	return floats.Dot(window, f.rev[:])
}

// FilterBank is a table of filters over evenly spaced sub-sample offsets.
// It is never modified after NewFilterBank returns.
type FilterBank struct {
	Span    float64
	Filters [FilterCount]Filter
}

// NewFilterBank builds FilterCount filters with offsets k*span/FilterCount.
func NewFilterBank(span float64) *FilterBank {
	b := &FilterBank{Span: span}
	step := span / FilterCount
	for k := range b.Filters {
		b.Filters[k] = NewFilter(float64(k) * step)
	}
	return b
}

// Index maps a fractional sample offset in [0,1) onto the table.
func (b *FilterBank) Index(mu float64) int {
	idx := int(mu * FilterCount)
	if idx < 0 {
		return 0
	}
	if idx >= FilterCount {
		return FilterCount - 1
	}
	return idx
}

func (b *FilterBank) Filter(mu float64) *Filter {
	return &b.Filters[b.Index(mu)]
}
