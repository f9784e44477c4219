package attrition

import (
	"errors"
	"fmt"
)

// ErrQuantileOrder reports a five-number summary with out-of-order values.
var ErrQuantileOrder = errors.New("attrition: quantiles out of order")

// Validate checks min <= q1 <= median <= q3 <= max.
func (q QuantileSummary) Validate() error {
	values := [...]float64{q.Min, q.Q1, q.Median, q.Q3, q.Max}
	names := [...]string{"min", "q1", "median", "q3", "max"}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return fmt.Errorf("%w: %s %s=%g < %s=%g", ErrQuantileOrder, q.Category, names[i], values[i], names[i-1], values[i-1])
		}
	}
	return nil
}

// StackedRange is a five-number summary expressed as stacked bar segments.
// For ordered input the segments sum to Max.
type StackedRange struct {
	Category string  `json:"category"`
	Min      float64 `json:"seg_min"`
	Q1       float64 `json:"seg_q1"`
	Median   float64 `json:"seg_median"`
	Q3       float64 `json:"seg_q3"`
	Max      float64 `json:"seg_max"`
	// Clamped is set when a negative segment was raised to zero.
	Clamped bool `json:"clamped,omitempty"`
}

// Segments returns the five segments bottom to top.
func (s StackedRange) Segments() []float64 {
	return []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// Total is the stacked height.
func (s StackedRange) Total() float64 {
	return s.Min + s.Q1 + s.Median + s.Q3 + s.Max
}

// ToStackedRange converts q into segments. The base segment is Min itself and
// may be negative; only the four differences above it are clamped to zero,
// and only out-of-order quantiles make them negative.
func ToStackedRange(q QuantileSummary) StackedRange {
	out := StackedRange{Category: q.Category, Min: q.Min}
	out.Q1, out.Clamped = clampSegment(q.Q1-q.Min, out.Clamped)
	out.Median, out.Clamped = clampSegment(q.Median-q.Q1, out.Clamped)
	out.Q3, out.Clamped = clampSegment(q.Q3-q.Median, out.Clamped)
	out.Max, out.Clamped = clampSegment(q.Max-q.Q3, out.Clamped)
	return out
}

// StackedRanges converts every summary, preserving order.
func StackedRanges(qs []QuantileSummary) []StackedRange {
	out := make([]StackedRange, 0, len(qs))
	for _, q := range qs {
		out = append(out, ToStackedRange(q))
	}
	return out
}

func clampSegment(v float64, clamped bool) (float64, bool) {
	if v < 0 {
		return 0, true
	}
	return v, clamped
}
