package attrition

import (
	"errors"
	"testing"
)

func TestStackedRangeSumsToMax(t *testing.T) {
	cases := []QuantileSummary{
		{Category: "Manager", Min: 11000, Q1: 13000, Median: 16000, Q3: 18500, Max: 20000},
		{Category: "Lab Tech", Min: 1000, Q1: 2500, Median: 3000, Q3: 3500, Max: 7500},
		{Category: "Flat", Min: 5, Q1: 5, Median: 5, Q3: 5, Max: 5},
		{Category: "Below zero", Min: -10, Q1: 0, Median: 5, Q3: 10, Max: 20},
	}
	for _, q := range cases {
		if err := q.Validate(); err != nil {
			t.Fatalf("validate %s: %v", q.Category, err)
		}
		r := ToStackedRange(q)
		if r.Clamped {
			t.Fatalf("%s unexpectedly clamped", q.Category)
		}
		if r.Total() != q.Max {
			t.Fatalf("%s segments sum to %v, want %v", q.Category, r.Total(), q.Max)
		}
	}
}

func TestStackedRangeClampsOutOfOrder(t *testing.T) {
	q := QuantileSummary{Category: "Odd", Min: 10, Q1: 8, Median: 12, Q3: 14, Max: 15}
	err := q.Validate()
	if !errors.Is(err, ErrQuantileOrder) {
		t.Fatalf("expected ErrQuantileOrder, got %v", err)
	}
	r := ToStackedRange(q)
	if !r.Clamped {
		t.Fatalf("expected clamped flag")
	}
	for i, seg := range r.Segments() {
		if seg < 0 {
			t.Fatalf("segment %d negative: %v", i, seg)
		}
	}
	if r.Q1 != 0 {
		t.Fatalf("expected q1 segment clamped to 0, got %v", r.Q1)
	}
}

func TestStackedRangesPreservesOrder(t *testing.T) {
	out := StackedRanges([]QuantileSummary{{Category: "b", Max: 1}, {Category: "a", Max: 2}})
	if out[0].Category != "b" || out[1].Category != "a" {
		t.Fatalf("unexpected order %+v", out)
	}
}
