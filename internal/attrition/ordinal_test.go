package attrition

import (
	"testing"
)

func TestCoerceLabel(t *testing.T) {
	cases := []struct {
		label    string
		fallback float64
		want     float64
	}{
		{"5-6 yrs", 9, 5},
		{"-3.5", 9, -3.5},
		{"0-1", 9, 0},
		{"Age 42+", 9, 42},
		{".5 share", 9, 0.5},
		{"+7", 9, 7},
		{"n/a", 9, 9},
		{"", 2, 2},
	}
	for _, tc := range cases {
		if got := CoerceLabel(tc.label, tc.fallback); got != tc.want {
			t.Fatalf("CoerceLabel(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestOrdinalSeriesSortsAscending(t *testing.T) {
	series := OrdinalSeries([]OrdinalInput{
		{Label: "10-20", Y: 3},
		{Label: "0-10", Y: 1},
		{Label: "unknown", Y: 7},
		{Label: "20+", Y: 2},
	})
	if len(series) != 4 {
		t.Fatalf("expected 4 points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].X < series[i-1].X {
			t.Fatalf("series not ascending at %d: %+v", i, series)
		}
	}
	if series[0].Label != "0-10" {
		t.Fatalf("expected 0-10 first, got %s", series[0].Label)
	}
	// "unknown" falls back to its index, 2.
	if series[1].Label != "unknown" || series[1].X != 2 {
		t.Fatalf("expected positional fallback, got %+v", series[1])
	}
}

func TestOrdinalSeriesPrefersNumericField(t *testing.T) {
	x := 100.0
	series := OrdinalSeries([]OrdinalInput{
		{Label: "1", X: &x, Y: 1},
		{Label: "50", Y: 2},
	})
	if series[0].Label != "50" || series[1].X != 100 {
		t.Fatalf("expected explicit x to win, got %+v", series)
	}
}

func TestOrdinalFromRows(t *testing.T) {
	rows := []Row{
		{"min_income": 5000.0, "attrition_rate": 0.1},
		{"min_income": 1000.0, "attrition_rate": 0.3},
		{"bucket": "2500-3000", "rate": 0.2},
	}
	series := OrdinalFromRows(rows, []string{"min_income"}, []string{"bucket"}, []string{"attrition_rate", "rate"})
	want := []float64{1000, 2500, 5000}
	for i, p := range series {
		if p.X != want[i] {
			t.Fatalf("point %d x = %v, want %v", i, p.X, want[i])
		}
	}
	if series[0].Y != 0.3 || series[0].Label != "1000" {
		t.Fatalf("unexpected first point %+v", series[0])
	}
}
