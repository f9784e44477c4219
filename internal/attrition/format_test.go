package attrition

import "testing"

func TestSummaryRateDisplay(t *testing.T) {
	s := Summary{Total: 1470, Left: 237}
	if got := FormatPercent(s.Rate()); got != "16.1%" {
		t.Fatalf("expected 16.1%%, got %s", got)
	}
	if got := SummaryLine(s); got != "Total: 1,470 · Left: 237 · Attrition rate: 16.1%" {
		t.Fatalf("unexpected summary line %q", got)
	}
}

func TestSummaryRateFallsBackToReportedRate(t *testing.T) {
	s := Summary{AttritionRate: 0.25}
	if got := FormatPercent(s.Rate()); got != "25.0%" {
		t.Fatalf("expected 25.0%%, got %s", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(0.2); got != "+20.0 pp" {
		t.Fatalf("unexpected delta %q", got)
	}
	if got := FormatDelta(-0.05); got != "-5.0 pp" {
		t.Fatalf("unexpected delta %q", got)
	}
}

func TestFormatCorrelation(t *testing.T) {
	if got := FormatCorrelation(0.2249); got != "+0.22" {
		t.Fatalf("unexpected correlation text %q", got)
	}
	if got := FormatCorrelation(-0.159); got != "-0.16" {
		t.Fatalf("unexpected correlation text %q", got)
	}
}
