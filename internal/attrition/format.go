package attrition

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var counts = message.NewPrinter(language.English)

// Rate returns Left/Total, or the reported rate when Total is zero.
func (s Summary) Rate() float64 {
	if s.Total > 0 {
		return float64(s.Left) / float64(s.Total)
	}
	return s.AttritionRate
}

// FormatPercent renders a ratio with one decimal, e.g. 0.16122 -> "16.1%".
func FormatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatCount renders a head count with thousands separators.
func FormatCount(n int) string {
	return counts.Sprintf("%d", n)
}

// FormatDelta renders a rate difference in percentage points with its sign.
func FormatDelta(delta float64) string {
	return fmt.Sprintf("%+.1f pp", delta*100)
}

// SummaryLine is the headline shown above the charts.
func SummaryLine(s Summary) string {
	return fmt.Sprintf("Total: %s · Left: %s · Attrition rate: %s", FormatCount(s.Total), FormatCount(s.Left), FormatPercent(s.Rate()))
}

// FormatCorrelation renders a coefficient with sign and two decimals.
func FormatCorrelation(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return "-"
	}
	return fmt.Sprintf("%+.2f", r)
}
