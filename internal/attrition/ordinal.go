package attrition

import (
	"regexp"
	"sort"
	"strconv"
)

var numericToken = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)`)

// CoerceLabel extracts the first numeric token of label, e.g. "5-6 yrs" -> 5
// and "-3.5" -> -3.5. It returns fallback when label holds no number.
func CoerceLabel(label string, fallback float64) float64 {
	token := numericToken.FindString(label)
	if token == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return fallback
	}
	return v
}

// OrdinalInput is one raw point before its x value is derived.
type OrdinalInput struct {
	Label string
	// X is used as-is when set, otherwise derived from Label.
	X *float64
	Y float64
}

// OrdinalSeries derives x for each point, falling back to the positional
// index, and returns a new slice sorted ascending by x. Ties keep input order.
func OrdinalSeries(points []OrdinalInput) []OrdinalSeriesPoint {
	out := make([]OrdinalSeriesPoint, 0, len(points))
	for i, p := range points {
		x := CoerceLabel(p.Label, float64(i))
		if p.X != nil {
			x = *p.X
		}
		out = append(out, OrdinalSeriesPoint{Label: p.Label, X: x, Y: p.Y})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

// OrdinalFromRows builds a series from raw rows. xKeys name numeric x fields
// tried before coercing the label found under labelKeys.
func OrdinalFromRows(rows []Row, xKeys, labelKeys, yKeys []string) []OrdinalSeriesPoint {
	points := make([]OrdinalInput, 0, len(rows))
	for _, row := range rows {
		p := OrdinalInput{Y: row.Number(yKeys...)}
		if label, ok := row.PickString(labelKeys...); ok {
			p.Label = label
		}
		if x, ok := row.PickNumber(xKeys...); ok {
			p.X = &x
			if p.Label == "" {
				p.Label = formatNumber(x)
			}
		}
		points = append(points, p)
	}
	return OrdinalSeries(points)
}
