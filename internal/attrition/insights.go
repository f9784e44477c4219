package attrition

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Correlation strength thresholds on |r|.
const (
	StrongCorrelation   = 0.30
	ModerateCorrelation = 0.15
)

// Extremes holds the highest and lowest rate rows of one dimension.
type Extremes struct {
	Highest RateRow `json:"highest"`
	Lowest  RateRow `json:"lowest"`
}

// SortByRateDesc returns a copy sorted by rate descending. Ties keep input order.
func SortByRateDesc(rows []RateRow) []RateRow {
	out := make([]RateRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttritionRate > out[j].AttritionRate })
	return out
}

// FindExtremes returns the first and last rows after a stable descending sort.
func FindExtremes(rows []RateRow) (Extremes, bool) {
	if len(rows) == 0 {
		return Extremes{}, false
	}
	sorted := SortByRateDesc(rows)
	return Extremes{Highest: sorted[0], Lowest: sorted[len(sorted)-1]}, true
}

// Highest returns the row with the highest rate, the earliest on ties.
func Highest(rows []RateRow) (RateRow, bool) {
	ext, ok := FindExtremes(rows)
	return ext.Highest, ok
}

// OvertimeDelta is the rate among "Yes" minus the rate among "No". It is
// reported only when both groups are present.
func OvertimeDelta(rows []RateRow) (float64, bool) {
	var yes, no *float64
	for i := range rows {
		rate := rows[i].AttritionRate
		switch strings.ToLower(strings.TrimSpace(rows[i].Key)) {
		case "yes":
			if yes == nil {
				yes = &rate
			}
		case "no":
			if no == nil {
				no = &rate
			}
		}
	}
	if yes == nil || no == nil {
		return 0, false
	}
	return *yes - *no, true
}

// CorrelationStrength classifies |r|.
func CorrelationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= StrongCorrelation:
		return "strong"
	case abs >= ModerateCorrelation:
		return "moderate"
	default:
		return "weak"
	}
}

// CorrelationDirection is "decrease" for negative r and "increase" otherwise.
func CorrelationDirection(r float64) string {
	if r < 0 {
		return "decrease"
	}
	return "increase"
}

// ClassifyCorrelation renders the plain-language label, e.g. "a moderate increase".
func ClassifyCorrelation(r float64) string {
	return "a " + CorrelationStrength(r) + " " + CorrelationDirection(r)
}

// FindCorrelation looks up feature case-insensitively, skipping nil coefficients.
func FindCorrelation(corrs []Correlation, feature string) (float64, bool) {
	for _, c := range corrs {
		if c.Corr != nil && strings.EqualFold(c.Feature, feature) {
			return *c.Corr, true
		}
	}
	return 0, false
}

// RankCorrelations drops nil and NaN coefficients and orders the rest by |r|
// descending. The input is not modified.
func RankCorrelations(corrs []Correlation) []Correlation {
	out := make([]Correlation, 0, len(corrs))
	for _, c := range corrs {
		if c.Corr == nil || math.IsNaN(*c.Corr) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(*out[i].Corr) > math.Abs(*out[j].Corr) })
	return out
}

// SortCorrelations orders ranked correlations by "feature" or "corr". Any
// other field keeps the ranking.
func SortCorrelations(corrs []Correlation, field string, ascending bool) []Correlation {
	out := make([]Correlation, len(corrs))
	copy(out, corrs)
	var less func(a, b Correlation) bool
	switch field {
	case "feature":
		less = func(a, b Correlation) bool { return strings.ToLower(a.Feature) < strings.ToLower(b.Feature) }
	case "corr":
		less = func(a, b Correlation) bool { return corrValue(a) < corrValue(b) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func corrValue(c Correlation) float64 {
	if c.Corr == nil {
		return math.Inf(-1)
	}
	return *c.Corr
}

// Spread summarizes how far apart the group rates are.
type Spread struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Range  float64 `json:"range"`
}

// RateSpread computes mean, population standard deviation and range of rates.
func RateSpread(rows []RateRow) (Spread, bool) {
	if len(rows) == 0 {
		return Spread{}, false
	}
	data := make([]float64, 0, len(rows))
	for _, row := range rows {
		data = append(data, row.AttritionRate)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return Spread{}, false
	}
	sd, err := stats.StandardDeviation(data)
	if err != nil {
		return Spread{}, false
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	return Spread{Mean: mean, StdDev: sd, Range: hi - lo}, true
}

// HistogramTotal sums bin counts.
func HistogramTotal(bins []HistogramBin) int {
	data := make([]float64, 0, len(bins))
	for _, b := range bins {
		data = append(data, float64(b.Count))
	}
	sum, err := stats.Sum(data)
	if err != nil {
		return 0
	}
	return int(sum)
}

// CorrelationInsight classifies the configured feature's coefficient.
type CorrelationInsight struct {
	Feature string  `json:"feature"`
	R       float64 `json:"r"`
	Label   string  `json:"label"`
}

// Insights are the plain-language statements shown beside the charts.
type Insights struct {
	Department       *Extremes           `json:"department,omitempty"`
	TopRole          *RateRow            `json:"top_role,omitempty"`
	Overtime         *float64            `json:"overtime_delta,omitempty"`
	Correlation      *CorrelationInsight `json:"correlation,omitempty"`
	DepartmentSpread *Spread             `json:"department_spread,omitempty"`
}

// InsightInput carries the normalized datasets insights are derived from.
// Nil slices mean the dataset was unavailable.
type InsightInput struct {
	Departments        []RateRow
	Roles              []RateRow
	Overtime           []RateRow
	Correlations       []Correlation
	CorrelationFeature string
}

// DeriveInsights builds every insight its inputs allow. Missing inputs omit
// the corresponding insight.
func DeriveInsights(in InsightInput) Insights {
	var out Insights
	if ext, ok := FindExtremes(in.Departments); ok {
		out.Department = &ext
	}
	if top, ok := Highest(in.Roles); ok {
		out.TopRole = &top
	}
	if delta, ok := OvertimeDelta(in.Overtime); ok {
		out.Overtime = &delta
	}
	if r, ok := FindCorrelation(in.Correlations, in.CorrelationFeature); ok {
		out.Correlation = &CorrelationInsight{Feature: in.CorrelationFeature, R: r, Label: ClassifyCorrelation(r)}
	}
	if spread, ok := RateSpread(in.Departments); ok {
		out.DepartmentSpread = &spread
	}
	return out
}

// Statements renders the insights as sentences in display order.
func (in Insights) Statements() []string {
	var lines []string
	if in.Department != nil {
		lines = append(lines,
			fmt.Sprintf("Highest attrition by department: %s (%s)", in.Department.Highest.Key, FormatPercent(in.Department.Highest.AttritionRate)),
			fmt.Sprintf("Lowest attrition by department: %s (%s)", in.Department.Lowest.Key, FormatPercent(in.Department.Lowest.AttritionRate)),
		)
	}
	if in.TopRole != nil {
		lines = append(lines, fmt.Sprintf("Highest attrition by role: %s (%s)", in.TopRole.Key, FormatPercent(in.TopRole.AttritionRate)))
	}
	if in.Overtime != nil {
		lines = append(lines, fmt.Sprintf("Overtime workers leave at %s vs. non-overtime", FormatDelta(*in.Overtime)))
	}
	if in.Correlation != nil {
		lines = append(lines, fmt.Sprintf("Higher %s is associated with %s in attrition (r = %.2f)", featureName(in.Correlation.Feature), in.Correlation.Label, in.Correlation.R))
	}
	return lines
}

func featureName(feature string) string {
	return strings.ReplaceAll(feature, "_", " ")
}
