package ui

import (
	"errors"
	"html/template"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/internal/dashboard/svg"
)

// ChartSlots lists the rendered charts in page order. The summary is shown as
// cards and the correlations as a table, both outside this list.
var ChartSlots = []string{
	dashboard.DatasetByDepartment,
	dashboard.DatasetByJobRole,
	dashboard.DatasetByOverTime,
	dashboard.DatasetDepartmentOvertime,
	dashboard.DatasetAgeHistogram,
	dashboard.DatasetIncomeHistogram,
	dashboard.DatasetTenureCurve,
	dashboard.DatasetIncomeByRole,
	dashboard.DatasetAgeIncomeScatter,
	dashboard.DatasetSatisfactionRadar,
	dashboard.DatasetGenderSplit,
	dashboard.DatasetMinIncomeCurve,
	dashboard.DatasetEmployeeIndex,
	dashboard.DatasetCorrelations,
}

var titles = map[string]string{
	dashboard.DatasetByDepartment:       "Attrition by department",
	dashboard.DatasetByJobRole:          "Attrition by job role",
	dashboard.DatasetByOverTime:         "Attrition by overtime",
	dashboard.DatasetDepartmentOvertime: "Attrition by department and overtime",
	dashboard.DatasetAgeHistogram:       "Age distribution",
	dashboard.DatasetIncomeHistogram:    "Monthly income distribution",
	dashboard.DatasetTenureCurve:        "Attrition by years at company",
	dashboard.DatasetIncomeByRole:       "Monthly income range by role",
	dashboard.DatasetAgeIncomeScatter:   "Age vs. monthly income",
	dashboard.DatasetSatisfactionRadar:  "Satisfaction by group",
	dashboard.DatasetGenderSplit:        "Gender split",
	dashboard.DatasetMinIncomeCurve:     "Attrition vs. minimum income",
	dashboard.DatasetEmployeeIndex:      "Attrition by employee index",
	dashboard.DatasetCorrelations:       "Correlation with attrition",
}

// Title returns the display title of a slot.
func Title(slot string) string {
	if t, ok := titles[slot]; ok {
		return t
	}
	return slot
}

var errNoData = errors.New("no data")

const (
	chartWidth  = 560
	chartHeight = 260
)

// BuildChart renders one slot. A fetch failure shows the slot's error; a
// rendering failure or missing data marks the chart empty.
func BuildChart(d *dashboard.Dashboard, slot string, r ChartRenderer) Chart {
	c := Chart{Slot: slot, Title: Title(slot), Control: control(d, slot)}
	if msg := d.Err(slot); msg != "" {
		c.Error = msg
		return c
	}
	if d == nil || r == nil {
		c.Empty = true
		return c
	}
	html, err := render(d, slot, r)
	if err != nil {
		c.Empty = true
		return c
	}
	c.SVG = html
	c.Caption = caption(d, slot)
	return c
}

func caption(d *dashboard.Dashboard, slot string) string {
	var bins []attrition.HistogramBin
	switch slot {
	case dashboard.DatasetAgeHistogram:
		bins = d.AgeHistogram
	case dashboard.DatasetIncomeHistogram:
		bins = d.IncomeHistogram
	default:
		return ""
	}
	return attrition.FormatCount(attrition.HistogramTotal(bins)) + " employees"
}

func control(d *dashboard.Dashboard, slot string) *Control {
	var p dashboard.Params
	if d != nil {
		p = d.Params
	} else {
		p = dashboard.DefaultParams()
	}
	switch slot {
	case dashboard.DatasetAgeHistogram:
		return &Control{Param: "age_buckets", Label: "Buckets", Value: p.AgeBuckets, Min: 1, Max: 100}
	case dashboard.DatasetIncomeHistogram:
		return &Control{Param: "income_buckets", Label: "Buckets", Value: p.IncomeBuckets, Min: 1, Max: 100}
	case dashboard.DatasetAgeIncomeScatter:
		return &Control{Param: "scatter_limit", Label: "Sample size", Value: p.ScatterLimit, Min: 1, Max: 5000}
	}
	return nil
}

func render(d *dashboard.Dashboard, slot string, r ChartRenderer) (template.HTML, error) {
	title := Title(slot)
	switch slot {
	case dashboard.DatasetByDepartment:
		return rateBars(r, title, d.ByDepartment)
	case dashboard.DatasetByJobRole:
		return rateBars(r, title, d.ByJobRole)
	case dashboard.DatasetByOverTime:
		return rateBars(r, title, d.ByOverTime)
	case dashboard.DatasetDepartmentOvertime:
		return pivotBars(r, title, d.DepartmentOvertime)
	case dashboard.DatasetAgeHistogram:
		return histogramBars(r, title, d.AgeHistogram)
	case dashboard.DatasetIncomeHistogram:
		return histogramBars(r, title, d.IncomeHistogram)
	case dashboard.DatasetTenureCurve:
		return ordinalLine(r, title, d.TenureCurve, "Years at company", true)
	case dashboard.DatasetMinIncomeCurve:
		return ordinalLine(r, title, d.MinIncomeCurve, "Minimum monthly income", false)
	case dashboard.DatasetEmployeeIndex:
		return ordinalLine(r, title, d.EmployeeIndex, "Employee index", true)
	case dashboard.DatasetIncomeByRole:
		return rangeBars(r, title, d.IncomeByRole)
	case dashboard.DatasetAgeIncomeScatter:
		return scatter(r, title, d.Scatter)
	case dashboard.DatasetSatisfactionRadar:
		return radar(r, title, d.Radar)
	case dashboard.DatasetGenderSplit:
		return pie(r, title, d.Gender)
	case dashboard.DatasetCorrelations:
		return correlationBars(r, title, d.Correlations)
	}
	return "", errNoData
}

func rateBars(r ChartRenderer, title string, rows []attrition.RateRow) (template.HTML, error) {
	if len(rows) == 0 {
		return "", errNoData
	}
	sorted := attrition.SortByRateDesc(rows)
	labels := make([]string, len(sorted))
	values := make([]float64, len(sorted))
	for i, row := range sorted {
		labels[i] = row.Key
		values[i] = row.AttritionRate
	}
	return r.Bars(chartWidth, chartHeight, labels, []svg.Series{{Label: "Attrition rate", Values: values}}, svg.BarOpts{Title: title, Percent: true})
}

func pivotBars(r ChartRenderer, title string, p attrition.Pivot) (template.HTML, error) {
	if p.Empty() {
		return "", errNoData
	}
	labels := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		labels[i] = row.Dimension
	}
	series := make([]svg.Series, len(p.Columns))
	for ci, col := range p.Columns {
		values := make([]float64, len(p.Rows))
		for ri, row := range p.Rows {
			values[ri] = row.Value(col)
		}
		series[ci] = svg.Series{Label: col, Values: values}
	}
	return r.Bars(chartWidth, chartHeight, labels, series, svg.BarOpts{Title: title, Percent: true})
}

func histogramBars(r ChartRenderer, title string, bins []attrition.HistogramBin) (template.HTML, error) {
	if len(bins) == 0 {
		return "", errNoData
	}
	labels := make([]string, len(bins))
	values := make([]float64, len(bins))
	for i, bin := range bins {
		labels[i] = string(bin.Bucket)
		values[i] = float64(bin.Count)
	}
	return r.Bars(chartWidth, chartHeight, labels, []svg.Series{{Label: "Employees", Values: values}}, svg.BarOpts{Title: title})
}

func ordinalLine(r ChartRenderer, title string, points []attrition.OrdinalSeriesPoint, xLabel string, percent bool) (template.HTML, error) {
	if len(points) == 0 {
		return "", errNoData
	}
	pts := make([]svg.Point, len(points))
	for i, p := range points {
		pts[i] = svg.Point{X: p.X, Y: p.Y}
	}
	return r.Line(chartWidth, chartHeight, pts, svg.LineOpts{Title: title, Percent: percent, XLabel: xLabel, FillColor: "rgba(37,99,235,0.12)", ShowDots: len(pts) <= 60})
}

func rangeBars(r ChartRenderer, title string, ranges []attrition.StackedRange) (template.HTML, error) {
	if len(ranges) == 0 {
		return "", errNoData
	}
	labels := make([]string, len(ranges))
	names := []string{"Min", "Q1", "Median", "Q3", "Max"}
	colors := []string{"transparent", "#bae6fd", "#38bdf8", "#0284c7", "#075985"}
	series := make([]svg.Series, len(names))
	for i := range series {
		series[i] = svg.Series{Label: names[i], Color: colors[i], Values: make([]float64, len(ranges))}
	}
	for ri, rg := range ranges {
		labels[ri] = rg.Category
		for si, seg := range rg.Segments() {
			series[si].Values[ri] = seg
		}
	}
	return r.Bars(chartWidth, chartHeight, labels, series, svg.BarOpts{Title: title, Stacked: true})
}

func scatter(r ChartRenderer, title string, split dashboard.ScatterSplit) (template.HTML, error) {
	if split.Total() == 0 {
		return "", errNoData
	}
	toPoints := func(in []attrition.ScatterPoint) []svg.Point {
		out := make([]svg.Point, len(in))
		for i, p := range in {
			out[i] = svg.Point{X: p.Age, Y: p.Income}
		}
		return out
	}
	return r.Scatter(chartWidth, chartHeight, []svg.PointGroup{
		{Label: "Left", Color: "#ef4444", Points: toPoints(split.Left)},
		{Label: "Stayed", Color: "#0ea5e9", Points: toPoints(split.Stayed)},
	}, svg.ScatterOpts{Title: title, XLabel: "Age", YLabel: "Monthly income"})
}

func radar(r ChartRenderer, title string, records []attrition.RadarRecord) (template.HTML, error) {
	if len(records) == 0 {
		return "", errNoData
	}
	series := make([]svg.Series, len(records))
	for i, rec := range records {
		values := make([]float64, len(attrition.SatisfactionAxes))
		for ai, axis := range attrition.SatisfactionAxes {
			values[ai] = rec.Axes[axis]
		}
		series[i] = svg.Series{Label: rec.Group, Values: values}
	}
	return r.Radar(chartHeight+80, chartHeight+40, attrition.SatisfactionAxes, series, svg.RadarOpts{Title: title, Max: 4, Legend: true})
}

func pie(r ChartRenderer, title string, slices []attrition.GenderSlice) (template.HTML, error) {
	if len(slices) == 0 {
		return "", errNoData
	}
	out := make([]svg.Slice, len(slices))
	for i, s := range slices {
		out[i] = svg.Slice{Label: s.Gender, Value: float64(s.Count)}
	}
	return r.Pie(chartWidth, chartHeight, out, svg.PieOpts{Title: title, InnerRatio: 0.45})
}

func correlationBars(r ChartRenderer, title string, corrs []attrition.Correlation) (template.HTML, error) {
	ranked := attrition.RankCorrelations(corrs)
	if len(ranked) == 0 {
		return "", errNoData
	}
	labels := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, c := range ranked {
		labels[i] = c.Feature
		values[i] = *c.Corr
	}
	return r.Bars(chartWidth, chartHeight, labels, []svg.Series{{Label: "r", Values: values, Color: "#a855f7"}}, svg.BarOpts{Title: title})
}
