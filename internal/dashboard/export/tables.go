package export

import (
	"math"
	"strconv"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/internal/dashboard"
)

// Table is one dataset laid out as header and rows. Cells are string, int or
// float64 so spreadsheet exports keep numbers numeric.
type Table struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]any
}

// Tables flattens every loaded dataset of d in page order. Datasets that
// failed are reported in a trailing "errors" table.
func Tables(d *dashboard.Dashboard) []Table {
	if d == nil {
		return nil
	}
	var out []Table
	add := func(t Table) {
		if len(t.Rows) > 0 {
			out = append(out, t)
		}
	}

	if d.Summary != nil {
		add(Table{Name: dashboard.DatasetSummary, Title: "Summary", Header: []string{"Metric", "Value"}, Rows: [][]any{
			{"Employees", d.Summary.Total},
			{"Left", d.Summary.Left},
			{"Attrition rate", d.Summary.Rate()},
		}})
	}
	add(rateTable(dashboard.DatasetByDepartment, "Attrition by department", "Department", d.ByDepartment))
	add(rateTable(dashboard.DatasetByJobRole, "Attrition by job role", "Job role", d.ByJobRole))
	add(rateTable(dashboard.DatasetByOverTime, "Attrition by overtime", "Overtime", d.ByOverTime))
	add(pivotTable(d.DepartmentOvertime))
	add(histogramTable(dashboard.DatasetAgeHistogram, "Age distribution", d.AgeHistogram))
	add(histogramTable(dashboard.DatasetIncomeHistogram, "Monthly income distribution", d.IncomeHistogram))
	add(ordinalTable(dashboard.DatasetTenureCurve, "Attrition by years at company", "Years at company", "Attrition rate", d.TenureCurve))
	add(correlationTable(d.Correlations))
	add(rangeTable(d.IncomeByRole))
	add(scatterTable(d.Scatter))
	add(radarTable(d.Radar))
	add(genderTable(d.Gender))
	add(ordinalTable(dashboard.DatasetMinIncomeCurve, "Attrition vs. minimum income", "Minimum income", "Attrition rate", d.MinIncomeCurve))
	add(ordinalTable(dashboard.DatasetEmployeeIndex, "Attrition by employee index", "Index", "Left", d.EmployeeIndex))

	errs := Table{Name: "errors", Title: "Failed datasets", Header: []string{"Dataset", "Error"}}
	for _, name := range dashboard.DatasetNames() {
		if msg := d.Err(name); msg != "" {
			errs.Rows = append(errs.Rows, []any{name, msg})
		}
	}
	add(errs)
	return out
}

func rateTable(name, title, keyHeader string, rows []attrition.RateRow) Table {
	t := Table{Name: name, Title: title, Header: []string{keyHeader, "Employees", "Attrition rate"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Key, r.N, r.AttritionRate})
	}
	return t
}

func pivotTable(p attrition.Pivot) Table {
	t := Table{Name: dashboard.DatasetDepartmentOvertime, Title: "Attrition by department and overtime", Header: append([]string{"Dimension"}, p.Columns...)}
	for _, row := range p.Rows {
		cells := []any{row.Dimension}
		for _, col := range p.Columns {
			cells = append(cells, row.Value(col))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func histogramTable(name, title string, bins []attrition.HistogramBin) Table {
	t := Table{Name: name, Title: title, Header: []string{"Bucket", "Employees", "Attrition rate"}}
	for _, b := range bins {
		rate := any("")
		if b.AttritionRate != nil {
			rate = *b.AttritionRate
		}
		t.Rows = append(t.Rows, []any{string(b.Bucket), b.Count, rate})
	}
	return t
}

func ordinalTable(name, title, xHeader, yHeader string, points []attrition.OrdinalSeriesPoint) Table {
	t := Table{Name: name, Title: title, Header: []string{"Label", xHeader, yHeader}}
	for _, p := range points {
		t.Rows = append(t.Rows, []any{p.Label, p.X, p.Y})
	}
	return t
}

func correlationTable(corrs []attrition.Correlation) Table {
	t := Table{Name: dashboard.DatasetCorrelations, Title: "Correlation with attrition", Header: []string{"Feature", "r", "Strength"}}
	for _, c := range attrition.RankCorrelations(corrs) {
		t.Rows = append(t.Rows, []any{c.Feature, *c.Corr, attrition.ClassifyCorrelation(*c.Corr)})
	}
	return t
}

func rangeTable(ranges []attrition.StackedRange) Table {
	t := Table{Name: dashboard.DatasetIncomeByRole, Title: "Monthly income range by role", Header: []string{"Job role", "Min", "Q1", "Median", "Q3", "Max", "Adjusted"}}
	for _, r := range ranges {
		// Segments are cumulative offsets; the table shows the quantiles themselves.
		q1 := r.Min + r.Q1
		median := q1 + r.Median
		q3 := median + r.Q3
		t.Rows = append(t.Rows, []any{r.Category, r.Min, q1, median, q3, r.Total(), strconv.FormatBool(r.Clamped)})
	}
	return t
}

func scatterTable(split dashboard.ScatterSplit) Table {
	t := Table{Name: dashboard.DatasetAgeIncomeScatter, Title: "Age vs. monthly income", Header: []string{"Age", "Monthly income", "Left"}}
	for _, group := range [][]attrition.ScatterPoint{split.Left, split.Stayed} {
		for _, p := range group {
			t.Rows = append(t.Rows, []any{p.Age, p.Income, p.Left})
		}
	}
	return t
}

func radarTable(records []attrition.RadarRecord) Table {
	t := Table{Name: dashboard.DatasetSatisfactionRadar, Title: "Satisfaction by group", Header: append([]string{"Group"}, attrition.SatisfactionAxes...)}
	for _, rec := range records {
		cells := []any{rec.Group}
		for _, axis := range attrition.SatisfactionAxes {
			cells = append(cells, rec.Axes[axis])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func genderTable(slices []attrition.GenderSlice) Table {
	t := Table{Name: dashboard.DatasetGenderSplit, Title: "Gender split", Header: []string{"Gender", "Employees"}}
	for _, s := range slices {
		t.Rows = append(t.Rows, []any{s.Gender, s.Count})
	}
	return t
}

func formatCell(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// PrintCell renders a cell for people, rounding floats to four decimals.
func PrintCell(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
	}
	return formatCell(v)
}
