package dashboard

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/cinescope/hrdash/internal/attrition"
)

// ScatterSplit separates samples by outcome.
type ScatterSplit struct {
	Left   []attrition.ScatterPoint `json:"left"`
	Stayed []attrition.ScatterPoint `json:"stayed"`
}

// SplitScatter partitions points on the binary left flag, preserving order.
func SplitScatter(points []attrition.ScatterPoint) ScatterSplit {
	split := ScatterSplit{Left: []attrition.ScatterPoint{}, Stayed: []attrition.ScatterPoint{}}
	for _, p := range points {
		if p.Left == 1 {
			split.Left = append(split.Left, p)
		} else {
			split.Stayed = append(split.Stayed, p)
		}
	}
	return split
}

// Total counts all samples.
func (s ScatterSplit) Total() int {
	return len(s.Left) + len(s.Stayed)
}

// Dashboard is the display-ready result of a load cycle. Slices are replaced
// wholesale, never mutated after assembly.
type Dashboard struct {
	CycleID            string                         `json:"cycle_id"`
	Params             Params                         `json:"params"`
	Summary            *attrition.Summary             `json:"summary,omitempty"`
	SummaryLine        string                         `json:"summary_line,omitempty"`
	ByDepartment       []attrition.RateRow            `json:"by_department"`
	ByJobRole          []attrition.RateRow            `json:"by_job_role"`
	ByOverTime         []attrition.RateRow            `json:"by_over_time"`
	AgeHistogram       []attrition.HistogramBin       `json:"age_histogram"`
	IncomeHistogram    []attrition.HistogramBin       `json:"income_histogram"`
	TenureCurve        []attrition.OrdinalSeriesPoint `json:"tenure_curve"`
	DepartmentOvertime attrition.Pivot                `json:"department_overtime"`
	Correlations       []attrition.Correlation        `json:"correlations"`
	IncomeByRole       []attrition.StackedRange       `json:"income_by_role"`
	Scatter            ScatterSplit                   `json:"age_income_scatter"`
	Radar              []attrition.RadarRecord        `json:"satisfaction_radar"`
	Gender             []attrition.GenderSlice        `json:"gender_split"`
	MinIncomeCurve     []attrition.OrdinalSeriesPoint `json:"attrition_vs_min_income"`
	EmployeeIndex      []attrition.OrdinalSeriesPoint `json:"attrition_by_employee_index"`
	Insights           attrition.Insights             `json:"insights"`
	Statements         []string                       `json:"statements,omitempty"`
	Errors             map[string]string              `json:"errors,omitempty"`
	FirstError         string                         `json:"first_error,omitempty"`
	Notes              []string                       `json:"notes,omitempty"`
}

// Err returns the slot-scoped error message of a dataset.
func (d *Dashboard) Err(name string) string {
	if d == nil {
		return ""
	}
	return d.Errors[name]
}

// Empty reports whether no dataset loaded at all.
func (d *Dashboard) Empty() bool {
	return d == nil || len(d.Errors) == len(datasetOrder)
}

// Assemble reshapes a bundle into a Dashboard. Missing datasets leave their
// slot empty and record the error; nothing here fails.
func Assemble(b *Bundle, p Params, correlationFeature string, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{Params: p, Errors: map[string]string{}}
	if b == nil {
		return d
	}
	d.CycleID = b.CycleID.String()
	logger = logger.With(slog.String("cycle_id", d.CycleID))

	for _, o := range b.Outcomes {
		d.apply(o, logger)
	}
	if err := b.FirstError(); err != nil {
		d.FirstError = err.Error()
	}

	d.Insights = attrition.DeriveInsights(attrition.InsightInput{
		Departments:        d.ByDepartment,
		Roles:              d.ByJobRole,
		Overtime:           d.ByOverTime,
		Correlations:       d.Correlations,
		CorrelationFeature: correlationFeature,
	})
	d.Statements = d.Insights.Statements()
	return d
}

// WithRefetch returns a copy of d with one slot replaced by o. The initial
// load's FirstError is left untouched; the slot carries its own error.
func (d *Dashboard) WithRefetch(o Outcome, p Params, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	next := d.clone()
	next.Params = p
	delete(next.Errors, o.Name)
	prefix := slotNotePrefix(o.Name)
	next.Notes = slices.DeleteFunc(next.Notes, func(n string) bool {
		return strings.HasPrefix(n, prefix)
	})
	next.apply(o, logger)
	return next
}

func (d *Dashboard) clone() *Dashboard {
	if d == nil {
		return &Dashboard{Errors: map[string]string{}}
	}
	next := *d
	next.Errors = maps.Clone(d.Errors)
	if next.Errors == nil {
		next.Errors = map[string]string{}
	}
	next.Notes = append([]string(nil), d.Notes...)
	return &next
}

func (d *Dashboard) apply(o Outcome, logger *slog.Logger) {
	if o.Unrecognized > 0 {
		d.Notes = append(d.Notes, fmt.Sprintf("%s%d rows in an unrecognized shape were shown as %s", slotNotePrefix(o.Name), o.Unrecognized, attrition.Unknown))
	}
	if o.Err != nil {
		d.Errors[o.Name] = o.Err.Error()
		d.clearSlot(o.Name)
		return
	}
	switch o.Name {
	case DatasetSummary:
		if s, ok := o.Value.(attrition.Summary); ok {
			d.Summary = &s
			d.SummaryLine = attrition.SummaryLine(s)
		}
	case DatasetByDepartment:
		d.ByDepartment, _ = o.Value.([]attrition.RateRow)
	case DatasetByJobRole:
		d.ByJobRole, _ = o.Value.([]attrition.RateRow)
	case DatasetByOverTime:
		d.ByOverTime, _ = o.Value.([]attrition.RateRow)
	case DatasetAgeHistogram:
		d.AgeHistogram, _ = o.Value.([]attrition.HistogramBin)
	case DatasetIncomeHistogram:
		d.IncomeHistogram, _ = o.Value.([]attrition.HistogramBin)
	case DatasetTenureCurve:
		d.TenureCurve, _ = o.Value.([]attrition.OrdinalSeriesPoint)
	case DatasetDepartmentOvertime:
		rows, _ := o.Value.([]attrition.TwoKeyRateRow)
		d.DepartmentOvertime = attrition.PivotTwoKey(rows)
	case DatasetCorrelations:
		corrs, _ := o.Value.([]attrition.Correlation)
		d.Correlations = attrition.RankCorrelations(corrs)
	case DatasetIncomeByRole:
		qs, _ := o.Value.([]attrition.QuantileSummary)
		for _, q := range qs {
			if err := q.Validate(); err != nil {
				logger.Warn("quantile summary clamped", slog.String("category", q.Category), slog.Any("error", err))
				d.Notes = append(d.Notes, fmt.Sprintf("Income range for %s was adjusted: quantiles out of order", q.Category))
			}
		}
		d.IncomeByRole = attrition.StackedRanges(qs)
	case DatasetAgeIncomeScatter:
		points, _ := o.Value.([]attrition.ScatterPoint)
		d.Scatter = SplitScatter(points)
	case DatasetSatisfactionRadar:
		d.Radar, _ = o.Value.([]attrition.RadarRecord)
	case DatasetGenderSplit:
		d.Gender, _ = o.Value.([]attrition.GenderSlice)
	case DatasetMinIncomeCurve:
		d.MinIncomeCurve, _ = o.Value.([]attrition.OrdinalSeriesPoint)
	case DatasetEmployeeIndex:
		d.EmployeeIndex, _ = o.Value.([]attrition.OrdinalSeriesPoint)
	}
}

func slotNotePrefix(name string) string {
	return name + ": "
}

func (d *Dashboard) clearSlot(name string) {
	switch name {
	case DatasetSummary:
		d.Summary, d.SummaryLine = nil, ""
	case DatasetAgeHistogram:
		d.AgeHistogram = nil
	case DatasetIncomeHistogram:
		d.IncomeHistogram = nil
	case DatasetAgeIncomeScatter:
		d.Scatter = ScatterSplit{}
	}
}
