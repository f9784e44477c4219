package ui

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/internal/dashboard"
	"github.com/cinescope/hrdash/internal/dashboard/svg"
	"github.com/cinescope/hrdash/internal/upstream"
)

// Card is one headline figure.
type Card struct {
	Label string
	Value string
	Hint  string
}

// Control is the numeric input that refetches a single chart.
type Control struct {
	Param string
	Label string
	Value int
	Min   int
	Max   int
}

// Chart is one rendered dashboard slot. Error is scoped to the slot and never
// hides the rest of the page.
type Chart struct {
	Slot    string
	Title   string
	SVG     template.HTML
	Error   string
	Empty   bool
	Caption string
	Control *Control
}

// CorrelationRow is one line of the correlation table.
type CorrelationRow struct {
	Feature  string
	Corr     string
	Strength string
}

// CorrelationSort selects the correlation table order.
type CorrelationSort struct {
	Field     string
	Ascending bool
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Params       dashboard.Params
	Query        template.URL
	CycleID      string
	Cards        []Card
	SummaryLine  string
	Statements   []string
	Notes        []string
	FirstError   string
	Charts       []Chart
	Correlations []CorrelationRow
	CorrSort     CorrelationSort
	Pivot        attrition.Pivot
	Dimensions   []string
	PDFEnabled   bool
}

// ChartRenderer abstracts SVG rendering for the dashboard.
type ChartRenderer interface {
	Bars(width, height int, labels []string, series []svg.Series, opts svg.BarOpts) (template.HTML, error)
	Line(width, height int, points []svg.Point, opts svg.LineOpts) (template.HTML, error)
	Scatter(width, height int, groups []svg.PointGroup, opts svg.ScatterOpts) (template.HTML, error)
	Pie(width, height int, slices []svg.Slice, opts svg.PieOpts) (template.HTML, error)
	Radar(width, height int, axes []string, series []svg.Series, opts svg.RadarOpts) (template.HTML, error)
}

// ParseCorrelationSort reads corr_sort and corr_dir. Unknown fields keep the
// |r| ranking.
func ParseCorrelationSort(q url.Values) CorrelationSort {
	field := strings.ToLower(strings.TrimSpace(q.Get("corr_sort")))
	if field != "feature" && field != "corr" {
		field = ""
	}
	return CorrelationSort{Field: field, Ascending: strings.EqualFold(q.Get("corr_dir"), "asc")}
}

// ToCorrelationRows formats correlations in the requested order.
func ToCorrelationRows(corrs []attrition.Correlation, sort CorrelationSort) []CorrelationRow {
	sorted := attrition.SortCorrelations(corrs, sort.Field, sort.Ascending)
	rows := make([]CorrelationRow, 0, len(sorted))
	for _, c := range sorted {
		if c.Corr == nil {
			continue
		}
		rows = append(rows, CorrelationRow{
			Feature:  c.Feature,
			Corr:     attrition.FormatCorrelation(*c.Corr),
			Strength: attrition.ClassifyCorrelation(*c.Corr),
		})
	}
	return rows
}

// ToCards converts the summary into headline cards.
func ToCards(d *dashboard.Dashboard) []Card {
	if d == nil || d.Summary == nil {
		return nil
	}
	s := *d.Summary
	cards := []Card{
		{Label: "Employees", Value: attrition.FormatCount(s.Total)},
		{Label: "Left", Value: attrition.FormatCount(s.Left)},
		{Label: "Attrition rate", Value: attrition.FormatPercent(s.Rate())},
	}
	if d.Insights.Overtime != nil {
		cards = append(cards, Card{Label: "Overtime gap", Value: attrition.FormatDelta(*d.Insights.Overtime), Hint: "overtime vs. non-overtime"})
	}
	return cards
}

// Build converts a dashboard into template data.
func Build(d *dashboard.Dashboard, r ChartRenderer, sort CorrelationSort) DashboardViewModel {
	vm := DashboardViewModel{CorrSort: sort, Dimensions: upstream.Dimensions}
	if d == nil {
		return vm
	}
	vm.Params = d.Params
	vm.Query = template.URL(d.Params.Query().Encode())
	vm.CycleID = d.CycleID
	vm.Cards = ToCards(d)
	vm.SummaryLine = d.SummaryLine
	vm.Statements = d.Statements
	vm.Notes = d.Notes
	vm.FirstError = d.FirstError
	vm.Pivot = d.DepartmentOvertime
	vm.Correlations = ToCorrelationRows(d.Correlations, sort)
	for _, slot := range ChartSlots {
		vm.Charts = append(vm.Charts, BuildChart(d, slot, r))
	}
	return vm
}
