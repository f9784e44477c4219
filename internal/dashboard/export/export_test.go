package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cinescope/hrdash/internal/attrition"
	"github.com/cinescope/hrdash/internal/dashboard"
)

func sampleDashboard() *dashboard.Dashboard {
	r := 0.22
	return &dashboard.Dashboard{
		CycleID:      "cycle-1",
		Params:       dashboard.DefaultParams(),
		Summary:      &attrition.Summary{Total: 1470, Left: 237},
		SummaryLine:  "Total: 1,470 · Left: 237 · Attrition rate: 16.1%",
		ByDepartment: []attrition.RateRow{{Key: "Sales", N: 446, AttritionRate: 0.2063}},
		DepartmentOvertime: attrition.PivotTwoKey([]attrition.TwoKeyRateRow{
			{K1: "Sales", K2: "Yes", AttritionRate: 0.3},
			{K1: "R&D", K2: "No", AttritionRate: 0.1},
		}),
		Correlations: []attrition.Correlation{{Feature: "monthly_income", Corr: &r}, {Feature: "daily_rate"}},
		IncomeByRole: attrition.StackedRanges([]attrition.QuantileSummary{{Category: "Manager", Min: 11000, Q1: 13000, Median: 17000, Q3: 19000, Max: 20000}}),
		Scatter:      dashboard.SplitScatter([]attrition.ScatterPoint{{Age: 30, Income: 5000, Left: 1}}),
		Statements:   []string{"Highest attrition by department: Sales (20.6%)"},
		Errors:       map[string]string{dashboard.DatasetGenderSplit: "HTTP 502 @ http://api/api/pie/gender\n<b>bad</b>"},
	}
}

func TestTables(t *testing.T) {
	tables := Tables(sampleDashboard())
	names := make([]string, len(tables))
	for i, tb := range tables {
		names[i] = tb.Name
	}
	want := []string{"summary", "by_department", "department_overtime", "correlations", "income_by_role", "age_income_scatter", "errors"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected tables %v", names)
	}
	pivot := tables[2]
	if len(pivot.Header) != 3 || pivot.Rows[1][1] != 0.0 {
		t.Fatalf("expected defaulted pivot cell, got %v / %v", pivot.Header, pivot.Rows)
	}
	income := tables[4].Rows[0]
	if income[2] != 13000.0 || income[5] != 20000.0 {
		t.Fatalf("expected quantiles restored from segments, got %v", income)
	}
	if len(tables[3].Rows) != 1 {
		t.Fatalf("expected null correlation dropped")
	}
	if Tables(nil) != nil {
		t.Fatalf("expected no tables for nil dashboard")
	}
}

func TestWriteDashboardCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDashboardCSV(buf, sampleDashboard()); err != nil {
		t.Fatalf("csv error: %v", err)
	}
	sections := strings.Split(buf.String(), "\n\n")
	if len(sections) != 7 {
		t.Fatalf("expected seven sections, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[0], "# Summary\n") {
		t.Fatalf("expected titled section, got %q", sections[0])
	}
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(sections[0], "# Summary\n")))
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 4 || records[1][1] != "1470" {
		t.Fatalf("unexpected summary records %v", records)
	}
}

func TestWriteDashboardXLSX(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDashboardXLSX(buf, sampleDashboard()); err != nil {
		t.Fatalf("xlsx error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()
	sheets := f.GetSheetList()
	if len(sheets) != 7 || sheets[0] != "summary" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	v, err := f.GetCellValue("by_department", "A2")
	if err != nil || v != "Sales" {
		t.Fatalf("unexpected cell %q (%v)", v, err)
	}
}

type stubRenderer struct {
	html string
	err  error
}

func (s *stubRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("PDF"), nil
}

func TestPDFExporterRender(t *testing.T) {
	renderer := &stubRenderer{}
	exporter := &PDFExporter{Renderer: renderer}
	data, err := exporter.RenderDashboard(context.Background(), DashboardPayload{
		Dashboard:   sampleDashboard(),
		Figures:     []Figure{{Title: "Attrition", SVG: "<svg></svg>"}},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("pdf render error: %v", err)
	}
	if string(data) != "PDF" {
		t.Fatalf("unexpected payload %q", data)
	}
	for _, want := range []string{"02 Jan 2026 03:04 UTC", "<svg></svg>", "Highest attrition by department", "R&amp;D", "0.2063"} {
		if !strings.Contains(renderer.html, want) {
			t.Fatalf("expected %q in report html", want)
		}
	}
	if strings.Contains(renderer.html, "<b>bad</b>") {
		t.Fatalf("expected upstream error text escaped")
	}
	if strings.Contains(renderer.html, "Age vs. monthly income") {
		t.Fatalf("expected scatter samples omitted")
	}

	renderer.err = errors.New("boom")
	if _, err := exporter.RenderDashboard(context.Background(), DashboardPayload{}); err == nil {
		t.Fatalf("expected renderer error")
	}
	if _, err := (&PDFExporter{}).RenderDashboard(context.Background(), DashboardPayload{}); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}
