package export

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/cinescope/hrdash/internal/dashboard"
)

// Figure is a pre-rendered chart embedded in the PDF.
type Figure struct {
	Title string
	SVG   template.HTML
}

// DashboardPayload aggregates dashboard data destined for PDF rendering.
type DashboardPayload struct {
	Dashboard   *dashboard.Dashboard
	Figures     []Figure
	GeneratedAt time.Time
}

// HTMLRenderer converts an HTML document into PDF bytes.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter renders the dashboard report through an HTML-to-PDF service.
type PDFExporter struct {
	Renderer HTMLRenderer
}

var errNoRenderer = errors.New("pdf exporter not configured")

// RenderDashboard builds the report document and returns the PDF bytes.
func (p *PDFExporter) RenderDashboard(ctx context.Context, payload DashboardPayload) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, errNoRenderer
	}
	html, err := BuildHTML(payload)
	if err != nil {
		return nil, err
	}
	return p.Renderer.RenderHTML(ctx, html)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>HR attrition report</title><style>
body{font-family:sans-serif;margin:24px;color:#0f172a}h1{font-size:20px}h2{font-size:15px;margin-top:20px}
table{width:100%;border-collapse:collapse;margin-bottom:16px;font-size:11px}th,td{border:1px solid #ddd;padding:4px 6px;text-align:right}
th{background:#f5f5f5}td:first-child,th:first-child{text-align:left}.error{color:#b91c1c;white-space:pre-wrap}
figure{margin:0 0 16px;page-break-inside:avoid}figcaption{font-weight:bold;font-size:12px}
</style></head><body>
<h1>HR attrition report</h1>
<p>Generated {{.GeneratedAt.Format "02 Jan 2006 15:04 MST"}}{{with .Dashboard}}{{if .CycleID}} · cycle {{.CycleID}}{{end}}{{end}}</p>
{{with .Dashboard}}
{{if .SummaryLine}}<p><strong>{{.SummaryLine}}</strong></p>{{end}}
{{if .FirstError}}<p class="error">{{.FirstError}}</p>{{end}}
{{if .Statements}}<ul>{{range .Statements}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Notes}}<ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{end}}
{{range .Figures}}<figure><figcaption>{{.Title}}</figcaption>{{.SVG}}</figure>{{end}}
{{range .Tables}}<h2>{{.Title}}</h2><table><thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</tbody></table>{{end}}
</body></html>`))

type reportData struct {
	DashboardPayload
	Tables []textTable
}

type textTable struct {
	Title  string
	Header []string
	Rows   [][]string
}

// BuildHTML renders the printable report document.
func BuildHTML(payload DashboardPayload) (string, error) {
	if payload.GeneratedAt.IsZero() {
		payload.GeneratedAt = time.Now()
	}
	data := reportData{DashboardPayload: payload}
	for _, t := range Tables(payload.Dashboard) {
		// Scatter samples are too long to print.
		if t.Name == dashboard.DatasetAgeIncomeScatter {
			continue
		}
		tt := textTable{Title: t.Title, Header: t.Header}
		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = PrintCell(cell)
			}
			tt.Rows = append(tt.Rows, cells)
		}
		data.Tables = append(data.Tables, tt)
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
