package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Scatter renders point groups on shared numeric axes.
func Scatter(width, height int, groups []PointGroup, opts ScatterOpts) (template.HTML, error) {
	var xs, ys []float64
	for _, g := range groups {
		for _, p := range g.Points {
			if finite(p.X) && finite(p.Y) {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		}
	}
	if len(xs) == 0 {
		return "", fmt.Errorf("svg: points required")
	}
	f, err := newFrame(width, height, opts.Padding, opts.AxisColor, opts.GridColor)
	if err != nil {
		return "", err
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = 2.5
	}

	xMin, xMax := bounds(xs)
	if almostEqual(xMin, xMax) {
		xMin, xMax = xMin-1, xMax+1
	}
	lo, hi := zeroBased(bounds(ys))

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "scatter", "Scatter chart", "Sample distribution")
	f.yGrid(&b, lo, hi, opts.TickCount, false)
	f.axes(&b, f.bottom())

	labels := make([]string, len(groups))
	colors := make([]string, len(groups))
	for gi, g := range groups {
		labels[gi] = fallback(g.Label, fmt.Sprintf("Group %d", gi+1))
		colors[gi] = colorAt(g.Color, gi)
		fmt.Fprintf(&b, "<g fill=\"%s\" fill-opacity=\"0.6\" aria-label=\"%s\">", colors[gi], template.HTMLEscapeString(labels[gi]))
		for _, p := range g.Points {
			if !finite(p.X) || !finite(p.Y) {
				continue
			}
			cx := f.padding + (p.X-xMin)/(xMax-xMin)*f.chartWidth
			cy := f.bottom() - (p.Y-lo)/(hi-lo)*f.chartHeight
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.1f\"></circle>", cx, cy, radius)
		}
		b.WriteString("</g>")
	}

	ticks := opts.TickCount
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", f.padding+ratio*f.chartWidth, f.bottom()+14, f.axisColor, template.HTMLEscapeString(formatTick(xMin+(xMax-xMin)*ratio, false)))
	}
	if opts.XLabel != "" {
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", f.right(), f.bottom()+26, f.axisColor, template.HTMLEscapeString(opts.XLabel))
	}
	if opts.YLabel != "" {
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", f.padding+4, f.padding-4, f.axisColor, template.HTMLEscapeString(opts.YLabel))
	}
	if len(groups) > 1 {
		f.legend(&b, labels, colors)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
