package svg

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// Line renders a line chart over numeric x positions. Points are drawn in
// ascending x order; set FillColor for an area chart.
func Line(width, height int, points []Point, opts LineOpts) (template.HTML, error) {
	pts := make([]Point, 0, len(points))
	for _, p := range points {
		if finite(p.X) && finite(p.Y) {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	f, err := newFrame(width, height, opts.Padding, opts.AxisColor, opts.GridColor)
	if err != nil {
		return "", err
	}
	strokeColor := fallback(opts.StrokeColor, "#2563eb")

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	xMin, xMax := bounds(xs)
	lo, hi := zeroBased(bounds(ys))
	yScale := f.chartHeight / (hi - lo)

	xPos := func(x float64) float64 {
		if almostEqual(xMax, xMin) {
			return f.padding + f.chartWidth/2
		}
		return f.padding + (x-xMin)/(xMax-xMin)*f.chartWidth
	}
	yPos := func(y float64) float64 { return f.bottom() - (y-lo)*yScale }

	var path strings.Builder
	for i, p := range pts {
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.2f %.2f", cmd, xPos(p.X), yPos(p.Y))
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "line", "Line chart", "Trend data")
	f.yGrid(&b, lo, hi, opts.TickCount, opts.Percent)
	f.axes(&b, f.bottom())

	if opts.FillColor != "" {
		area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path.String(), xPos(xMax), f.bottom(), xPos(xMin), f.bottom())
		fmt.Fprintf(&b, "<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, opts.FillColor)
	}
	fmt.Fprintf(&b, "<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>", path.String(), strokeColor)

	if opts.ShowDots {
		for _, p := range pts {
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", xPos(p.X), yPos(p.Y), strokeColor)
		}
	}

	ticks := opts.TickCount
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	if almostEqual(xMax, xMin) {
		ticks = 0
	}
	for i := 0; i <= ticks; i++ {
		x := xMin
		if ticks > 0 {
			x += (xMax - xMin) * float64(i) / float64(ticks)
		}
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", xPos(x), f.bottom()+14, f.axisColor, template.HTMLEscapeString(formatTick(x, false)))
	}
	if opts.XLabel != "" {
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", f.right(), f.bottom()+26, f.axisColor, template.HTMLEscapeString(opts.XLabel))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
