package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Radar renders one polygon per series over the named axes.
func Radar(width, height int, axes []string, series []Series, opts RadarOpts) (template.HTML, error) {
	if len(axes) < 3 {
		return "", fmt.Errorf("svg: radar needs at least three axes")
	}
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	maxVal := opts.Max
	for _, s := range series {
		if len(s.Values) != len(axes) {
			return "", fmt.Errorf("svg: series %q length must match axes", s.Label)
		}
		if opts.Max <= 0 {
			for _, v := range s.Values {
				if finite(v) && v > maxVal {
					maxVal = v
				}
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	if width <= 0 {
		width = DefaultHeight
	}
	if height <= 0 {
		height = DefaultHeight
	}
	rings := opts.Rings
	if rings <= 0 {
		rings = 4
	}
	f := frame{width: width, height: height, axisColor: fallback(opts.AxisColor, "#475569"), gridColor: fallback(opts.GridColor, "#cbd5f5")}

	cx, cy := float64(width)/2, float64(height)/2+6
	r := math.Min(cx, cy) - 36
	if r <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	at := func(i int, ratio float64) (float64, float64) {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(len(axes))
		return cx + r*ratio*math.Cos(theta), cy + r*ratio*math.Sin(theta)
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "radar", "Radar chart", "Scores by axis")

	for ring := 1; ring <= rings; ring++ {
		ratio := float64(ring) / float64(rings)
		pts := make([]string, len(axes))
		for i := range axes {
			x, y := at(i, ratio)
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&b, "<polygon points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.5\" aria-hidden=\"true\"></polygon>", strings.Join(pts, " "), f.gridColor)
	}
	for i, axis := range axes {
		x, y := at(i, 1)
		fmt.Fprintf(&b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\"></line>", cx, cy, x, y, f.gridColor)
		lx, ly := at(i, 1.15)
		anchor := "middle"
		switch {
		case lx < cx-1:
			anchor = "end"
		case lx > cx+1:
			anchor = "start"
		}
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"%s\">%s</text>", lx, ly+3, f.axisColor, anchor, template.HTMLEscapeString(axis))
	}

	labels := make([]string, len(series))
	colors := make([]string, len(series))
	for si, s := range series {
		labels[si] = fallback(s.Label, fmt.Sprintf("Series %d", si+1))
		colors[si] = colorAt(s.Color, si)
		pts := make([]string, len(axes))
		for i, v := range s.Values {
			if !finite(v) || v < 0 {
				v = 0
			}
			x, y := at(i, math.Min(v/maxVal, 1))
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&b, "<polygon points=\"%s\" fill=\"%s\" fill-opacity=\"0.2\" stroke=\"%s\" stroke-width=\"2\" aria-label=\"%s\"></polygon>", strings.Join(pts, " "), colors[si], colors[si], template.HTMLEscapeString(labels[si]))
	}
	if opts.Legend {
		f.padding = 8
		f.legend(&b, labels, colors)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
