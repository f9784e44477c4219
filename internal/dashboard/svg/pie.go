package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Pie renders slices proportionally to their values. Non-positive slices are skipped.
func Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
	total := 0.0
	for _, s := range slices {
		if finite(s.Value) && s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return "", fmt.Errorf("svg: positive slice values required")
	}
	if width <= 0 {
		width = DefaultHeight
	}
	if height <= 0 {
		height = DefaultHeight
	}
	f := frame{width: width, height: height}

	legendWidth := 0.0
	if float64(width) > float64(height)*1.4 {
		legendWidth = float64(width) - float64(height)
	}
	cx := (float64(width) - legendWidth) / 2
	cy := float64(height) / 2
	r := math.Min(cx, cy) - 8
	if r <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	inner := 0.0
	if opts.InnerRatio > 0 && opts.InnerRatio < 1 {
		inner = r * opts.InnerRatio
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "pie", "Pie chart", "Share by category")

	angle := -math.Pi / 2
	row := 0
	for i, s := range slices {
		if !finite(s.Value) || s.Value <= 0 {
			continue
		}
		share := s.Value / total
		color := colorAt(s.Color, i)
		label := fmt.Sprintf("%s: %.1f%%", s.Label, share*100)
		if almostEqual(share, 1) {
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></circle>", cx, cy, r, color, template.HTMLEscapeString(label))
		} else {
			end := angle + share*2*math.Pi
			fmt.Fprintf(&b, "<path d=\"%s\" fill=\"%s\" stroke=\"#fff\" stroke-width=\"1\" aria-label=\"%s\"></path>", wedge(cx, cy, r, angle, end), color, template.HTMLEscapeString(label))
			angle = end
		}
		if legendWidth > 0 {
			y := 20 + float64(row)*16
			lx := float64(width) - legendWidth + 8
			fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", lx, y-8, color)
			fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"#475569\" font-size=\"10\" text-anchor=\"start\">%s</text>", lx+14, y+1, template.HTMLEscapeString(label))
		}
		row++
	}
	if inner > 0 {
		fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"#fff\" aria-hidden=\"true\"></circle>", cx, cy, inner)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func wedge(cx, cy, r, start, end float64) string {
	x1, y1 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	x2, y2 := cx+r*math.Cos(end), cy+r*math.Sin(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z", cx, cy, x1, y1, r, r, large, x2, y2)
}
