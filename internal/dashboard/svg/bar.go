package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders grouped or stacked bars, one group per label and one bar per series.
func Bars(width, height int, labels []string, series []Series, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("svg: series %q length must match labels", s.Label)
		}
	}
	f, err := newFrame(width, height, opts.Padding, opts.AxisColor, opts.GridColor)
	if err != nil {
		return "", err
	}

	lo, hi := barRange(labels, series, opts.Stacked)
	lo, hi = zeroBased(lo, hi)
	scale := f.chartHeight / (hi - lo)
	zeroY := f.bottom() + lo*scale

	groupWidth := f.chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.7
	if !opts.Stacked {
		barWidth /= float64(len(series))
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "bar", "Bar chart", "Bar comparison")
	f.yGrid(&b, lo, hi, opts.TickCount, opts.Percent)
	f.axes(&b, zeroY)

	colors := make([]string, len(series))
	names := make([]string, len(series))
	for i, s := range series {
		colors[i] = colorAt(s.Color, i)
		names[i] = fallback(s.Label, fmt.Sprintf("Series %d", i+1))
	}

	for li, label := range labels {
		baseX := f.padding + float64(li)*groupWidth + groupWidth*0.15
		posTop, negBottom := zeroY, zeroY
		for si, s := range series {
			v := s.Values[li]
			if !finite(v) {
				v = 0
			}
			h := math.Abs(v) * scale
			x := baseX
			var y float64
			switch {
			case opts.Stacked && v >= 0:
				y = posTop - h
				posTop = y
			case opts.Stacked:
				y = negBottom
				negBottom += h
			case v >= 0:
				x += float64(si) * barWidth
				y = zeroY - h
			default:
				x += float64(si) * barWidth
				y = zeroY
			}
			y, h = clampBar(y, h, f.padding, f.bottom())
			fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s: %s\"></rect>",
				x, y, barWidth, h, colors[si], template.HTMLEscapeString(names[si]), template.HTMLEscapeString(label), template.HTMLEscapeString(formatTick(v, opts.Percent)))
		}
		center := f.padding + float64(li)*groupWidth + groupWidth/2
		fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, f.bottom()+14, f.axisColor, template.HTMLEscapeString(label))
	}

	if len(series) > 1 {
		f.legend(&b, names, colors)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barRange(labels []string, series []Series, stacked bool) (float64, float64) {
	lo, hi := 0.0, 0.0
	for li := range labels {
		pos, neg := 0.0, 0.0
		for _, s := range series {
			v := s.Values[li]
			if !finite(v) {
				continue
			}
			if !stacked {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
				continue
			}
			if v >= 0 {
				pos += v
			} else {
				neg += v
			}
		}
		if stacked {
			hi = math.Max(hi, pos)
			lo = math.Min(lo, neg)
		}
	}
	return lo, hi
}

func clampBar(y, h, top, bottom float64) (float64, float64) {
	if y < top {
		h -= top - y
		y = top
	}
	if y+h > bottom {
		h = bottom - y
	}
	if h < 0 {
		h = 0
	}
	return y, h
}
