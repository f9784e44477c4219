package svg

import "html/template"

// Renderer exposes the chart functions as methods so callers can depend on an interface.
type Renderer struct{}

func (Renderer) Bars(width, height int, labels []string, series []Series, opts BarOpts) (template.HTML, error) {
	return Bars(width, height, labels, series, opts)
}

func (Renderer) Line(width, height int, points []Point, opts LineOpts) (template.HTML, error) {
	return Line(width, height, points, opts)
}

func (Renderer) Scatter(width, height int, groups []PointGroup, opts ScatterOpts) (template.HTML, error) {
	return Scatter(width, height, groups, opts)
}

func (Renderer) Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
	return Pie(width, height, slices, opts)
}

func (Renderer) Radar(width, height int, axes []string, series []Series, opts RadarOpts) (template.HTML, error) {
	return Radar(width, height, axes, series, opts)
}
