package svg

// Series is one named sequence of values plotted against shared labels or axes.
type Series struct {
	Label  string
	Values []float64
	Color  string
}

// Point is a numeric (x, y) pair.
type Point struct {
	X float64
	Y float64
}

// PointGroup is a named set of scatter points drawn in one color.
type PointGroup struct {
	Label  string
	Color  string
	Points []Point
}

// Slice is one wedge of a pie chart.
type Slice struct {
	Label string
	Value float64
	Color string
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	// Stacked draws the series on top of each other instead of side by side.
	Stacked bool
	// Percent renders ratio ticks as percentages.
	Percent bool
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	// FillColor turns the line into an area chart when set.
	FillColor string
	AxisColor string
	GridColor string
	Padding   float64
	ShowDots  bool
	TickCount int
	Percent   bool
	XLabel    string
}

// ScatterOpts customises the scatter renderer.
type ScatterOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	Radius      float64
	XLabel      string
	YLabel      string
}

// PieOpts customises the pie renderer.
type PieOpts struct {
	Title       string
	Description string
	// InnerRatio > 0 draws a donut with the given inner radius fraction.
	InnerRatio float64
}

// RadarOpts customises the radar renderer.
type RadarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	// Max is the value mapped to the outer ring; 0 uses the data maximum.
	Max    float64
	Rings  int
	Legend bool
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 260
	DefaultPadding = 32.0
	DefaultTicks   = 5
)

// Palette is cycled through for series without an explicit color.
var Palette = []string{"#0ea5e9", "#f97316", "#22c55e", "#a855f7", "#ef4444", "#eab308", "#14b8a6", "#64748b"}

func colorAt(explicit string, i int) string {
	return fallback(explicit, Palette[i%len(Palette)])
}
