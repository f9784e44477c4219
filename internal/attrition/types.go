package attrition

import (
	"encoding/json"
	"strconv"
)

// Unknown replaces missing or empty categorical values.
const Unknown = "Unknown"

// Summary is the headline head-count block.
type Summary struct {
	Total         int     `json:"n_total"`
	Left          int     `json:"n_left"`
	AttritionRate float64 `json:"attrition_rate"`
}

// RateRow is the attrition rate for one categorical value.
type RateRow struct {
	Key           string  `json:"key"`
	AttritionRate float64 `json:"attrition_rate"`
	N             int     `json:"n,omitempty"`
}

// TwoKeyRateRow is the attrition rate for a pair of categorical values, before pivoting.
type TwoKeyRateRow struct {
	K1            string  `json:"k1"`
	K2            string  `json:"k2"`
	AttritionRate float64 `json:"attrition_rate"`
}

// Label is a histogram bucket label that may arrive as a JSON number or string.
type Label string

// UnmarshalJSON accepts numbers, strings and null.
func (l *Label) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = Label(labelString(v))
	return nil
}

// HistogramBin is the number of observations in one bucket.
type HistogramBin struct {
	Bucket        Label    `json:"bucket"`
	Count         int      `json:"count"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	AttritionRate *float64 `json:"attrition_rate,omitempty"`
}

// OrdinalSeriesPoint is one point of a line or trend chart.
type OrdinalSeriesPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ScatterPoint is one (age, income, outcome) sample.
type ScatterPoint struct {
	Age    float64 `json:"age"`
	Income float64 `json:"income"`
	Left   int     `json:"left"`
}

// QuantileSummary is a five-number summary for one category.
type QuantileSummary struct {
	Category string  `json:"category"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

// Correlation is one feature's coefficient against attrition. Corr is nil when
// the upstream could not compute it.
type Correlation struct {
	Feature string   `json:"feature"`
	Corr    *float64 `json:"corr"`
}

// SatisfactionAxes lists the radar axes in display order.
var SatisfactionAxes = []string{"environment", "job", "relationship", "work_life"}

// RadarRecord holds the satisfaction averages of one group.
type RadarRecord struct {
	Group string             `json:"group"`
	Axes  map[string]float64 `json:"axes"`
}

// GenderSlice is one slice of the gender split pie.
type GenderSlice struct {
	Gender        string   `json:"gender"`
	Count         int      `json:"count"`
	AttritionRate *float64 `json:"attrition_rate,omitempty"`
}

func labelString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
