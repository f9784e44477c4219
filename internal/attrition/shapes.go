package attrition

import (
	"math"
	"strconv"
	"strings"
)

// Shape identifies which of the known response layouts a raw row follows.
// Each dataset accepts a closed set of shapes with one normalizer per shape;
// rows matching none of them are counted as unrecognized.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	// ShapeKeyRate is {key, attrition_rate|rate, n}.
	ShapeKeyRate
	// ShapeDimensionRate names the grouping column directly, e.g. {department, rate}.
	ShapeDimensionRate
	// ShapeNameValue is the generic chart layout {name, value}.
	ShapeNameValue
	// ShapeKeyPair is {k1, k2, attrition_rate}.
	ShapeKeyPair
	// ShapeDimensionPair names both grouping columns, e.g. {department, over_time, rate}.
	ShapeDimensionPair
	// ShapeBucketCount is {bucket, count|n}.
	ShapeBucketCount
	// ShapeRange is {min_*, max_*, count|n} without a bucket label.
	ShapeRange
	// ShapeFiveNumber is {category|job_role, min, q1, median, q3, max}.
	ShapeFiveNumber
	// ShapePercentile is {category|job_role, p0, p25, p50, p75, p100}.
	ShapePercentile
)

func (s Shape) String() string {
	switch s {
	case ShapeKeyRate:
		return "key_rate"
	case ShapeDimensionRate:
		return "dimension_rate"
	case ShapeNameValue:
		return "name_value"
	case ShapeKeyPair:
		return "key_pair"
	case ShapeDimensionPair:
		return "dimension_pair"
	case ShapeBucketCount:
		return "bucket_count"
	case ShapeRange:
		return "range"
	case ShapeFiveNumber:
		return "five_number"
	case ShapePercentile:
		return "percentile"
	default:
		return "unrecognized"
	}
}

var (
	rateKeys     = []string{"attrition_rate", "rate"}
	countKeys    = []string{"count", "n", "value"}
	categoryKeys = []string{"category", "job_role", "key", "name"}
)

// RateShapeOf classifies a row returned by a single-dimension rate endpoint.
func RateShapeOf(row Row, dim string) Shape {
	switch {
	case row.Has("key"):
		return ShapeKeyRate
	case dim != "" && row.Has(dim):
		return ShapeDimensionRate
	case row.Has("name") && row.Has("value"):
		return ShapeNameValue
	default:
		return ShapeUnrecognized
	}
}

// NormalizeRates converts raw rows into RateRows and reports how many rows
// matched no known shape. Unrecognized rows are kept as Unknown with a zero rate.
func NormalizeRates(rows []Row, dim string) ([]RateRow, int) {
	out := make([]RateRow, 0, len(rows))
	unrecognized := 0
	for _, row := range rows {
		switch RateShapeOf(row, dim) {
		case ShapeKeyRate:
			out = append(out, rateFromKey(row))
		case ShapeDimensionRate:
			out = append(out, rateFromDimension(row, dim))
		case ShapeNameValue:
			out = append(out, rateFromNameValue(row))
		default:
			unrecognized++
			out = append(out, RateRow{Key: Unknown})
		}
	}
	return out, unrecognized
}

func rateFromKey(row Row) RateRow {
	return RateRow{Key: row.Label("key"), AttritionRate: row.Number(rateKeys...), N: int(row.Number("n", "count"))}
}

func rateFromDimension(row Row, dim string) RateRow {
	return RateRow{Key: row.Label(dim), AttritionRate: row.Number(rateKeys...), N: int(row.Number("n", "count"))}
}

func rateFromNameValue(row Row) RateRow {
	return RateRow{Key: row.Label("name"), AttritionRate: row.Number("value")}
}

// TwoKeyShapeOf classifies a row returned by the two-dimension rate endpoint.
func TwoKeyShapeOf(row Row, dim1, dim2 string) Shape {
	switch {
	case row.Has("k1", "k2"):
		return ShapeKeyPair
	case (dim1 != "" && row.Has(dim1)) || (dim2 != "" && row.Has(dim2)):
		return ShapeDimensionPair
	default:
		return ShapeUnrecognized
	}
}

// NormalizeTwoKeyRates keeps empty keys empty; Pivot substitutes Unknown.
func NormalizeTwoKeyRates(rows []Row, dim1, dim2 string) ([]TwoKeyRateRow, int) {
	out := make([]TwoKeyRateRow, 0, len(rows))
	unrecognized := 0
	for _, row := range rows {
		switch TwoKeyShapeOf(row, dim1, dim2) {
		case ShapeKeyPair:
			out = append(out, twoKeyFromPair(row))
		case ShapeDimensionPair:
			out = append(out, twoKeyFromDimensions(row, dim1, dim2))
		default:
			unrecognized++
			out = append(out, TwoKeyRateRow{AttritionRate: row.Number(rateKeys...)})
		}
	}
	return out, unrecognized
}

func twoKeyFromPair(row Row) TwoKeyRateRow {
	k1, _ := row.PickString("k1")
	k2, _ := row.PickString("k2")
	return TwoKeyRateRow{K1: k1, K2: k2, AttritionRate: row.Number(rateKeys...)}
}

func twoKeyFromDimensions(row Row, dim1, dim2 string) TwoKeyRateRow {
	k1, _ := row.PickString(dim1)
	k2, _ := row.PickString(dim2)
	return TwoKeyRateRow{K1: k1, K2: k2, AttritionRate: row.Number(rateKeys...)}
}

// HistogramShapeOf classifies a histogram row.
func HistogramShapeOf(row Row) Shape {
	switch {
	case row.Has("bucket"):
		return ShapeBucketCount
	case row.Has("min_age", "max_age", "min", "max", "min_income", "max_income"):
		return ShapeRange
	case row.Has("name", "key") && row.Has("value", "count", "n"):
		return ShapeNameValue
	default:
		return ShapeUnrecognized
	}
}

// NormalizeHistogram converts histogram rows, preserving the response order.
func NormalizeHistogram(rows []Row) ([]HistogramBin, int) {
	out := make([]HistogramBin, 0, len(rows))
	unrecognized := 0
	for i, row := range rows {
		switch HistogramShapeOf(row) {
		case ShapeBucketCount:
			out = append(out, binFromBucket(row))
		case ShapeRange:
			out = append(out, binFromRange(row, i))
		case ShapeNameValue:
			out = append(out, HistogramBin{Bucket: Label(row.Label("name", "key")), Count: int(row.Number(countKeys...))})
		default:
			unrecognized++
			out = append(out, HistogramBin{Bucket: Label(strconv.Itoa(i))})
		}
	}
	return out, unrecognized
}

func binFromBucket(row Row) HistogramBin {
	bin := HistogramBin{
		Bucket:        Label(row.Label("bucket")),
		Count:         int(row.Number(countKeys...)),
		Min:           row.optionalNumber("min_age", "min_income", "min"),
		Max:           row.optionalNumber("max_age", "max_income", "max"),
		AttritionRate: row.optionalNumber(rateKeys...),
	}
	return bin
}

func binFromRange(row Row, index int) HistogramBin {
	bin := HistogramBin{
		Count:         int(row.Number(countKeys...)),
		Min:           row.optionalNumber("min_age", "min_income", "min"),
		Max:           row.optionalNumber("max_age", "max_income", "max"),
		AttritionRate: row.optionalNumber(rateKeys...),
	}
	switch {
	case bin.Min != nil && bin.Max != nil:
		bin.Bucket = Label(formatNumber(*bin.Min) + "-" + formatNumber(*bin.Max))
	case bin.Min != nil:
		bin.Bucket = Label(formatNumber(*bin.Min) + "+")
	default:
		bin.Bucket = Label(strconv.Itoa(index))
	}
	return bin
}

// QuantileShapeOf classifies a five-number summary row.
func QuantileShapeOf(row Row) Shape {
	switch {
	case row.Has("q1", "median", "q3"):
		return ShapeFiveNumber
	case row.Has("p25", "p50", "p75"):
		return ShapePercentile
	default:
		return ShapeUnrecognized
	}
}

// NormalizeQuantiles converts box-plot rows. Ordering is not validated here.
func NormalizeQuantiles(rows []Row) ([]QuantileSummary, int) {
	out := make([]QuantileSummary, 0, len(rows))
	unrecognized := 0
	for _, row := range rows {
		switch QuantileShapeOf(row) {
		case ShapeFiveNumber:
			out = append(out, QuantileSummary{
				Category: row.Label(categoryKeys...),
				Min:      row.Number("min"),
				Q1:       row.Number("q1"),
				Median:   row.Number("median"),
				Q3:       row.Number("q3"),
				Max:      row.Number("max"),
			})
		case ShapePercentile:
			out = append(out, QuantileSummary{
				Category: row.Label(categoryKeys...),
				Min:      row.Number("p0", "min"),
				Q1:       row.Number("p25"),
				Median:   row.Number("p50"),
				Q3:       row.Number("p75"),
				Max:      row.Number("p100", "max"),
			})
		default:
			unrecognized++
		}
	}
	return out, unrecognized
}

// NormalizeSummary reads the headline summary object.
func NormalizeSummary(row Row) Summary {
	return Summary{
		Total:         int(row.Number("n_total", "total")),
		Left:          int(row.Number("n_left", "left")),
		AttritionRate: row.Number(rateKeys...),
	}
}

// NormalizeCorrelations drops nothing; null and NaN coefficients become nil.
func NormalizeCorrelations(rows []Row) []Correlation {
	out := make([]Correlation, 0, len(rows))
	for _, row := range rows {
		c := Correlation{Feature: row.Label("feature", "name", "key")}
		if v, ok := row.PickNumber("corr", "r", "value"); ok && !math.IsInf(v, 0) {
			c.Corr = &v
		}
		out = append(out, c)
	}
	return out
}

// NormalizeScatter converts samples; anything but an explicit positive outcome counts as stayed.
func NormalizeScatter(rows []Row) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScatterPoint{
			Age:    row.Number("age"),
			Income: row.Number("monthly_income", "income"),
			Left:   leftFlag(row),
		})
	}
	return out
}

func leftFlag(row Row) int {
	v, ok := First(row["left_flag"], row["left"], row["attrition"])
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "true", "1":
			return 1
		default:
			return 0
		}
	}
	if n, ok := toNumber(v); ok && n == 1 {
		return 1
	}
	return 0
}

// NormalizeRadar reads one record per group with the fixed satisfaction axes.
func NormalizeRadar(rows []Row) []RadarRecord {
	out := make([]RadarRecord, 0, len(rows))
	for _, row := range rows {
		rec := RadarRecord{Group: row.Label("group_name", "group", "key", "name"), Axes: make(map[string]float64, len(SatisfactionAxes))}
		for _, axis := range SatisfactionAxes {
			rec.Axes[axis] = row.Number(axis, axis+"_satisfaction", "avg_"+axis)
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeGender reads the gender split.
func NormalizeGender(rows []Row) []GenderSlice {
	out := make([]GenderSlice, 0, len(rows))
	for _, row := range rows {
		out = append(out, GenderSlice{
			Gender:        row.Label("gender", "key", "name"),
			Count:         int(row.Number(countKeys...)),
			AttritionRate: row.optionalNumber(rateKeys...),
		})
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
