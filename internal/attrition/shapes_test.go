package attrition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRatesShapes(t *testing.T) {
	rows := []Row{
		{"key": "Sales", "attrition_rate": 0.2, "n": 446.0},
		{"department": "R&D", "rate": 0.14},
		{"name": "HR", "value": 0.19},
		{"unexpected": true},
		{"key": "", "attrition_rate": 0.5},
	}
	out, unrecognized := NormalizeRates(rows, "department")
	require.Equal(t, 1, unrecognized)
	require.Equal(t, []RateRow{
		{Key: "Sales", AttritionRate: 0.2, N: 446},
		{Key: "R&D", AttritionRate: 0.14},
		{Key: "HR", AttritionRate: 0.19},
		{Key: Unknown},
		{Key: Unknown, AttritionRate: 0.5},
	}, out)
}

func TestNormalizeTwoKeyRatesShapes(t *testing.T) {
	out, unrecognized := NormalizeTwoKeyRates([]Row{
		{"k1": "Sales", "k2": "Yes", "attrition_rate": 0.3},
		{"department": "Sales", "over_time": "No", "rate": 0.1},
		{"k1": nil, "k2": "Yes", "attrition_rate": 0.4},
	}, "department", "over_time")
	require.Zero(t, unrecognized)
	require.Equal(t, "Yes", out[0].K2)
	require.Equal(t, TwoKeyRateRow{K1: "Sales", K2: "No", AttritionRate: 0.1}, out[1])
	require.Equal(t, "", out[2].K1)

	pivot := PivotTwoKey(out)
	require.Equal(t, []string{"Sales", Unknown}, []string{pivot.Rows[0].Dimension, pivot.Rows[1].Dimension})
}

func TestNormalizeHistogramShapes(t *testing.T) {
	bins, unrecognized := NormalizeHistogram([]Row{
		{"bucket": 18.0, "count": 10.0},
		{"min_age": 22.0, "max_age": 26.0, "n": 30.0},
		{"name": "30+", "value": 5.0},
		{"other": 1.0},
	})
	require.Equal(t, 1, unrecognized)
	require.Equal(t, Label("18"), bins[0].Bucket)
	require.Equal(t, 10, bins[0].Count)
	require.Equal(t, Label("22-26"), bins[1].Bucket)
	require.Equal(t, 30, bins[1].Count)
	require.Equal(t, Label("30+"), bins[2].Bucket)
	require.Equal(t, Label("3"), bins[3].Bucket)
}

func TestNormalizeQuantilesShapes(t *testing.T) {
	out, unrecognized := NormalizeQuantiles([]Row{
		{"job_role": "Manager", "min": 1.0, "q1": 2.0, "median": 3.0, "q3": 4.0, "max": 5.0},
		{"category": "Sales Rep", "p0": 1.0, "p25": 1.5, "p50": 2.0, "p75": 2.5, "p100": 3.0},
		{"category": "Broken"},
	})
	require.Equal(t, 1, unrecognized)
	require.Len(t, out, 2)
	require.Equal(t, QuantileSummary{Category: "Manager", Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5}, out[0])
	require.Equal(t, 2.0, out[1].Median)
}

func TestNormalizeScatterLeftFlag(t *testing.T) {
	points := NormalizeScatter([]Row{
		{"age": 30.0, "monthly_income": 5000.0, "left_flag": 1.0},
		{"age": 40.0, "income": 7000.0, "attrition": "Yes"},
		{"age": 50.0, "income": 9000.0, "attrition": "No"},
		{"age": 20.0, "income": 2000.0},
	})
	require.Equal(t, []int{1, 1, 0, 0}, []int{points[0].Left, points[1].Left, points[2].Left, points[3].Left})
	require.Equal(t, 7000.0, points[1].Income)
}

func TestNormalizeCorrelationsNulls(t *testing.T) {
	corrs := NormalizeCorrelations([]Row{
		{"feature": "age", "corr": -0.16},
		{"feature": "daily_rate", "corr": nil},
	})
	require.NotNil(t, corrs[0].Corr)
	require.Equal(t, -0.16, *corrs[0].Corr)
	require.Nil(t, corrs[1].Corr)
}

func TestNormalizeSummaryAndRadarAndGender(t *testing.T) {
	s := NormalizeSummary(Row{"n_total": 1470.0, "n_left": 237.0, "attrition_rate": 0.161})
	require.Equal(t, Summary{Total: 1470, Left: 237, AttritionRate: 0.161}, s)

	radar := NormalizeRadar([]Row{{"group": "Left", "environment": 2.5, "job_satisfaction": 2.4}})
	require.Equal(t, "Left", radar[0].Group)
	require.Equal(t, 2.4, radar[0].Axes["job"])
	require.Equal(t, 0.0, radar[0].Axes["work_life"])

	gender := NormalizeGender([]Row{{"gender": "Female", "count": 588.0}})
	require.Equal(t, 588, gender[0].Count)
	require.Nil(t, gender[0].AttritionRate)
}

func TestShapeString(t *testing.T) {
	require.Equal(t, "key_rate", ShapeKeyRate.String())
	require.Equal(t, "unrecognized", Shape(99).String())
}
