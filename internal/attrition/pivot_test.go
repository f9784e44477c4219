package attrition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPivotTwoKeySingleDimension(t *testing.T) {
	pivot := PivotTwoKey([]TwoKeyRateRow{
		{K1: "Sales", K2: "Yes", AttritionRate: 0.3},
		{K1: "Sales", K2: "No", AttritionRate: 0.1},
	})
	require.Equal(t, []string{"Yes", "No"}, pivot.Columns)
	require.Len(t, pivot.Rows, 1)
	require.Equal(t, "Sales", pivot.Rows[0].Dimension)
	require.Equal(t, 0.3, pivot.Rows[0].Value("Yes"))
	require.Equal(t, 0.1, pivot.Rows[0].Value("No"))

	data, err := json.Marshal(pivot)
	require.NoError(t, err)
	require.JSONEq(t, `[{"dimension":"Sales","Yes":0.3,"No":0.1}]`, string(data))
}

func TestPivotTwoKeyFillsLateColumns(t *testing.T) {
	pivot := PivotTwoKey([]TwoKeyRateRow{
		{K1: "R&D", K2: "No", AttritionRate: 0.12},
		{K1: "Sales", K2: "Yes", AttritionRate: 0.35},
		{K1: "", K2: "", AttritionRate: 0.5},
	})
	require.Equal(t, []string{"No", "Yes", Unknown}, pivot.Columns)
	require.Len(t, pivot.Rows, 3)

	dims := []string{pivot.Rows[0].Dimension, pivot.Rows[1].Dimension, pivot.Rows[2].Dimension}
	require.Equal(t, []string{"R&D", "Sales", Unknown}, dims)

	for _, row := range pivot.Rows {
		require.Len(t, row.Values, len(pivot.Columns), "row %s", row.Dimension)
	}
	require.Equal(t, 0.0, pivot.Rows[0].Values["Yes"])
	require.Equal(t, 0.35, pivot.Rows[1].Values["Yes"])
	require.Equal(t, 0.5, pivot.Rows[2].Values[Unknown])
}

func TestPivotTwoKeyKeepsWhitespaceKeys(t *testing.T) {
	pivot := PivotTwoKey([]TwoKeyRateRow{{K1: " ", K2: " ", AttritionRate: 0.2}})
	require.Equal(t, []string{" "}, pivot.Columns)
	require.Equal(t, " ", pivot.Rows[0].Dimension)
	require.Equal(t, 0.2, pivot.Rows[0].Value(" "))
}

func TestPivotTwoKeyDoesNotMutateInput(t *testing.T) {
	in := []TwoKeyRateRow{{K1: "", K2: "Yes", AttritionRate: 0.2}}
	PivotTwoKey(in)
	require.Equal(t, "", in[0].K1)
}

func TestPivotTwoKeyEmpty(t *testing.T) {
	pivot := PivotTwoKey(nil)
	require.True(t, pivot.Empty())
	data, err := json.Marshal(pivot)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}
