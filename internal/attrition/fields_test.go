package attrition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstSkipsAbsentValues(t *testing.T) {
	var nilRate *float64
	v, ok := First(nil, "", nilRate, "Sales", "R&D")
	require.True(t, ok)
	require.Equal(t, "Sales", v)

	v, ok = First(nil, 0.0)
	require.True(t, ok)
	require.Equal(t, 0.0, v)

	_, ok = First(nil, "")
	require.False(t, ok)
}

func TestFirstKeepsWhitespaceStrings(t *testing.T) {
	v, ok := First("  ", "b")
	require.True(t, ok)
	require.Equal(t, "  ", v)

	row := Row{"k1": " ", "key": "Sales"}
	require.Equal(t, " ", row.Label("k1", "key"))
}

func TestRowPickers(t *testing.T) {
	row := Row{"k1": "", "key": nil, "department": "Sales", "rate": "0.25", "value": 0.9}
	require.Equal(t, "Sales", row.Label("k1", "key", "department", "name"))
	require.Equal(t, 0.25, row.Number("attrition_rate", "rate", "value"))

	empty := Row{}
	require.Equal(t, Unknown, empty.Label("k1", "key"))
	require.Equal(t, 0.0, empty.Number("rate"))
}

func TestRowLabelStripsMarkup(t *testing.T) {
	row := Row{"key": "<b>Research &amp; Development</b>"}
	require.Equal(t, "Research & Development", row.Label("key"))
}

func TestRowPickNumberFromJSONNumber(t *testing.T) {
	row := Row{"n": json.Number("1470")}
	n, ok := row.PickNumber("n")
	require.True(t, ok)
	require.Equal(t, 1470.0, n)
}

func TestLabelUnmarshal(t *testing.T) {
	var bins []HistogramBin
	require.NoError(t, json.Unmarshal([]byte(`[{"bucket":3,"count":1},{"bucket":"0-1","count":2},{"bucket":null,"count":0}]`), &bins))
	require.Equal(t, Label("3"), bins[0].Bucket)
	require.Equal(t, Label("0-1"), bins[1].Bucket)
	require.Equal(t, Label(""), bins[2].Bucket)
}
