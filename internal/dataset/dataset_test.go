package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var salesCSV = []byte(`region,product,revenue,sold_on
East,Widget,1200.50,2026-01-05
West,Gadget,800,2026-01-07
East,Gadget,,2026-01-09
South,Widget,430.25,2026-01-11
`)

func TestFromCSV(t *testing.T) {
	rows, sch, err := FromCSV(salesCSV)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Len(t, sch, 4)

	assert.Equal(t, TypeCategorical, sch[0].Type)
	assert.Equal(t, TypeCategorical, sch[1].Type)
	assert.Equal(t, TypeNumeric, sch[2].Type)
	assert.Equal(t, TypeDate, sch[3].Type)

	// Numeric cells are parsed to float64 at load time.
	assert.Equal(t, 1200.50, rows[0]["revenue"])

	// Empty cells are absent, not zero.
	_, ok := rows[2]["revenue"]
	assert.False(t, ok)
}

func TestFromCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: []byte("")},
		{name: "header only", data: []byte("a,b,c\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := FromCSV(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestSchema_ColumnSets(t *testing.T) {
	sch := Schema{
		{Name: "region", Type: TypeCategorical},
		{Name: "revenue", Type: TypeNumeric},
		{Name: "sold_on", Type: TypeDate},
	}

	assert.Equal(t, []string{"revenue"}, sch.NumericColumns())
	assert.Equal(t, []string{"region", "sold_on"}, sch.NonNumericColumns())
	assert.True(t, sch.Has("region"))
	assert.False(t, sch.Has("profit"))
}

func TestSniff(t *testing.T) {
	sch := Sniff(Row{"region": "East", "revenue": 120.0, "count": 3})

	types := make(map[string]ColumnType)
	for _, c := range sch {
		types[c.Name] = c.Type
	}

	assert.Equal(t, TypeCategorical, types["region"])
	assert.Equal(t, TypeNumeric, types["revenue"])
	assert.Equal(t, TypeNumeric, types["count"])
}

func TestCellNumber(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want float64
		ok   bool
	}{
		{name: "float", val: 12.5, want: 12.5, ok: true},
		{name: "int", val: 7, want: 7, ok: true},
		{name: "numeric string", val: "42", want: 42, ok: true},
		{name: "non-numeric string", val: "abc", want: 0, ok: false},
		{name: "nil", val: nil, want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellNumber(tt.val)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "East", CellString("East"))
	assert.Equal(t, "12.5", CellString(12.5))
	assert.Equal(t, "7", CellString(7))
}
