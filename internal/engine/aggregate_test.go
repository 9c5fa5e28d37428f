package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotboard/plotboard/internal/dataset"
)

func groupedRows() dataset.Dataset {
	return dataset.Dataset{
		{"g": "A", "v": 10.0},
		{"g": "A", "v": 20.0},
		{"g": "B", "v": 5.0},
	}
}

func seriesMap(s Series) map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, p := range s {
		out[p.Label] = p.Value
	}
	return out
}

func TestAggregate_Sum(t *testing.T) {
	res := Aggregate(groupedRows(), DataConfig{XAxis: "g", YAxis: "v", Aggregation: AggSum})

	require.Equal(t, KindSeries, res.Kind)
	assert.Equal(t, map[string]float64{"A": 30, "B": 5}, seriesMap(res.Series))
}

func TestAggregate_Avg(t *testing.T) {
	res := Aggregate(groupedRows(), DataConfig{XAxis: "g", YAxis: "v", Aggregation: AggAvg})

	require.Equal(t, KindSeries, res.Kind)
	assert.Equal(t, map[string]float64{"A": 15, "B": 5}, seriesMap(res.Series))
}

func TestAggregate_Reductions(t *testing.T) {
	tests := []struct {
		agg  Aggregation
		want map[string]float64
	}{
		{agg: AggCount, want: map[string]float64{"A": 2, "B": 1}},
		{agg: AggMin, want: map[string]float64{"A": 10, "B": 5}},
		{agg: AggMax, want: map[string]float64{"A": 20, "B": 5}},
		{agg: Aggregation("median"), want: map[string]float64{"A": 30, "B": 5}}, // falls back to sum
	}

	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			res := Aggregate(groupedRows(), DataConfig{XAxis: "g", YAxis: "v", Aggregation: tt.agg})
			assert.Equal(t, tt.want, seriesMap(res.Series))
		})
	}
}

func TestAggregate_CountOnlyWithoutYAxis(t *testing.T) {
	res := Aggregate(groupedRows(), DataConfig{XAxis: "g", Aggregation: AggSum})

	require.Equal(t, KindSeries, res.Kind)
	assert.Equal(t, map[string]float64{"A": 2, "B": 1}, seriesMap(res.Series))
}

func TestAggregate_FilterComposition(t *testing.T) {
	cfg := DataConfig{
		XAxis:       "g",
		YAxis:       "v",
		Aggregation: AggSum,
		Filters:     []Filter{{Field: "g", Operator: OpEquals, Value: "A"}},
	}

	res := Aggregate(groupedRows(), cfg)
	assert.Equal(t, map[string]float64{"A": 30}, seriesMap(res.Series))
}

func TestAggregate_UnknownBucket(t *testing.T) {
	rows := dataset.Dataset{
		{"g": "A", "v": 1.0},
		{"v": 2.0}, // no grouping field
	}

	res := Aggregate(rows, DataConfig{XAxis: "g"})
	assert.Equal(t, map[string]float64{"A": 1, UnknownBucket: 1}, seriesMap(res.Series))
}

func TestAggregate_InsertionOrderPreserved(t *testing.T) {
	rows := dataset.Dataset{
		{"g": "Z", "v": 1.0},
		{"g": "A", "v": 1.0},
		{"g": "M", "v": 1.0},
		{"g": "A", "v": 1.0},
	}

	res := Aggregate(rows, DataConfig{XAxis: "g"})
	assert.Equal(t, []string{"Z", "A", "M"}, res.Labels)
}

func TestAggregate_MultiSeries(t *testing.T) {
	rows := dataset.Dataset{
		{"month": "Jan", "region": "East", "v": 10.0},
		{"month": "Jan", "region": "West", "v": 20.0},
		{"month": "Feb", "region": "East", "v": 30.0},
	}

	res := Aggregate(rows, DataConfig{XAxis: "month", Category: "region", YAxis: "v", Aggregation: AggSum})

	require.Equal(t, KindMultiSeries, res.Kind)
	require.Len(t, res.Multi, 2)

	assert.Equal(t, []string{"Jan", "Feb"}, res.Labels)
	assert.Equal(t, "East", res.Multi[0].Name)
	assert.Equal(t, "West", res.Multi[1].Name)

	// Series are aligned over all x labels; absent combinations are zero.
	assert.Equal(t, Series{{Label: "Jan", Value: 10}, {Label: "Feb", Value: 30}}, res.Multi[0].Points)
	assert.Equal(t, Series{{Label: "Jan", Value: 20}, {Label: "Feb", Value: 0}}, res.Multi[1].Points)
}

func TestApplyFilters_Predicates(t *testing.T) {
	rows := dataset.Dataset{
		{"name": "Alpha", "score": 10.0},
		{"name": "beta", "score": 25.0},
		{"name": "Gamma", "score": "n/a"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "equals is case sensitive", filter: Filter{Field: "name", Operator: OpEquals, Value: "alpha"}, want: 0},
		{name: "not equals", filter: Filter{Field: "name", Operator: OpNotEquals, Value: "Alpha"}, want: 2},
		{name: "contains is case insensitive", filter: Filter{Field: "name", Operator: OpContains, Value: "ALPHA"}, want: 1},
		{name: "greater than", filter: Filter{Field: "score", Operator: OpGreaterThan, Value: "15"}, want: 1},
		{name: "less than", filter: Filter{Field: "score", Operator: OpLessThan, Value: "15"}, want: 1},
		{name: "numeric op on non-numeric cell is false", filter: Filter{Field: "name", Operator: OpGreaterThan, Value: "1"}, want: 0},
		{name: "numeric op with non-numeric value is false", filter: Filter{Field: "score", Operator: OpLessThan, Value: "abc"}, want: 0},
		{name: "empty value is vacuous", filter: Filter{Field: "name", Operator: OpEquals, Value: ""}, want: 3},
		{name: "empty field is vacuous", filter: Filter{Field: "", Operator: OpEquals, Value: "x"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(rows, []Filter{tt.filter})
			assert.Len(t, got, tt.want)
		})
	}
}

func TestAggregateKPI(t *testing.T) {
	rows := dataset.Dataset{
		{"v": 10.0}, {"v": 10.0}, {"v": 20.0}, {"v": 20.0},
	}

	res := AggregateKPI(rows, DataConfig{YAxis: "v", Aggregation: AggSum})

	assert.Equal(t, 60.0, res.Value)
	assert.Equal(t, TrendUp, res.Trend)
	assert.Equal(t, 100.0, res.PercentChange)
}

func TestAggregateKPI_Trends(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		trend  Trend
		change float64
	}{
		{name: "down", values: []float64{20, 20, 10, 10}, trend: TrendDown, change: -50},
		{name: "flat", values: []float64{5, 5, 5, 5}, trend: TrendNeutral, change: 0},
		{name: "zero first half mean", values: []float64{0, 0, 10, 10}, trend: TrendUp, change: 0},
		{name: "single value", values: []float64{42}, trend: TrendNeutral, change: 0},
		{name: "empty", values: nil, trend: TrendNeutral, change: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make(dataset.Dataset, len(tt.values))
			for i, v := range tt.values {
				rows[i] = dataset.Row{"v": v}
			}

			res := AggregateKPI(rows, DataConfig{YAxis: "v", Aggregation: AggAvg})
			assert.Equal(t, tt.trend, res.Trend)
			assert.Equal(t, tt.change, res.PercentChange)
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		format NumberFormat
		value  float64
		want   string
	}{
		{format: FormatNumber, value: 1234567.4, want: "1,234,567"},
		{format: FormatDecimal, value: 1234.5, want: "1,234.50"},
		{format: FormatCurrency, value: -1234.5, want: "$-1,234.50"},
		{format: FormatPercent, value: 12.34, want: "12.3%"},
		{format: FormatCompact, value: 1_500_000, want: "1.5M"},
		{format: FormatCompact, value: 2_400, want: "2.4K"},
		{format: FormatCompact, value: 950, want: "950"},
		{format: NumberFormat(""), value: 12.6, want: "13"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.format))
		})
	}
}
