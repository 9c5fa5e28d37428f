// Package engine turns filtered raw rows into chart-ready series.
//
// Everything in this package is a pure function over a dataset and a widget's
// data binding: no I/O, no shared state, deterministic output. The renderer
// calls it on every render; the engine never caches.
package engine

// Aggregation is the reduction applied per group.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
	AggCount Aggregation = "count"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Filter is one row predicate. A filter whose Field or Value is empty is
// vacuously true and filters nothing.
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// DataConfig is a widget's binding to dataset columns, aggregation, and
// filters. The property editor mutates it; the engine consumes it.
type DataConfig struct {
	XAxis       string      `json:"xAxis,omitempty"`
	YAxis       string      `json:"yAxis,omitempty"`
	Category    string      `json:"category,omitempty"`
	Aggregation Aggregation `json:"aggregation"`
	Filters     []Filter    `json:"filters"`
}

// ResultKind tags the shape of an aggregation Result.
type ResultKind int

const (
	// KindSeries is a flat label → value series (no category binding).
	KindSeries ResultKind = iota

	// KindMultiSeries is one series per distinct category value.
	KindMultiSeries
)

// Point is a single labelled value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of points. Order is first-seen insertion
// order of the group labels, never sorted.
type Series []Point

// NamedSeries is one sub-series of a multi-series result.
type NamedSeries struct {
	Name   string `json:"name"`
	Points Series `json:"points"`
}

// Result is the tagged output of Aggregate. Exactly one of Series or Multi
// is populated, selected by Kind — consumers branch on the tag, never on the
// runtime shape of a value.
type Result struct {
	Kind   ResultKind    `json:"kind"`
	Labels []string      `json:"labels"` // x-axis labels, first-seen order
	Series Series        `json:"series,omitempty"`
	Multi  []NamedSeries `json:"multi,omitempty"`
}

// Trend classifies a KPI's direction of change.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// KPIResult is the whole-set scalar aggregate plus its trend indicator.
type KPIResult struct {
	Value         float64 `json:"value"`
	Trend         Trend   `json:"trend"`
	PercentChange float64 `json:"percentChange"`
}

// UnknownBucket is the group label used for rows missing the grouping field.
const UnknownBucket = "Unknown"
