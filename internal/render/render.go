// Package render turns a widget plus the active dataset into a concrete,
// presentation-ready view: a chart request, a table layout, a KPI layout,
// or a placeholder when the widget is not yet renderable.
package render

import (
	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/engine"
	"github.com/plotboard/plotboard/internal/report"
)

// ViewKind tags the shape of a rendered View.
type ViewKind int

const (
	ViewPlaceholder ViewKind = iota
	ViewChart
	ViewTable
	ViewKPI
)

func (k ViewKind) String() string {
	switch k {
	case ViewChart:
		return "chart"
	case ViewTable:
		return "table"
	case ViewKPI:
		return "kpi"
	default:
		return "placeholder"
	}
}

// PlaceholderReason says why a widget rendered as a placeholder.
type PlaceholderReason string

const (
	ReasonIncomplete  PlaceholderReason = "configuration_incomplete"
	ReasonUnsupported PlaceholderReason = "unsupported_type"
	ReasonNoData      PlaceholderReason = "no_data"
)

// Placeholder is the empty-state card shown instead of a visual.
type Placeholder struct {
	Reason PlaceholderReason `json:"reason"`
	Hint   string            `json:"hint"`
}

// ChartView is everything a chart surface needs to draw one widget.
type ChartView struct {
	ChartType   report.WidgetType `json:"chartType"`
	Title       string            `json:"title"`
	Result      engine.Result     `json:"result"`
	Colors      []string          `json:"colors"`
	ShowLegend  bool              `json:"showLegend"`
	LegendPos   string            `json:"legendPosition"`
	XAxisLabel  string            `json:"xAxisLabel"`
	YAxisLabel  string            `json:"yAxisLabel"`
	Orientation string            `json:"orientation"`
}

// TableView is a column-ordered grid of formatted cells.
type TableView struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// KPIView is a single formatted figure with its trend indicator.
type KPIView struct {
	Title         string       `json:"title"`
	Value         string       `json:"value"`
	RawValue      float64      `json:"rawValue"`
	Trend         engine.Trend `json:"trend"`
	PercentChange float64      `json:"percentChange"`
}

// View is the tagged render output for one widget. Exactly one of the
// pointer fields matching Kind is set.
type View struct {
	Kind        ViewKind     `json:"kind"`
	WidgetID    string       `json:"widgetId"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
	Chart       *ChartView   `json:"chart,omitempty"`
	Table       *TableView   `json:"table,omitempty"`
	KPI         *KPIView     `json:"kpi,omitempty"`
}

// Widget renders one widget against the dataset. It never fails: widgets
// that cannot be drawn yield a Placeholder explaining why.
func Widget(w *report.Widget, rows dataset.Dataset, schema dataset.Schema) View {
	switch {
	case report.ChartLike(w.Type):
		return renderChart(w, rows)
	case w.Type == report.TypeTable:
		return renderTable(w, rows, schema)
	case w.Type == report.TypeKPI:
		return renderKPI(w, rows)
	default:
		return placeholder(w.ID, ReasonUnsupported, "unsupported widget type "+string(w.Type))
	}
}

// State renders every widget of a report state, in widget order.
func State(s report.State, rows dataset.Dataset, schema dataset.Schema) []View {
	views := make([]View, len(s.Visuals))
	for i, w := range s.Visuals {
		views[i] = Widget(w, rows, schema)
	}
	return views
}

func renderChart(w *report.Widget, rows dataset.Dataset) View {
	// Only the x-axis is required: with no value field the engine counts
	// rows per bucket.
	if w.Data.XAxis == "" {
		return placeholder(w.ID, ReasonIncomplete, "choose an x-axis field")
	}
	if len(rows) == 0 {
		return placeholder(w.ID, ReasonNoData, "the dataset has no rows")
	}

	result := engine.Aggregate(rows, w.Data)
	return View{
		Kind:     ViewChart,
		WidgetID: w.ID,
		Chart: &ChartView{
			ChartType:   w.Type,
			Title:       chartTitle(w),
			Result:      result,
			Colors:      Palette(w.Style.ColorScheme),
			ShowLegend:  w.Style.ShowLegend,
			LegendPos:   w.Style.LegendPosition,
			XAxisLabel:  labelOr(w.Style.XAxisLabel, w.Data.XAxis),
			YAxisLabel:  labelOr(w.Style.YAxisLabel, labelOr(w.Data.YAxis, "count")),
			Orientation: w.Style.Orientation,
		},
	}
}

func renderTable(w *report.Widget, rows dataset.Dataset, schema dataset.Schema) View {
	if len(rows) == 0 {
		return placeholder(w.ID, ReasonNoData, "the dataset has no rows")
	}

	filtered := engine.ApplyFilters(rows, w.Data.Filters)
	columns := schema.Columns()
	if len(columns) == 0 {
		columns = dataset.Sniff(rows[0]).Columns()
	}

	grid := make([][]string, len(filtered))
	for i, row := range filtered {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = dataset.CellString(row[col])
		}
		grid[i] = cells
	}

	return View{
		Kind:     ViewTable,
		WidgetID: w.ID,
		Table:    &TableView{Title: w.Style.Title, Columns: columns, Rows: grid},
	}
}

func renderKPI(w *report.Widget, rows dataset.Dataset) View {
	if w.Data.YAxis == "" {
		return placeholder(w.ID, ReasonIncomplete, "choose a value field")
	}
	if len(rows) == 0 {
		return placeholder(w.ID, ReasonNoData, "the dataset has no rows")
	}

	kpi := engine.AggregateKPI(rows, w.Data)
	return View{
		Kind:     ViewKPI,
		WidgetID: w.ID,
		KPI: &KPIView{
			Title:         labelOr(w.Style.Title, w.Data.YAxis),
			Value:         engine.FormatValue(kpi.Value, w.Style.NumberFormat),
			RawValue:      kpi.Value,
			Trend:         kpi.Trend,
			PercentChange: kpi.PercentChange,
		},
	}
}

func chartTitle(w *report.Widget) string {
	if w.Style.Title != "" {
		return w.Style.Title
	}
	return labelOr(w.Data.YAxis, "count") + " by " + w.Data.XAxis
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func placeholder(widgetID string, reason PlaceholderReason, hint string) View {
	return View{
		Kind:        ViewPlaceholder,
		WidgetID:    widgetID,
		Placeholder: &Placeholder{Reason: reason, Hint: hint},
	}
}
