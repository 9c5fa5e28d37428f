// Package report owns the canonical report state: the ordered list of
// widgets and the current selection.
//
// State only changes through the closed action set in actions.go, applied by
// one pure transition function. The Store wrapper in store.go is the single
// owner of a live State value — nothing outside this package mutates it.
package report

import (
	"github.com/plotboard/plotboard/internal/engine"
)

// WidgetType identifies what a widget renders.
type WidgetType string

const (
	TypeBar     WidgetType = "bar"
	TypeLine    WidgetType = "line"
	TypePie     WidgetType = "pie"
	TypeScatter WidgetType = "scatter"
	TypeTable   WidgetType = "table"
	TypeKPI     WidgetType = "kpi"
)

// KnownType reports whether t is one of the supported widget types.
func KnownType(t WidgetType) bool {
	switch t {
	case TypeBar, TypeLine, TypePie, TypeScatter, TypeTable, TypeKPI:
		return true
	}
	return false
}

// ChartLike reports whether t is an axis-driven chart type.
func ChartLike(t WidgetType) bool {
	switch t {
	case TypeBar, TypeLine, TypePie, TypeScatter:
		return true
	}
	return false
}

// Position is a widget's placement and size on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// StyleConfig holds a widget's presentation-only settings. None of these
// affect aggregation.
type StyleConfig struct {
	Title          string              `json:"title,omitempty"`
	ColorScheme    string              `json:"colorScheme,omitempty"`
	ShowLegend     bool                `json:"showLegend"`
	LegendPosition string              `json:"legendPosition,omitempty"`
	XAxisLabel     string              `json:"xAxisLabel,omitempty"`
	YAxisLabel     string              `json:"yAxisLabel,omitempty"`
	NumberFormat   engine.NumberFormat `json:"numberFormat,omitempty"`
	Orientation    string              `json:"orientation,omitempty"`
}

// Widget is one chart/table/KPI unit on the report canvas.
type Widget struct {
	ID       string            `json:"id"`
	Type     WidgetType        `json:"type"`
	Position Position          `json:"position"`
	Data     engine.DataConfig `json:"dataConfig"`
	Style    StyleConfig       `json:"styleConfig"`
}

// State is the full report-authoring state.
//
// Invariant: SelectedVisualID is either empty or equal to some visual's ID.
// Widgets are held by pointer so an action that does not touch a widget
// leaves its pointer identical — consumers can use pointer equality for
// cheap change detection.
type State struct {
	Visuals          []*Widget `json:"visuals"`
	SelectedVisualID string    `json:"selectedVisualId,omitempty"`
}

// Selected returns the currently selected widget, or nil.
func (s State) Selected() *Widget {
	return s.Find(s.SelectedVisualID)
}

// Find returns the widget with the given id, or nil.
func (s State) Find(id string) *Widget {
	if id == "" {
		return nil
	}
	for _, w := range s.Visuals {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// DefaultPosition is where a new widget lands on the canvas.
var DefaultPosition = Position{X: 50, Y: 50, W: 400, H: 300}

// DefaultDataConfig returns the data binding a new widget starts with.
func DefaultDataConfig() engine.DataConfig {
	return engine.DataConfig{
		Aggregation: engine.AggSum,
		Filters:     []engine.Filter{},
	}
}

// DefaultStyleConfig returns the presentation settings a new widget starts with.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		ColorScheme:    "default",
		ShowLegend:     true,
		LegendPosition: "bottom",
		NumberFormat:   engine.FormatNumber,
		Orientation:    "vertical",
	}
}
