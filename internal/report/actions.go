package report

import (
	"github.com/plotboard/plotboard/internal/engine"
)

// Action is one member of the closed set of state transitions.
// The set is sealed: only the variants in this file implement it.
type Action interface {
	isAction()
}

// AddWidget appends a widget of the given type with default position and
// config, and selects it. ID must be a fresh unique id (the Store supplies
// one; tests may pass their own).
type AddWidget struct {
	ID   string
	Type WidgetType
}

// UpdateWidget replaces the named top-level parts of a widget.
// Nil fields are left untouched.
type UpdateWidget struct {
	ID    string
	Patch WidgetPatch
}

// WidgetPatch names the replaceable parts of a widget.
type WidgetPatch struct {
	Type     *WidgetType
	Position *Position
	Data     *engine.DataConfig
	Style    *StyleConfig
}

// DeleteWidget removes a widget by id. Deleting the selected widget clears
// the selection.
type DeleteWidget struct {
	ID string
}

// SelectWidget sets the selection. An empty ID deselects. Selecting an id
// with no matching widget leaves the state unchanged, keeping the selection
// invariant intact.
type SelectWidget struct {
	ID string
}

// MoveWidget replaces a widget's x/y only.
type MoveWidget struct {
	ID   string
	X, Y float64
}

// ResizeWidget replaces a widget's w/h only.
type ResizeWidget struct {
	ID   string
	W, H float64
}

// UpdateDataConfig shallow-merges a partial data binding into a widget.
type UpdateDataConfig struct {
	ID    string
	Patch DataConfigPatch
}

// DataConfigPatch is a partial engine.DataConfig; nil fields are untouched.
type DataConfigPatch struct {
	XAxis       *string
	YAxis       *string
	Category    *string
	Aggregation *engine.Aggregation
	Filters     *[]engine.Filter
}

// UpdateStyleConfig shallow-merges partial presentation settings into a widget.
type UpdateStyleConfig struct {
	ID    string
	Patch StyleConfigPatch
}

// StyleConfigPatch is a partial StyleConfig; nil fields are untouched.
type StyleConfigPatch struct {
	Title          *string
	ColorScheme    *string
	ShowLegend     *bool
	LegendPosition *string
	XAxisLabel     *string
	YAxisLabel     *string
	NumberFormat   *engine.NumberFormat
	Orientation    *string
}

// LoadReport replaces the entire state, used for persistence hydration.
type LoadReport struct {
	Snapshot State
}

func (AddWidget) isAction()         {}
func (UpdateWidget) isAction()      {}
func (DeleteWidget) isAction()      {}
func (SelectWidget) isAction()      {}
func (MoveWidget) isAction()        {}
func (ResizeWidget) isAction()      {}
func (UpdateDataConfig) isAction()  {}
func (UpdateStyleConfig) isAction() {}
func (LoadReport) isAction()        {}

// Reduce applies one action to a state and returns the next state. It never
// mutates its input: changed widgets are fresh allocations, untouched
// widgets keep their pointers. Actions referencing a nonexistent widget id
// return the state unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case AddWidget:
		w := &Widget{
			ID:       a.ID,
			Type:     a.Type,
			Position: DefaultPosition,
			Data:     DefaultDataConfig(),
			Style:    DefaultStyleConfig(),
		}
		visuals := make([]*Widget, 0, len(s.Visuals)+1)
		visuals = append(visuals, s.Visuals...)
		visuals = append(visuals, w)
		return State{Visuals: visuals, SelectedVisualID: w.ID}

	case UpdateWidget:
		return patchWidget(s, a.ID, func(w Widget) Widget {
			if a.Patch.Type != nil {
				w.Type = *a.Patch.Type
			}
			if a.Patch.Position != nil {
				w.Position = *a.Patch.Position
			}
			if a.Patch.Data != nil {
				w.Data = *a.Patch.Data
			}
			if a.Patch.Style != nil {
				w.Style = *a.Patch.Style
			}
			return w
		})

	case DeleteWidget:
		idx := indexOf(s.Visuals, a.ID)
		if idx < 0 {
			return s
		}
		visuals := make([]*Widget, 0, len(s.Visuals)-1)
		visuals = append(visuals, s.Visuals[:idx]...)
		visuals = append(visuals, s.Visuals[idx+1:]...)
		selected := s.SelectedVisualID
		if selected == a.ID {
			selected = ""
		}
		return State{Visuals: visuals, SelectedVisualID: selected}

	case SelectWidget:
		if a.ID != "" && s.Find(a.ID) == nil {
			return s
		}
		return State{Visuals: s.Visuals, SelectedVisualID: a.ID}

	case MoveWidget:
		return patchWidget(s, a.ID, func(w Widget) Widget {
			w.Position.X = a.X
			w.Position.Y = a.Y
			return w
		})

	case ResizeWidget:
		return patchWidget(s, a.ID, func(w Widget) Widget {
			w.Position.W = a.W
			w.Position.H = a.H
			return w
		})

	case UpdateDataConfig:
		return patchWidget(s, a.ID, func(w Widget) Widget {
			p := a.Patch
			if p.XAxis != nil {
				w.Data.XAxis = *p.XAxis
			}
			if p.YAxis != nil {
				w.Data.YAxis = *p.YAxis
			}
			if p.Category != nil {
				w.Data.Category = *p.Category
			}
			if p.Aggregation != nil {
				w.Data.Aggregation = *p.Aggregation
			}
			if p.Filters != nil {
				w.Data.Filters = *p.Filters
			}
			return w
		})

	case UpdateStyleConfig:
		return patchWidget(s, a.ID, func(w Widget) Widget {
			p := a.Patch
			if p.Title != nil {
				w.Style.Title = *p.Title
			}
			if p.ColorScheme != nil {
				w.Style.ColorScheme = *p.ColorScheme
			}
			if p.ShowLegend != nil {
				w.Style.ShowLegend = *p.ShowLegend
			}
			if p.LegendPosition != nil {
				w.Style.LegendPosition = *p.LegendPosition
			}
			if p.XAxisLabel != nil {
				w.Style.XAxisLabel = *p.XAxisLabel
			}
			if p.YAxisLabel != nil {
				w.Style.YAxisLabel = *p.YAxisLabel
			}
			if p.NumberFormat != nil {
				w.Style.NumberFormat = *p.NumberFormat
			}
			if p.Orientation != nil {
				w.Style.Orientation = *p.Orientation
			}
			return w
		})

	case LoadReport:
		return a.Snapshot

	default:
		return s
	}
}

// patchWidget replaces one widget by id through fn, copying the visuals
// slice but keeping every other widget pointer intact. Unknown ids are a
// no-op.
func patchWidget(s State, id string, fn func(Widget) Widget) State {
	idx := indexOf(s.Visuals, id)
	if idx < 0 {
		return s
	}

	visuals := make([]*Widget, len(s.Visuals))
	copy(visuals, s.Visuals)
	next := fn(*s.Visuals[idx])
	visuals[idx] = &next

	return State{Visuals: visuals, SelectedVisualID: s.SelectedVisualID}
}

func indexOf(visuals []*Widget, id string) int {
	if id == "" {
		return -1
	}
	for i, w := range visuals {
		if w.ID == id {
			return i
		}
	}
	return -1
}
