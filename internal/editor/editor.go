// Package editor derives the property-panel contract for the selected
// widget and translates panel edits into report store actions.
//
// The panel itself is declarative: Panel() describes which controls exist
// for the selected widget's type and which field choices each dropdown
// offers, partitioned by column class. All edits go through the store's
// action set, so the editor holds no widget state of its own.
package editor

import (
	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/engine"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/report"
)

// Panel describes the property controls for the selected widget.
type Panel struct {
	WidgetID   string
	WidgetType report.WidgetType

	// Field choices, partitioned by column class. Axis and category
	// dropdowns offer dimensions; the value dropdown offers measures.
	DimensionFields []string
	MeasureFields   []string

	ShowXAxis    bool
	ShowCategory bool
	ShowValue    bool

	// AggregationEnabled is false until a value field is chosen — an
	// aggregation without a measure is meaningless for everything but count.
	AggregationEnabled bool

	Data  engine.DataConfig
	Style report.StyleConfig
}

// FilterPatch is a partial filter edit; nil fields are untouched.
type FilterPatch struct {
	Field    *string
	Operator *engine.Operator
	Value    *string
}

// Editor binds the property panel to a report store and a dataset schema.
type Editor struct {
	store  *report.Store
	schema dataset.Schema
}

// New returns an Editor over the store using the declared schema. When no
// declared schema is available it falls back to sniffing the first row of
// data — a single row may misclassify sparse columns, so ingestion should
// declare types whenever it can.
func New(store *report.Store, schema dataset.Schema, data dataset.Dataset) *Editor {
	if len(schema) == 0 && len(data) > 0 {
		schema = dataset.Sniff(data[0])
	}
	return &Editor{store: store, schema: schema}
}

// Schema returns the column schema the editor classifies fields with.
func (e *Editor) Schema() dataset.Schema {
	return e.schema
}

// Panel returns the panel description for the selected widget, or nil when
// nothing is selected.
func (e *Editor) Panel() *Panel {
	w := e.store.State().Selected()
	if w == nil {
		return nil
	}

	p := &Panel{
		WidgetID:        w.ID,
		WidgetType:      w.Type,
		DimensionFields: e.schema.NonNumericColumns(),
		MeasureFields:   e.schema.NumericColumns(),
		Data:            w.Data,
		Style:           w.Style,
	}

	switch {
	case report.ChartLike(w.Type):
		p.ShowXAxis = true
		p.ShowCategory = true
		p.ShowValue = true
	case w.Type == report.TypeKPI:
		p.ShowValue = true
	}
	p.AggregationEnabled = p.ShowValue && w.Data.YAxis != ""

	return p
}

// SetXAxis binds the selected widget's x-axis to a dimension column.
func (e *Editor) SetXAxis(field string) error {
	if err := e.checkDimension(field); err != nil {
		return err
	}
	return e.patchSelected(report.DataConfigPatch{XAxis: &field})
}

// SetYAxis binds the selected widget's value to a measure column.
func (e *Editor) SetYAxis(field string) error {
	if err := e.checkMeasure(field); err != nil {
		return err
	}
	return e.patchSelected(report.DataConfigPatch{YAxis: &field})
}

// SetCategory binds the selected widget's series split to a dimension
// column. An empty field clears the split.
func (e *Editor) SetCategory(field string) error {
	if field != "" {
		if err := e.checkDimension(field); err != nil {
			return err
		}
	}
	return e.patchSelected(report.DataConfigPatch{Category: &field})
}

// SetAggregation changes the selected widget's reduction.
func (e *Editor) SetAggregation(agg engine.Aggregation) error {
	return e.patchSelected(report.DataConfigPatch{Aggregation: &agg})
}

// AppendFilter adds an empty equals-filter row for the user to fill in.
func (e *Editor) AppendFilter() error {
	w, err := e.selected()
	if err != nil {
		return err
	}
	next := append(cloneFilters(w.Data.Filters), engine.Filter{Operator: engine.OpEquals})
	return e.patchSelected(report.DataConfigPatch{Filters: &next})
}

// PatchFilterAt edits one filter row in place.
func (e *Editor) PatchFilterAt(i int, patch FilterPatch) error {
	w, err := e.selected()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Data.Filters) {
		return errs.Newf(errs.ErrKindInvalidInput, "filter index %d out of range", i)
	}

	next := cloneFilters(w.Data.Filters)
	f := &next[i]
	if patch.Field != nil {
		f.Field = *patch.Field
	}
	if patch.Operator != nil {
		f.Operator = *patch.Operator
	}
	if patch.Value != nil {
		f.Value = *patch.Value
	}
	return e.patchSelected(report.DataConfigPatch{Filters: &next})
}

// RemoveFilterAt deletes one filter row.
func (e *Editor) RemoveFilterAt(i int) error {
	w, err := e.selected()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Data.Filters) {
		return errs.Newf(errs.ErrKindInvalidInput, "filter index %d out of range", i)
	}

	next := make([]engine.Filter, 0, len(w.Data.Filters)-1)
	next = append(next, w.Data.Filters[:i]...)
	next = append(next, w.Data.Filters[i+1:]...)
	return e.patchSelected(report.DataConfigPatch{Filters: &next})
}

// SetStyle shallow-merges presentation settings into the selected widget.
func (e *Editor) SetStyle(patch report.StyleConfigPatch) error {
	w, err := e.selected()
	if err != nil {
		return err
	}
	e.store.Dispatch(report.UpdateStyleConfig{ID: w.ID, Patch: patch})
	return nil
}

func (e *Editor) selected() (*report.Widget, error) {
	w := e.store.State().Selected()
	if w == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "no widget selected")
	}
	return w, nil
}

func (e *Editor) patchSelected(patch report.DataConfigPatch) error {
	w, err := e.selected()
	if err != nil {
		return err
	}
	e.store.Dispatch(report.UpdateDataConfig{ID: w.ID, Patch: patch})
	return nil
}

func (e *Editor) checkDimension(field string) error {
	for _, name := range e.schema.NonNumericColumns() {
		if name == field {
			return nil
		}
	}
	return errs.Newf(errs.ErrKindInvalidInput, "%q is not a dimension column", field)
}

func (e *Editor) checkMeasure(field string) error {
	for _, name := range e.schema.NumericColumns() {
		if name == field {
			return nil
		}
	}
	return errs.Newf(errs.ErrKindInvalidInput, "%q is not a measure column", field)
}

func cloneFilters(filters []engine.Filter) []engine.Filter {
	next := make([]engine.Filter, len(filters))
	copy(next, filters)
	return next
}
