package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/engine"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/report"
)

var salesSchema = dataset.Schema{
	{Name: "region", Type: dataset.TypeCategorical},
	{Name: "product", Type: dataset.TypeCategorical},
	{Name: "sale_date", Type: dataset.TypeDate},
	{Name: "revenue", Type: dataset.TypeNumeric},
	{Name: "units", Type: dataset.TypeNumeric},
}

func newEditor(t *testing.T, widgetType report.WidgetType) (*Editor, *report.Store, string) {
	t.Helper()
	store := report.NewStore()
	id := store.AddWidget(widgetType)
	return New(store, salesSchema, nil), store, id
}

func TestPanelNilWithoutSelection(t *testing.T) {
	store := report.NewStore()
	e := New(store, salesSchema, nil)
	assert.Nil(t, e.Panel())
}

func TestPanelPerWidgetType(t *testing.T) {
	tests := []struct {
		widgetType   report.WidgetType
		showXAxis    bool
		showCategory bool
		showValue    bool
	}{
		{report.TypeBar, true, true, true},
		{report.TypeLine, true, true, true},
		{report.TypePie, true, true, true},
		{report.TypeScatter, true, true, true},
		{report.TypeKPI, false, false, true},
		{report.TypeTable, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.widgetType), func(t *testing.T) {
			e, _, id := newEditor(t, tt.widgetType)
			p := e.Panel()
			require.NotNil(t, p)
			assert.Equal(t, id, p.WidgetID)
			assert.Equal(t, tt.showXAxis, p.ShowXAxis)
			assert.Equal(t, tt.showCategory, p.ShowCategory)
			assert.Equal(t, tt.showValue, p.ShowValue)
		})
	}
}

func TestPanelFieldPartition(t *testing.T) {
	e, _, _ := newEditor(t, report.TypeBar)
	p := e.Panel()
	require.NotNil(t, p)
	assert.Equal(t, []string{"region", "product", "sale_date"}, p.DimensionFields)
	assert.Equal(t, []string{"revenue", "units"}, p.MeasureFields)
}

func TestAggregationGatedOnValueField(t *testing.T) {
	e, _, _ := newEditor(t, report.TypeBar)
	assert.False(t, e.Panel().AggregationEnabled)

	require.NoError(t, e.SetYAxis("revenue"))
	assert.True(t, e.Panel().AggregationEnabled)
}

func TestFieldBindingValidation(t *testing.T) {
	e, store, id := newEditor(t, report.TypeBar)

	require.NoError(t, e.SetXAxis("region"))
	require.NoError(t, e.SetYAxis("revenue"))
	require.NoError(t, e.SetCategory("product"))

	w := store.State().Find(id)
	assert.Equal(t, "region", w.Data.XAxis)
	assert.Equal(t, "revenue", w.Data.YAxis)
	assert.Equal(t, "product", w.Data.Category)

	// Measures are not dimensions and vice versa.
	assert.True(t, errs.IsInvalidInput(e.SetXAxis("revenue")))
	assert.True(t, errs.IsInvalidInput(e.SetYAxis("region")))
	assert.True(t, errs.IsInvalidInput(e.SetCategory("units")))
	assert.True(t, errs.IsInvalidInput(e.SetXAxis("nope")))

	// Clearing the series split is always allowed.
	require.NoError(t, e.SetCategory(""))
	assert.Empty(t, store.State().Find(id).Data.Category)
}

func TestEditsRequireSelection(t *testing.T) {
	store := report.NewStore()
	store.AddWidget(report.TypeBar)
	store.Dispatch(report.SelectWidget{ID: ""})
	e := New(store, salesSchema, nil)

	assert.True(t, errs.IsInvalidInput(e.SetXAxis("region")))
	assert.True(t, errs.IsInvalidInput(e.AppendFilter()))
	assert.True(t, errs.IsInvalidInput(e.SetStyle(report.StyleConfigPatch{})))
}

func TestFilterLifecycle(t *testing.T) {
	e, store, id := newEditor(t, report.TypeBar)

	require.NoError(t, e.AppendFilter())
	filters := store.State().Find(id).Data.Filters
	require.Len(t, filters, 1)
	assert.Equal(t, engine.OpEquals, filters[0].Operator)
	assert.Empty(t, filters[0].Field)

	op := engine.OpGreaterThan
	require.NoError(t, e.PatchFilterAt(0, FilterPatch{
		Field:    strPtr("revenue"),
		Operator: &op,
		Value:    strPtr("100"),
	}))
	filters = store.State().Find(id).Data.Filters
	assert.Equal(t, engine.Filter{Field: "revenue", Operator: engine.OpGreaterThan, Value: "100"}, filters[0])

	require.NoError(t, e.AppendFilter())
	require.NoError(t, e.PatchFilterAt(1, FilterPatch{Field: strPtr("region"), Value: strPtr("North")}))
	require.Len(t, store.State().Find(id).Data.Filters, 2)

	require.NoError(t, e.RemoveFilterAt(0))
	filters = store.State().Find(id).Data.Filters
	require.Len(t, filters, 1)
	assert.Equal(t, "region", filters[0].Field)

	assert.True(t, errs.IsInvalidInput(e.PatchFilterAt(5, FilterPatch{})))
	assert.True(t, errs.IsInvalidInput(e.RemoveFilterAt(-1)))
}

func TestFilterEditDoesNotMutatePriorState(t *testing.T) {
	e, store, id := newEditor(t, report.TypeBar)

	require.NoError(t, e.AppendFilter())
	before := store.State().Find(id).Data.Filters

	require.NoError(t, e.PatchFilterAt(0, FilterPatch{Field: strPtr("region")}))
	assert.Empty(t, before[0].Field, "edit must replace the slice, not write through it")
}

func TestSniffFallback(t *testing.T) {
	store := report.NewStore()
	store.AddWidget(report.TypeBar)
	data := dataset.Dataset{{"city": "Oslo", "population": 709037.0}}

	e := New(store, nil, data)
	p := e.Panel()
	require.NotNil(t, p)
	assert.ElementsMatch(t, []string{"city"}, p.DimensionFields)
	assert.ElementsMatch(t, []string{"population"}, p.MeasureFields)
}

func TestSetStyle(t *testing.T) {
	e, store, id := newEditor(t, report.TypeBar)

	title := "Revenue by Region"
	legend := false
	require.NoError(t, e.SetStyle(report.StyleConfigPatch{Title: &title, ShowLegend: &legend}))

	w := store.State().Find(id)
	assert.Equal(t, "Revenue by Region", w.Style.Title)
	assert.False(t, w.Style.ShowLegend)
	assert.Equal(t, "default", w.Style.ColorScheme, "untouched fields keep defaults")
}

func strPtr(s string) *string { return &s }
