package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/logger"
	"github.com/plotboard/plotboard/internal/persist"
	"github.com/plotboard/plotboard/internal/render"
	"github.com/plotboard/plotboard/internal/report"
)

var salesData = dataset.Dataset{
	{"region": "North", "revenue": 100.0, "customer_id": 1.0},
	{"region": "South", "revenue": 25.0, "customer_id": 2.0},
}

var salesSchema = dataset.Schema{
	{Name: "region", Type: dataset.TypeCategorical},
	{Name: "revenue", Type: dataset.TypeNumeric},
	{Name: "customer_id", Type: dataset.TypeNumeric},
}

func newSession(t *testing.T) *Session {
	t.Helper()
	docs, err := persist.NewLocalDir(t.TempDir())
	require.NoError(t, err)
	s := New("sales", salesData, salesSchema, docs, logger.New(nil))
	t.Cleanup(s.Close)
	return s
}

func TestSessionComposition(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, "sales", s.DatasetName())
	assert.NotNil(t, s.Canvas())
	assert.NotNil(t, s.Editor())

	// The relationship model was inferred from the schema: sales plus the
	// synthetic customer table.
	model := s.Model().Model()
	require.Len(t, model.Tables, 2)
	assert.Equal(t, "customer", model.Tables[1].Name)
	assert.Len(t, model.Relationships, 1)
}

func TestSessionViews(t *testing.T) {
	s := newSession(t)

	id := s.Store().AddWidget(report.TypeBar)
	require.NoError(t, s.Editor().SetXAxis("region"))
	require.NoError(t, s.Editor().SetYAxis("revenue"))

	views := s.Views()
	require.Len(t, views, 1)
	assert.Equal(t, render.ViewChart, views[0].Kind)

	v, err := s.RenderWidget(id)
	require.NoError(t, err)
	assert.Equal(t, render.ViewChart, v.Kind)

	_, err = s.RenderWidget("missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	s.Store().AddWidget(report.TypeKPI)
	require.NoError(t, s.Editor().SetYAxis("revenue"))
	saved := s.Store().State()

	require.NoError(t, s.SaveReport(ctx, "draft"))

	// Mutate, then load the snapshot back.
	s.Store().AddWidget(report.TypeBar)
	require.Len(t, s.Store().State().Visuals, 2)

	require.NoError(t, s.LoadReport(ctx, "draft"))
	assert.Equal(t, saved, s.Store().State())

	docs, err := s.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "draft", docs[0].Name)
}

func TestSessionLoadMissingReport(t *testing.T) {
	s := newSession(t)
	err := s.LoadReport(context.Background(), "nope")
	assert.True(t, errs.IsNotFound(err))
}

func TestSessionDuplicateWidget(t *testing.T) {
	s := newSession(t)

	id := s.Store().AddWidget(report.TypeBar)
	require.NoError(t, s.Editor().SetXAxis("region"))

	cloneID, err := s.DuplicateWidget(id)
	require.NoError(t, err)

	src := s.Store().State().Find(id)
	clone := s.Store().State().Find(cloneID)
	require.NotNil(t, clone)
	assert.Equal(t, src.Data, clone.Data)
	assert.NotEqual(t, src.Position, clone.Position)

	_, err = s.DuplicateWidget("missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestSaveShortcutPersistsReport(t *testing.T) {
	s := newSession(t)
	s.Store().AddWidget(report.TypeBar)

	s.Shortcuts().Press("Mod+S")

	infos, err := s.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "sales", infos[0].Name)
}

func TestSessionShortcutTeardown(t *testing.T) {
	docs, err := persist.NewLocalDir(t.TempDir())
	require.NoError(t, err)
	s := New("sales", salesData, salesSchema, docs, logger.New(nil))

	id := s.Store().AddWidget(report.TypeBar)
	s.Canvas().ClickWidget(id)

	var saves int
	s.BindShortcut("Mod+S", func() { saves++ })
	s.Shortcuts().Press("Mod+S")
	assert.Equal(t, 1, saves)

	s.Close()

	// After teardown no handler fires: the widget survives a Delete press.
	s.Shortcuts().Press("Delete")
	s.Shortcuts().Press("Mod+S")
	assert.NotNil(t, s.Store().State().Find(id))
	assert.Equal(t, 1, saves)
}

func TestSessionExportCapture(t *testing.T) {
	s := newSession(t)

	key, err := s.ExportCapture(context.Background(), "draft", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Contains(t, key, "draft")

	_, err = s.ExportCapture(context.Background(), "draft", nil)
	assert.True(t, errs.IsInvalidInput(err))
}
