// Package session composes one authoring session: the dataset, the report
// store and its canvas, the property editor, the relationship model, and
// the persistence boundary. The HTTP layer talks to a Session; it never
// reaches into the parts directly.
package session

import (
	"context"
	"sync"

	"github.com/plotboard/plotboard/internal/canvas"
	"github.com/plotboard/plotboard/internal/dataset"
	"github.com/plotboard/plotboard/internal/editor"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/logger"
	"github.com/plotboard/plotboard/internal/persist"
	"github.com/plotboard/plotboard/internal/relmodel"
	"github.com/plotboard/plotboard/internal/render"
	"github.com/plotboard/plotboard/internal/report"
)

// Session is one user's authoring surface over one dataset.
//
// The composed parts (store, canvases, editor) are single-owner and hold no
// locks of their own. Callers serialize through Lock/Unlock; the HTTP layer
// holds the lock for the span of each request.
type Session struct {
	mu  sync.Mutex
	log *logger.Logger

	datasetName string
	data        dataset.Dataset
	schema      dataset.Schema

	store     *report.Store
	canvas    *canvas.Canvas
	editor    *editor.Editor
	model     *relmodel.Canvas
	shortcuts *canvas.Shortcuts

	docs persist.DocumentStore

	unsubs []func()
}

// New builds a session over an already-ingested dataset. The relationship
// model is inferred once, here; it never changes shape afterwards.
func New(datasetName string, data dataset.Dataset, schema dataset.Schema, docs persist.DocumentStore, log *logger.Logger) *Session {
	store := report.NewStore()

	s := &Session{
		log:         log,
		datasetName: datasetName,
		data:        data,
		schema:      schema,
		store:       store,
		canvas:      canvas.New(store),
		editor:      editor.New(store, schema, data),
		model:       relmodel.NewCanvas(relmodel.Infer(datasetName, schema)),
		shortcuts:   canvas.NewShortcuts(),
		docs:        docs,
	}

	// Screen-lifetime shortcuts; Close tears them down.
	s.unsubs = append(s.unsubs,
		s.shortcuts.Subscribe("Delete", s.canvas.DeleteSelected),
		s.shortcuts.Subscribe("Escape", s.canvas.Escape),
		s.shortcuts.Subscribe("Mod+S", s.saveShortcut),
	)

	return s
}

// saveShortcut saves the report under the dataset's name. Shortcut handlers
// cannot return errors, so failures only log.
func (s *Session) saveShortcut() {
	if err := s.SaveReport(context.Background(), s.datasetName); err != nil {
		s.log.ErrorWith("save shortcut failed", err, nil)
	}
}

// Lock takes exclusive access to the session's mutable state. The session's
// own methods do not lock; one caller-held lock spans a whole operation.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Close deregisters every shortcut handler registered for this session.
func (s *Session) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.shortcuts.Teardown()
}

// BindShortcut registers an additional session-scoped shortcut on top of
// the defaults. It is torn down with the session.
func (s *Session) BindShortcut(key string, fn func()) {
	s.unsubs = append(s.unsubs, s.shortcuts.Subscribe(key, fn))
}

// Accessors for the composed parts.

func (s *Session) DatasetName() string          { return s.datasetName }
func (s *Session) Data() dataset.Dataset        { return s.data }
func (s *Session) Schema() dataset.Schema       { return s.schema }
func (s *Session) Store() *report.Store         { return s.store }
func (s *Session) Canvas() *canvas.Canvas       { return s.canvas }
func (s *Session) Editor() *editor.Editor       { return s.editor }
func (s *Session) Model() *relmodel.Canvas      { return s.model }
func (s *Session) Shortcuts() *canvas.Shortcuts { return s.shortcuts }

// Views renders every widget of the current report state.
func (s *Session) Views() []render.View {
	return render.State(s.store.State(), s.data, s.schema)
}

// RenderWidget renders one widget by id.
func (s *Session) RenderWidget(id string) (render.View, error) {
	w := s.store.State().Find(id)
	if w == nil {
		return render.View{}, errs.Newf(errs.ErrKindNotFound, "no widget with id %q", id)
	}
	return render.Widget(w, s.data, s.schema), nil
}

// DuplicateWidget clones an existing widget the way the canvas context menu
// does, without needing an open menu.
func (s *Session) DuplicateWidget(id string) (string, error) {
	src := s.store.State().Find(id)
	if src == nil {
		return "", errs.Newf(errs.ErrKindNotFound, "no widget with id %q", id)
	}

	cloneID := s.store.AddWidget(src.Type)
	pos := src.Position
	pos.X += 2 * canvas.GridSize
	pos.Y += 2 * canvas.GridSize
	data := src.Data
	style := src.Style
	s.store.Dispatch(report.UpdateWidget{ID: cloneID, Patch: report.WidgetPatch{
		Position: &pos,
		Data:     &data,
		Style:    &style,
	}})
	return cloneID, nil
}

// SaveReport snapshots the current state as a named document.
func (s *Session) SaveReport(ctx context.Context, name string) error {
	doc := report.NewDocument(s.store.State(), s.datasetName)
	payload, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := s.docs.Save(ctx, name, payload); err != nil {
		return err
	}
	s.log.With().Str("report", name).Int("widgets", len(doc.Visuals)).Logger().
		Info("report saved")
	return nil
}

// LoadReport replaces the current state with a previously saved document.
// A malformed or wrong-version document fails with a deserialization error
// and leaves the current state untouched.
func (s *Session) LoadReport(ctx context.Context, name string) error {
	payload, err := s.docs.Load(ctx, name)
	if err != nil {
		return err
	}
	doc, err := report.UnmarshalDocument(payload)
	if err != nil {
		return err
	}
	s.store.Dispatch(report.LoadReport{Snapshot: doc.State()})
	s.log.With().Str("report", name).Logger().Info("report loaded")
	return nil
}

// ListReports returns the saved documents.
func (s *Session) ListReports(ctx context.Context) ([]persist.DocumentInfo, error) {
	return s.docs.List(ctx)
}

// ExportCapture stores a rendered-surface capture produced by an external
// export collaborator. The session does no image encoding itself.
func (s *Session) ExportCapture(ctx context.Context, name string, png []byte) (string, error) {
	if len(png) == 0 {
		return "", errs.New(errs.ErrKindInvalidInput, "capture payload is empty")
	}
	key, err := s.docs.SaveCapture(ctx, name, png)
	if err != nil {
		return "", err
	}
	s.log.With().Str("capture", key).Int("bytes", len(png)).Logger().
		Info("capture exported")
	return key, nil
}
