package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/relmodel"
	"github.com/plotboard/plotboard/internal/report"
)

// --- report state ---

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Store().State())
}

func (s *Server) handleDispatchAction(w http.ResponseWriter, r *http.Request) {
	var env actionEnvelope
	if err := decodeJSON(r, &env); err != nil {
		writeError(w, err)
		return
	}
	action, err := decodeAction(env)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Store().Dispatch(action))
}

func (s *Server) handleGetViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Views())
}

// --- widgets ---

type addWidgetRequest struct {
	Type report.WidgetType `json:"type"`
}

type widgetIDResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req addWidgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !report.KnownType(req.Type) {
		writeError(w, errs.Newf(errs.ErrKindInvalidInput, "unknown widget type %q", req.Type))
		return
	}
	id := s.sess.Store().AddWidget(req.Type)
	writeJSON(w, http.StatusCreated, widgetIDResponse{ID: id})
}

func (s *Server) handleWidgetData(w http.ResponseWriter, r *http.Request) {
	view, err := s.sess.RenderWidget(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDuplicateWidget(w http.ResponseWriter, r *http.Request) {
	id, err := s.sess.DuplicateWidget(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, widgetIDResponse{ID: id})
}

func (s *Server) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.sess.Store().State().Find(id) == nil {
		writeError(w, errs.Newf(errs.ErrKindNotFound, "widget %q not found", id))
		return
	}
	s.sess.Store().Dispatch(report.DeleteWidget{ID: id})
	w.WriteHeader(http.StatusNoContent)
}

// --- columns ---

type columnsResponse struct {
	Dimensions []string `json:"dimensions"`
	Measures   []string `json:"measures"`
}

func (s *Server) handleGetColumns(w http.ResponseWriter, r *http.Request) {
	schema := s.sess.Editor().Schema()
	writeJSON(w, http.StatusOK, columnsResponse{
		Dimensions: schema.NonNumericColumns(),
		Measures:   schema.NumericColumns(),
	})
}

// --- persistence ---

type saveRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.sess.SaveReport(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadReport(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.LoadReport(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Store().State())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	infos, err := s.sess.ListReports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// --- data model ---

type modelResponse struct {
	Model    *relmodel.DataModel `json:"model"`
	Pending  *relmodel.Endpoint  `json:"pendingConnection,omitempty"`
	Chooser  *relmodel.Chooser   `json:"cardinalityChooser,omitempty"`
	Selected string              `json:"selectedRelationshipId,omitempty"`
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m := s.sess.Model()
	writeJSON(w, http.StatusOK, modelResponse{
		Model:    m.Model(),
		Pending:  m.Pending(),
		Chooser:  m.ActiveChooser(),
		Selected: m.SelectedRelationship(),
	})
}

type moveTableRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleMoveTable(w http.ResponseWriter, r *http.Request) {
	var req moveTableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if s.sess.Model().Model().FindTable(id) == nil {
		writeError(w, errs.Newf(errs.ErrKindNotFound, "table %q not found", id))
		return
	}
	s.sess.Model().Model().MoveTable(id, req.X, req.Y)
	w.WriteHeader(http.StatusNoContent)
}

type connectRequest struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

type connectResponse struct {
	Pending *relmodel.Endpoint `json:"pendingConnection,omitempty"`
	Chooser *relmodel.Chooser  `json:"cardinalityChooser,omitempty"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m := s.sess.Model()
	if t := m.Model().FindTable(req.Table); t == nil {
		writeError(w, errs.Newf(errs.ErrKindNotFound, "table %q not found", req.Table))
		return
	}
	m.ClickConnect(req.Table, req.Column)
	writeJSON(w, http.StatusOK, connectResponse{
		Pending: m.Pending(),
		Chooser: m.ActiveChooser(),
	})
}

type cardinalityRequest struct {
	Cardinality relmodel.Cardinality `json:"cardinality"`
}

type relationshipIDResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCommitCardinality(w http.ResponseWriter, r *http.Request) {
	var req cardinalityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := s.sess.Model().CommitCardinality(req.Cardinality)
	if id == "" {
		writeError(w, errs.New(errs.ErrKindInvalidInput, "no connection awaiting a cardinality"))
		return
	}
	writeJSON(w, http.StatusCreated, relationshipIDResponse{ID: id})
}

func (s *Server) handleDismissChooser(w http.ResponseWriter, r *http.Request) {
	s.sess.Model().DismissChooser()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	s.sess.Model().Model().RemoveRelationship(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- export ---

type exportRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"` // base64-encoded PNG
}

type exportResponse struct {
	Key string `json:"key"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	key, err := s.sess.ExportCapture(r.Context(), req.Name, req.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exportResponse{Key: key})
}
