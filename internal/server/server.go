// Package server exposes one authoring session over HTTP. Handlers are
// thin: decode, call the session, map errors to status codes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/plotboard/plotboard/internal/logger"
	"github.com/plotboard/plotboard/internal/session"
)

// Server routes HTTP traffic to a session.
type Server struct {
	log    *logger.Logger
	sess   *session.Session
	router chi.Router
}

// New builds the router for one session.
func New(sess *session.Session, log *logger.Logger) *Server {
	s := &Server{log: log, sess: sess}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(serializeSession(sess))

	r.Route("/api", func(r chi.Router) {
		r.Route("/report", func(r chi.Router) {
			r.Get("/", s.handleGetReport)
			r.Post("/actions", s.handleDispatchAction)
			r.Get("/views", s.handleGetViews)

			r.Route("/widgets", func(r chi.Router) {
				r.Post("/", s.handleAddWidget)
				r.Get("/{id}/data", s.handleWidgetData)
				r.Post("/{id}/duplicate", s.handleDuplicateWidget)
				r.Delete("/{id}", s.handleDeleteWidget)
			})

			r.Post("/save", s.handleSaveReport)
			r.Post("/load/{name}", s.handleLoadReport)
		})

		r.Get("/reports", s.handleListReports)
		r.Get("/columns", s.handleGetColumns)

		r.Route("/model", func(r chi.Router) {
			r.Get("/", s.handleGetModel)
			r.Post("/tables/{id}/move", s.handleMoveTable)
			r.Post("/connect", s.handleConnect)
			r.Post("/cardinality", s.handleCommitCardinality)
			r.Delete("/chooser", s.handleDismissChooser)
			r.Delete("/relationships/{id}", s.handleDeleteRelationship)
		})

		r.Post("/export", s.handleExport)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
