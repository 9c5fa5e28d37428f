package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/plotboard/plotboard/internal/logger"
	"github.com/plotboard/plotboard/internal/session"
)

// serializeSession gives each request exclusive access to the session. The
// session's state is single-owner by contract; this lock is the enforcement
// at the HTTP boundary.
func serializeSession(sess *session.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess.Lock()
			defer sess.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one structured line per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.HTTPEvent().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
