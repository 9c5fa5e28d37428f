package server

import (
	"encoding/json"
	"net/http"

	"github.com/plotboard/plotboard/internal/errs"
)

type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Kind = errs.KindOf(err).String()
	body.Error.Message = err.Error()
	writeJSON(w, statusOf(err), body)
}

// statusOf maps error kinds onto HTTP status codes. Anything the client
// could not have caused collapses to 500.
func statusOf(err error) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsInvalidInput(err), errs.IsDeserialization(err):
		return http.StatusBadRequest
	case errs.IsPermissionDenied(err):
		return http.StatusForbidden
	case errs.IsTimeout(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body, rejecting unknown fields so typos in
// client payloads fail loudly instead of silently no-oping.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrKindDeserialization, "malformed request body", err)
	}
	return nil
}
