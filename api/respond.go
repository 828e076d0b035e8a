package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/pure-golang/mailto/apperr"
	"github.com/pure-golang/mailto/logger"
)

// jsonBody holds a decoded request object. Fields that are not JSON strings
// read as empty.
type jsonBody map[string]any

func (b jsonBody) String(field string) string {
	s, _ := b[field].(string)
	return s
}

// decodeBody parses the request as JSON. An empty body or a JSON value that is
// not an object gives an empty jsonBody. On failure the response is written.
func decodeBody(w http.ResponseWriter, r *http.Request) (jsonBody, bool) {
	var v any
	err := json.NewDecoder(r.Body).Decode(&v)
	if errors.Is(err, io.EOF) {
		return jsonBody{}, true
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: MsgBodyTooLarge})
			return nil, false
		}
		logger.FromContextWithErr(r.Context(), err).Debug("invalid json body")
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: MsgInvalidJSON})
		return nil, false
	}

	obj, _ := v.(map[string]any)
	return jsonBody(obj), true
}

// writeError maps an application error to a status and a body. fallback names
// the failed operation for storage errors and foreign errors.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	e, ok := apperr.As(err)
	if !ok {
		logger.FromContextWithErr(r.Context(), err).Error("unexpected error")
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: fallback, Details: err.Error()})
		return
	}

	switch e.Kind {
	case apperr.KindValidation:
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: e.Message})
		return
	case apperr.KindStorage:
		logger.FromContextWithErr(r.Context(), err).Error("template storage failed")
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: fallback, Details: e.Details()})
		return
	default:
		logger.FromContextWithErr(r.Context(), err).Error("request failed", "kind", e.Kind)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: e.Message, Details: e.Details()})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContextWithErr(r.Context(), err).Warn("failed to write response")
	}
}
