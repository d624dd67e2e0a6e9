package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ujupatipanno/trash-note/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// errStatus maps the sentinel errors of the collector operations onto HTTP
// statuses and client-safe messages.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrDuplicateArchive):
		return http.StatusConflict, "archive target already exists"
	case errors.Is(err, apperr.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, apperr.ErrSourceIsCollector):
		return http.StatusBadRequest, "cannot relocate from the collector note"
	case errors.Is(err, apperr.ErrInvalidTitle):
		return http.StatusBadRequest, "invalid title"
	case errors.Is(err, apperr.ErrInvalidSpan):
		return http.StatusBadRequest, "invalid selection or line"
	case errors.Is(err, apperr.ErrCollectorUnavailable):
		return http.StatusServiceUnavailable, "collector unavailable"
	case errors.Is(err, apperr.ErrAppendFailed):
		return http.StatusInternalServerError, "append failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
