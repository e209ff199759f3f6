package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Veraticus/finsense/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Message: details})
}

// writeDomainError maps err to a status code. Persistence failures keep
// their cause out of the reply and in the log.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
		writeError(w, status, message, "internal error")
		return
	}
	writeError(w, status, message, err.Error())
}

func mapDomainError(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidTransition),
		errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, common.ErrReviewIncomplete):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidCategory),
		errors.Is(err, common.ErrInvalidConfidence),
		errors.Is(err, common.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
