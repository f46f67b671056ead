package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"engmarket/internal/models"
)

// orNop lets handlers built without a logger stay silent.
func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type validationResponse struct {
	Errors models.FieldErrors      `json:"errors"`
	Draft  *models.SignupDraftView `json:"draft,omitempty"`
}

// writeDomainError maps the sentinel errors to status codes. It reports
// false when err is not one of them.
func writeDomainError(w http.ResponseWriter, err error) bool {
	var fe models.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: fe})
	case errors.Is(err, models.ErrServiceNotFound),
		errors.Is(err, models.ErrProviderNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrDraftNotFound),
		errors.Is(err, models.ErrPageNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrWrongStep):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		return false
	}
	return true
}
