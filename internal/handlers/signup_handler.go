package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"engmarket/internal/models"
	"engmarket/internal/services"
)

type SignupHandler struct {
	Service *services.SignupService
	Log     *zap.Logger
}

func (h *SignupHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Current(r.Context(), SessionID(r))
	if err != nil {
		orNop(h.Log).Error("sign-up draft", zap.Error(err))
		http.Error(w, "Failed to load sign-up", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SignupHandler) SubmitAccount(w http.ResponseWriter, r *http.Request) {
	var in models.AccountDetails
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.Service.SubmitAccount(r.Context(), SessionID(r), in)
	h.respond(w, view, err)
}

func (h *SignupHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfessionalProfile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.Service.SubmitProfile(r.Context(), SessionID(r), in)
	h.respond(w, view, err)
}

func (h *SignupHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Back(r.Context(), SessionID(r))
	h.respond(w, view, err)
}

func (h *SignupHandler) respond(w http.ResponseWriter, view models.SignupDraftView, err error) {
	var fe models.FieldErrors
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, view)
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: fe, Draft: &view})
	case writeDomainError(w, err):
	default:
		orNop(h.Log).Error("sign-up step", zap.Error(err))
		http.Error(w, "Failed to update sign-up", http.StatusInternalServerError)
	}
}

func (h *SignupHandler) Finish(w http.ResponseWriter, r *http.Request) {
	reg, err := h.Service.Finish(r.Context(), SessionID(r))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		orNop(h.Log).Error("sign-up finish", zap.Error(err))
		http.Error(w, "Failed to complete sign-up", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *SignupHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Abandon(r.Context(), SessionID(r)); err != nil {
		orNop(h.Log).Error("sign-up abandon", zap.Error(err))
		http.Error(w, "Failed to discard sign-up", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
