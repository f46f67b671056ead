package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"engmarket/internal/services"
)

type ServiceFavoriteHandler struct {
	Service *services.ServiceFavoriteService
	Log     *zap.Logger
}

func (h *ServiceFavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	serviceID := getParam(r, "service_id")
	if serviceID == "" {
		http.Error(w, "Missing service_id", http.StatusBadRequest)
		return
	}

	fav, err := h.Service.Toggle(r.Context(), SessionID(r), serviceID)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		orNop(h.Log).Error("toggle favorite", zap.String("service_id", serviceID), zap.Error(err))
		http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (h *ServiceFavoriteHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	serviceID := getParam(r, "service_id")
	if serviceID == "" {
		http.Error(w, "Missing service_id", http.StatusBadRequest)
		return
	}

	fav, err := h.Service.IsFavorite(r.Context(), SessionID(r), serviceID)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		orNop(h.Log).Error("check favorite", zap.String("service_id", serviceID), zap.Error(err))
		http.Error(w, "Failed to check favorite status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (h *ServiceFavoriteHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Service.GetFavorites(r.Context(), SessionID(r))
	if err != nil {
		orNop(h.Log).Error("list favorites", zap.Error(err))
		http.Error(w, "Failed to get favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *ServiceFavoriteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Clear(r.Context(), SessionID(r)); err != nil {
		orNop(h.Log).Error("clear favorites", zap.Error(err))
		http.Error(w, "Failed to clear favorites", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
