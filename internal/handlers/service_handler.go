package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"engmarket/internal/models"
	"engmarket/internal/services"
)

type ServiceHandler struct {
	Listing  *services.ListingService
	Service  *services.ServiceService
	Defaults models.ListingQuery
	Log      *zap.Logger
}

func (h *ServiceHandler) defaults() models.ListingQuery {
	if h.Defaults.Sort == "" {
		return models.DefaultListingQuery()
	}
	return h.Defaults
}

// GetServices serves the marketplace listing.
func (h *ServiceHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	q := ParseListingQuery(r.URL.Query(), h.defaults())

	result, err := h.Listing.List(r.Context(), SessionID(r), q)
	if err != nil {
		orNop(h.Log).Error("listing", zap.Error(err))
		http.Error(w, "Failed to list services", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ServiceHandler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if id == "" {
		http.Error(w, "Missing service ID", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetServiceByID(r.Context(), SessionID(r), id)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		orNop(h.Log).Error("service details", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to get service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *ServiceHandler) GetProviderByID(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if id == "" {
		http.Error(w, "Missing provider ID", http.StatusBadRequest)
		return
	}

	details, err := h.Service.GetProviderByID(r.Context(), SessionID(r), id)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		orNop(h.Log).Error("provider details", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to get provider", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
