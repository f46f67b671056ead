package handlers

import (
	"net/http"

	"engmarket/internal/services"
)

type SiteHandler struct {
	Service *services.SiteService
}

func (h *SiteHandler) GetChrome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Chrome(r.Context()))
}

// GetPage serves page metadata. The service page takes the service id
// from the "id" query parameter.
func (h *SiteHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := getParam(r, "page")
	meta, err := h.Service.Page(r.Context(), page, r.URL.Query().Get("id"))
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (h *SiteHandler) GetLanding(w http.ResponseWriter, r *http.Request) {
	landing, err := h.Service.Landing(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, landing)
}
