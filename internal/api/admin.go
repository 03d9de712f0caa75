package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Oshichecker/internal/store"
	"github.com/MikeSquared-Agency/Oshichecker/internal/sweeper"
)

type AdminHandler struct {
	store   store.Store
	sweeper *sweeper.Sweeper
}

func NewAdminHandler(s store.Store, sw *sweeper.Sweeper) *AdminHandler {
	return &AdminHandler{store: s, sweeper: sw}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Sweep runs one expiry pass immediately.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if h.sweeper == nil {
		writeError(w, http.StatusServiceUnavailable, "sweeper disabled")
		return
	}
	n, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
