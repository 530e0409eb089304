package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/terraglove/internal/store"
)

// SettingsHandler handles HTTP requests for tuning settings.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// GET /api/settings returns all settings; PUT /api/settings replaces the
// provided keys. Changed values take effect on the next pipeline start.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req) == 0 {
		writeError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	for key, value := range req {
		if err := h.store.Settings().Set(key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
	}

	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
