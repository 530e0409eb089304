package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/terraglove/internal/store"
)

// EventsHandler handles HTTP requests for the interaction event log.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Kind      string          `json:"kind"`
	Detail    json.RawMessage `json:"detail"`
	CreatedAt string          `json:"created_at"`
}

// ServeHTTP implements the http.Handler interface.
// GET /api/events?limit=N returns the most recent events, newest first.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events, err := h.store.Events().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, eventResponse{
			ID:        e.ID,
			Source:    e.Source,
			Kind:      e.Kind,
			Detail:    json.RawMessage(e.Detail),
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
