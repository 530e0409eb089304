// Package server provides the HTTP surface for the gesture interaction
// service: viewer websocket, camera preview stream, and the settings and
// event APIs.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/terraglove/internal/arsession"
	"github.com/ayusman/terraglove/internal/capture"
	"github.com/ayusman/terraglove/internal/gesture"
	"github.com/ayusman/terraglove/internal/input"
	"github.com/ayusman/terraglove/internal/server/api"
	"github.com/ayusman/terraglove/internal/store"
	"github.com/ayusman/terraglove/internal/transform"
)

// Config holds the server configuration. Nil fields disable the routes that
// need them.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Arbiter   *input.Arbiter
	Object    *transform.Object
	Emitter   *gesture.Emitter
	Session   *arsession.Controller
}

// Server is the HTTP server for the gesture interaction service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	viewer *ViewerHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store))
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.Arbiter != nil && s.config.Object != nil && s.config.Emitter != nil && s.config.Session != nil {
		s.viewer = NewViewerHandler(s.config.Arbiter, s.config.Object, s.config.Emitter, s.config.Session)
		s.mux.Handle("/api/viewer", s.viewer)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close stops the viewer broadcast loop and drops its connections. The
// listener itself is torn down with the process.
func (s *Server) Close() {
	if s.viewer != nil {
		s.viewer.Close()
	}
}
