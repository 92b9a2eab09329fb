// Package server provides the local HTTP JSON API over the scan and mutation
// engines. External UIs consume it; every response is a fresh scan result,
// never cached state.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
	"github.com/rayhashcell/skills-manager/pkg/logger"
	"github.com/rayhashcell/skills-manager/pkg/mutate"
	"github.com/rayhashcell/skills-manager/pkg/registry"
	"github.com/rayhashcell/skills-manager/pkg/state"
	"github.com/rayhashcell/skills-manager/pkg/version"
)

// Config holds the configuration for the API server
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server exposes the aggregator and mutation engine as a JSON API
type Server struct {
	router     *mux.Router
	handler    http.Handler
	aggregator *state.Aggregator
	engine     *mutate.Engine
	config     *Config
	server     *http.Server
}

// New creates a new API server
func New(config *Config, aggregator *state.Aggregator, engine *mutate.Engine) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router:     mux.NewRouter(),
		aggregator: aggregator,
		engine:     engine,
		config:     config,
	}

	s.setupRoutes()

	// Wrap outside the router so CORS preflights and unmatched routes are
	// still logged and answered.
	s.handler = s.loggingMiddleware(s.corsMiddleware(s.router))

	return s, nil
}

// Handler returns the configured HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/app", s.handleAppData).Methods("GET")
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/agents/{id}", s.handleAgentDetail).Methods("GET")

	api.HandleFunc("/agents/{id}/skills/{skill}/link", s.handleLink).Methods("POST")
	api.HandleFunc("/agents/{id}/skills/{skill}/unlink", s.handleUnlink).Methods("POST")
	api.HandleFunc("/agents/{id}/skills/{skill}/upload", s.handleUpload).Methods("POST")
	api.HandleFunc("/agents/{id}/skills/{skill}", s.handleDeleteLocal).Methods("DELETE")

	api.HandleFunc("/skills/{skill}/link", s.handleLinkAgents).Methods("POST")
	api.HandleFunc("/skills/{skill}/unlink", s.handleUnlinkAgents).Methods("POST")
	api.HandleFunc("/agents/{id}/link", s.handleLinkSkills).Methods("POST")
	api.HandleFunc("/agents/{id}/unlink", s.handleUnlinkSkills).Methods("POST")
}

// loggingMiddleware attaches a request id to the context logger and logs
// each request with its final status
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		log := logger.G(r.Context()).WithField("request_id", requestID)
		ctx := logger.WithLogger(r.Context(), log)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		rw.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(rw, r.WithContext(ctx))

		log.WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// API handlers

// handleAppData handles GET /api/app
func (s *Server) handleAppData(w http.ResponseWriter, r *http.Request) {
	data, err := s.aggregator.AppData(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, data)
}

// handleAgentDetail handles GET /api/agents/{id}
func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.aggregator.AgentDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, detail)
}

// handleVersion handles GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, version.Get())
}

// handleLink handles POST /api/agents/{id}/skills/{skill}/link
func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.engine.Link(r.Context(), vars["id"], vars["skill"]); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUnlink handles POST /api/agents/{id}/skills/{skill}/unlink
func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.engine.Unlink(r.Context(), vars["id"], vars["skill"]); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteLocal handles DELETE /api/agents/{id}/skills/{skill}
func (s *Server) handleDeleteLocal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.engine.DeleteLocal(r.Context(), vars["id"], vars["skill"]); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUpload handles POST /api/agents/{id}/skills/{skill}/upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.engine.UploadToGlobal(r.Context(), vars["id"], vars["skill"]); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type agentsRequest struct {
	Agents []string `json:"agents"`
}

type skillsRequest struct {
	Skills []string `json:"skills"`
}

// handleLinkAgents handles POST /api/skills/{skill}/link
func (s *Server) handleLinkAgents(w http.ResponseWriter, r *http.Request) {
	var req agentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, err)
		return
	}

	result, err := s.engine.LinkAgents(r.Context(), mux.Vars(r)["skill"], req.Agents)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, result)
}

// handleUnlinkAgents handles POST /api/skills/{skill}/unlink
func (s *Server) handleUnlinkAgents(w http.ResponseWriter, r *http.Request) {
	var req agentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, err)
		return
	}

	result, err := s.engine.UnlinkAgents(r.Context(), mux.Vars(r)["skill"], req.Agents)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, result)
}

// handleLinkSkills handles POST /api/agents/{id}/link
func (s *Server) handleLinkSkills(w http.ResponseWriter, r *http.Request) {
	var req skillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, err)
		return
	}

	result, err := s.engine.LinkSkills(r.Context(), mux.Vars(r)["id"], req.Skills)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, result)
}

// handleUnlinkSkills handles POST /api/agents/{id}/unlink
func (s *Server) handleUnlinkSkills(w http.ResponseWriter, r *http.Request) {
	var req skillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, r, err)
		return
	}

	result, err := s.engine.UnlinkSkills(r.Context(), mux.Vars(r)["id"], req.Skills)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, result)
}

// Utility methods

// statusForError maps domain errors to HTTP status codes. Missing resources
// are 404s, failed preconditions 409s, bad paths 400s; anything unexpected
// is a 500.
func statusForError(err error) int {
	if errors.Is(err, registry.ErrUnknownAgent) {
		return http.StatusNotFound
	}

	switch errdefs.GetKind(err) {
	case errdefs.KindNotInGlobal:
		return http.StatusNotFound
	case errdefs.KindAlreadyLinked, errdefs.KindAlreadyInGlobal,
		errdefs.KindNotASymlink, errdefs.KindNotLocal, errdefs.KindAgentNotDetected:
		return http.StatusConflict
	case errdefs.KindInvalidPath:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response with the mapped status code
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	log := logger.G(r.Context()).WithError(err)
	if status >= 500 {
		log.Error("request failed")
	} else {
		log.Warn("request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"error":  err.Error(),
		"kind":   errdefs.GetKind(err).String(),
		"status": status,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to encode error response")
	}
}

// writeBadRequest rejects an unparseable request body
func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logger.G(r.Context()).WithError(err).Warn("invalid request body")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	response := map[string]any{
		"error":  "invalid request body",
		"status": http.StatusBadRequest,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to encode error response")
	}
}

// Start starts the API server and blocks until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:    address,
		Handler: s.handler,
	}

	logger.G(ctx).WithField("address", address).Info("starting API server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "API server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the API server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
