// Package http exposes a small control and status API for a running
// integration, used by farm wranglers and render dashboards to inspect
// the pipeline state of a host process and trigger registered commands.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Integration is the surface the API serves. The root facade implements
// it.
type Integration interface {
	// Status reports the lifecycle state and, when degraded, the reason.
	Status() (domain.EngineStatus, string)

	// Context returns the active pipeline context, or nil.
	Context() *domain.Context

	// Commands lists the registered commands.
	Commands() []domain.Command

	// Execute runs a registered command by name.
	Execute(ctx context.Context, name string) error
}

// Server serves the control API.
type Server struct {
	integration Integration
	logger      *slog.Logger
	gatherer    prometheus.Gatherer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer exposes the given metrics registry on /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// NewHandler creates the HTTP handler for the integration.
func NewHandler(integration Integration, opts ...ServerOption) http.Handler {
	server := &Server{
		integration: integration,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.getHealth)
	r.Get("/status", server.getStatus)
	r.Get("/context", server.getContext)
	r.Get("/commands", server.getCommands)
	r.Post("/commands/{name}", server.postCommand)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// StatusResponse is the GET /status payload.
type StatusResponse struct {
	Status  string          `json:"status"`
	Reason  string          `json:"reason,omitempty"`
	Context *domain.Context `json:"context,omitempty"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	status, reason := s.integration.Status()
	writeJSON(w, s.logger, StatusResponse{
		Status:  string(status),
		Reason:  reason,
		Context: s.integration.Context(),
	})
}

func (s *Server) getContext(w http.ResponseWriter, r *http.Request) {
	pipelineCtx := s.integration.Context()
	if pipelineCtx == nil {
		http.Error(w, "no active context", http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, pipelineCtx)
}

// CommandInfo is one entry in the GET /commands payload.
type CommandInfo struct {
	Name        string `json:"name"`
	App         string `json:"app,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func (s *Server) getCommands(w http.ResponseWriter, r *http.Request) {
	commands := s.integration.Commands()
	out := make([]CommandInfo, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, CommandInfo{
			Name:        cmd.Name,
			App:         cmd.Properties.App,
			Type:        string(cmd.Properties.Type),
			Description: cmd.Properties.Description,
		})
	}
	writeJSON(w, s.logger, out)
}

func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	known := false
	for _, cmd := range s.integration.Commands() {
		if cmd.Name == name {
			known = true
			break
		}
	}
	if !known {
		http.Error(w, "unknown command: "+name, http.StatusNotFound)
		return
	}

	if err := s.integration.Execute(r.Context(), name); err != nil {
		s.logger.Error("command failed", "command", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.logger, map[string]string{"status": "ok", "command": name})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
