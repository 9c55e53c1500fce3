// Package api exposes the HTTP surface: generation endpoints, tenant
// CRUD, health, and metrics. Every route passes the admission gate
// before handler logic, and every error leaves through the translator.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftly/craftd/internal/core/config"
	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/service/generation"
	"github.com/craftly/craftd/internal/service/licensing"
	"github.com/craftly/craftd/internal/service/workspace"
)

// HealthChecker reports one dependency's availability.
type HealthChecker func(ctx context.Context) error

// Server hosts the HTTP API.
type Server struct {
	server     *http.Server
	admission  *admission.Controller
	translator *translator
	tiers      tierResolver
	costs      config.CostConfig
	log        *slog.Logger

	generation *generation.Service
	licensing  *licensing.Service
	workspaces *workspace.Service

	health map[string]HealthChecker
}

// NewServer assembles the mux with middleware and routes.
func NewServer(
	port int,
	production bool,
	costs config.CostConfig,
	ctrl *admission.Controller,
	gen *generation.Service,
	lic *licensing.Service,
	ws *workspace.Service,
	health map[string]HealthChecker,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		admission:  ctrl,
		translator: &translator{log: log, production: production},
		costs:      costs,
		log:        log,
		generation: gen,
		licensing:  lic,
		workspaces: ws,
		health:     health,
	}
	s.tiers = s.workspaceTier

	mux := http.NewServeMux()

	mux.Handle("POST /v1/captions", s.withAdmission(costs.Captions, http.HandlerFunc(s.handleGenerateCaption)))
	mux.Handle("POST /v1/images", s.withAdmission(costs.Images, http.HandlerFunc(s.handleGenerateImage)))
	mux.Handle("POST /v1/assets/{id}/verify-license", s.withAdmission(costs.Verify, http.HandlerFunc(s.handleVerifyLicense)))

	mux.Handle("POST /v1/workspaces", s.withAdmission(costs.Default, http.HandlerFunc(s.handleCreateWorkspace)))
	mux.Handle("GET /v1/workspaces", s.withAdmission(costs.Default, http.HandlerFunc(s.handleListWorkspaces)))
	mux.Handle("GET /v1/workspaces/{id}", s.withAdmission(costs.Default, http.HandlerFunc(s.handleGetWorkspace)))
	mux.Handle("PUT /v1/workspaces/{id}/brand-kit", s.withAdmission(costs.Default, http.HandlerFunc(s.handleSetBrandKit)))
	mux.Handle("POST /v1/workspaces/{id}/campaigns", s.withAdmission(costs.Default, http.HandlerFunc(s.handleCreateCampaign)))
	mux.Handle("GET /v1/workspaces/{id}/campaigns", s.withAdmission(costs.Default, http.HandlerFunc(s.handleListCampaigns)))
	mux.Handle("GET /v1/campaigns/{id}/assets", s.withAdmission(costs.Default, http.HandlerFunc(s.handleListAssets)))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: withRequestID(withLogging(log, mux)),
	}
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// workspaceTier resolves the caller's tier from the X-Workspace-ID
// header. Unknown or absent workspaces ride on the basic tier.
func (s *Server) workspaceTier(r *http.Request) admission.Tier {
	raw := r.Header.Get("X-Workspace-ID")
	if raw == "" {
		return admission.TierBasic
	}
	id, err := parseUUID(raw)
	if err != nil {
		return admission.TierBasic
	}
	return s.workspaces.Tier(r.Context(), id)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type dep struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	deps := make(map[string]dep, len(s.health))
	healthy := true
	for name, check := range s.health {
		if err := check(r.Context()); err != nil {
			healthy = false
			deps[name] = dep{Status: "down", Error: err.Error()}
		} else {
			deps[name] = dep{Status: "up"}
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, r, status, map[string]any{"status": overall, "dependencies": deps})
}
