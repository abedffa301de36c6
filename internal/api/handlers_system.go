package api

import (
	"context"
	"net/http"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/gitea"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

// HealthResponse is the /health payload
type HealthResponse struct {
	Status     string                     `json:"status" example:"healthy"`
	Service    string                     `json:"service" example:"gitea-bridge"`
	Timestamp  time.Time                  `json:"timestamp"`
	GiteaURL   string                     `json:"giteaUrl" example:"https://gitea.cleverapps.io"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// handleHealth returns the service health
// @Summary Service health
// @Description Returns the service status and the upstream Gitea URL
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "A component is unhealthy"
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Service:   ServiceName,
		Timestamp: time.Now().UTC(),
		GiteaURL:  s.config.UpstreamURL,
	}

	status := http.StatusOK
	if s.runtime != nil {
		runtimeHealth := s.runtime.Health(r.Context())
		health.Components = runtimeHealth.Components
		if !runtimeHealth.Healthy {
			health.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, health)
}

// handleLiveness returns liveness probe status
// @Summary Liveness probe
// @Description The process is up and serving HTTP
// @Tags Health
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Alive"
// @Router /health/live [get]
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(map[string]string{
		"status": "alive",
	}).Write(w)
}

// handleReadiness checks that the upstream answers
// @Summary Readiness probe
// @Description Ready when the upstream Gitea answers its version endpoint
// @Tags Health
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Ready"
// @Failure 503 {object} ErrorResponse "Upstream unreachable"
// @Router /health/ready [get]
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.prober == nil {
		NewJSONResponse(map[string]string{"status": "ready"}).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.ReadinessTimeout)
	defer cancel()

	version, err := s.prober.GetVersion(ctx)
	if err != nil {
		reason := "upstream not reachable"
		switch {
		case gitea.IsUnauthorized(err):
			reason = "upstream rejected the configured token"
		case gitea.IsNotFound(err):
			reason = "upstream has no version endpoint"
		}
		s.logger.WithFields(logger.Fields{
			"operation":     "readiness",
			"authenticated": s.prober.Authenticated(),
		}).WithError(err).Warn(reason)
		NewErrorResponse(reason + ": " + err.Error()).WriteWithStatus(w, http.StatusServiceUnavailable)
		return
	}

	NewJSONResponse(map[string]interface{}{
		"status":        "ready",
		"gitea_version": version,
		"authenticated": s.prober.Authenticated(),
	}).Write(w)
}

// handleStatus returns system status and uptime
// @Summary Get system status
// @Description Returns runtime status and component information
// @Tags System
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "System status"
// @Router /status [get]
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.runtime == nil {
		NewJSONResponse(map[string]interface{}{
			"state":   "running",
			"message": "Runtime information not available",
		}).Write(w)
		return
	}

	NewJSONResponse(s.runtime.GetStatus()).Write(w)
}

// handleVersion returns API and application version information
// @Summary Get version information
// @Description Returns API and application version details
// @Tags System
// @Produce json
// @Success 200 {object} JSONResponse{data=APIVersion} "Version information"
// @Router /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(GetVersion()).Write(w)
}
