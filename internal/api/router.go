package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/johnnynv/gitea-bridge/internal/api/middleware"

	// Import generated docs
	_ "github.com/johnnynv/gitea-bridge/docs"
)

// endpoint describes one route for the service index at /
type endpoint struct {
	Pattern     string
	Description string
	handler     http.HandlerFunc
}

// endpoints lists every route served by the bridge
func (s *Server) endpoints() []endpoint {
	routes := []endpoint{
		{"GET /health", "Service health and upstream URL", s.handleHealth},
		{"GET /health/live", "Liveness probe", s.handleLiveness},
		{"GET /health/ready", "Readiness probe, checks the upstream", s.handleReadiness},

		{"GET /api/gitea/repo-info", "Repository information", s.handleRepoInfo},
		{"GET /api/gitea/commits", "Latest commits (limit, branch)", s.handleCommits},
		{"GET /api/gitea/branches", "Branches", s.handleBranches},
		{"GET /api/gitea/issues", "Issues and pull requests (state, type)", s.handleIssues},
		{"GET /api/gitea/stats", "Development statistics (days)", s.handleStats},
		{"POST /api/gitea/sync-environmental-data", "Wrap environmental data in a sync envelope, nothing is stored", s.handleSync},

		{"GET /status", "Runtime component status", s.handleStatus},
		{"GET /version", "Version information", s.handleVersion},
	}

	if s.storage != nil {
		routes = append(routes,
			endpoint{"GET /api/events", "Request journal, paginated (limit, offset, operation)", s.handleEvents},
			endpoint{"GET /api/events/recent", "Journal entries of the last 24 hours", s.handleRecentEvents},
			endpoint{"GET /api/events/stats", "Journal statistics", s.handleEventStats},
			endpoint{"GET /api/events/{id}", "Single journal entry", s.handleEvent},
		)
	}
	if s.metrics != nil {
		routes = append(routes, endpoint{"GET /metrics", "Prometheus metrics", s.metrics.Handler().ServeHTTP})
	}

	return routes
}

// setupRouter configures all API routes
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	for _, e := range s.endpoints() {
		mux.HandleFunc(e.Pattern, e.handler)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)

	// Swagger UI
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var handler http.Handler = mux
	if s.metrics != nil {
		// Innermost, so the mux sets r.Pattern on the request it sees.
		handler = middleware.Metrics(s.metrics, routeLabel)(handler)
	}
	handler = middleware.RequestLogger(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// routeLabel keeps metric cardinality bounded by labelling with the matched pattern
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

// handleIndex lists the available endpoints
// @Summary Service index
// @Description Lists the endpoints served by the bridge
// @Tags System
// @Produce json
// @Success 200 {object} JSONResponse{data=object}
// @Router / [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	routes := s.endpoints()
	listing := make([]string, 0, len(routes)+1)
	for _, e := range routes {
		listing = append(listing, e.Pattern+" - "+e.Description)
	}
	listing = append(listing, "GET /swagger/ - API documentation")

	NewJSONResponse(map[string]interface{}{
		"service":   ServiceName,
		"version":   GetVersion().App,
		"upstream":  s.config.UpstreamURL,
		"endpoints": listing,
	}).Write(w)
}
