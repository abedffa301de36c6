package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/bridge"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

// SyncResponseBody is the sync endpoint's response. It keeps the flat shape
// callers already parse instead of nesting under the standard envelope.
type SyncResponseBody struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	Data          types.SyncEnvelope `json:"data"`
	CommitMessage string             `json:"commitMessage"`
	Persisted     bool               `json:"persisted"`
	Timestamp     time.Time          `json:"timestamp"`
}

// handleRepoInfo returns the repository snapshot
// @Summary Repository information
// @Description Returns the normalized metadata of the configured Gitea repository
// @Tags Gitea
// @Produce json
// @Success 200 {object} JSONResponse{data=types.RepositoryInfo}
// @Failure 500 {object} ErrorResponse "Upstream or normalization failure"
// @Router /api/gitea/repo-info [get]
func (s *Server) handleRepoInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.bridge.GetRepositoryInfo(r.Context())
	if err != nil {
		s.writeOperationError(w, r, "Failed to fetch repository information", err)
		return
	}
	NewJSONResponse(info).Write(w)
}

// handleCommits returns the latest commits of a branch
// @Summary List commits
// @Description Returns commits newest first. limit is forwarded to the upstream unchanged.
// @Tags Gitea
// @Produce json
// @Param limit query int false "Number of commits" default(10)
// @Param branch query string false "Branch name" default(main)
// @Success 200 {object} JSONResponse{data=[]types.CommitRecord}
// @Failure 400 {object} ErrorResponse "Invalid query parameter"
// @Failure 500 {object} ErrorResponse "Upstream or normalization failure"
// @Router /api/gitea/commits [get]
func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	query := bridge.CommitsQuery{Branch: r.URL.Query().Get("branch")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if errors.Is(err, strconv.ErrRange) {
			NewErrorResponse("limit is out of range").WriteWithStatus(w, http.StatusBadRequest)
			return
		}
		if err != nil {
			NewErrorResponse("limit must be an integer").WriteWithStatus(w, http.StatusBadRequest)
			return
		}
		query.Limit = &limit
	}

	commits, err := s.bridge.GetCommits(r.Context(), query)
	if err != nil {
		s.writeOperationError(w, r, "Failed to fetch commits", err)
		return
	}
	NewJSONResponse(commits).Write(w)
}

// handleBranches returns the repository branches
// @Summary List branches
// @Description Returns the branches, unique by name
// @Tags Gitea
// @Produce json
// @Success 200 {object} JSONResponse{data=[]types.BranchRecord}
// @Failure 500 {object} ErrorResponse "Upstream or normalization failure"
// @Router /api/gitea/branches [get]
func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.bridge.GetBranches(r.Context())
	if err != nil {
		s.writeOperationError(w, r, "Failed to fetch branches", err)
		return
	}
	NewJSONResponse(branches).Write(w)
}

// handleIssues returns issues and pull requests
// @Summary List issues
// @Description Returns issues and pull requests filtered by the upstream
// @Tags Gitea
// @Produce json
// @Param state query string false "open, closed or all" default(open)
// @Param type query string false "all, issues or pulls" default(all)
// @Success 200 {object} JSONResponse{data=[]types.IssueRecord}
// @Failure 400 {object} ErrorResponse "Invalid query parameter"
// @Failure 500 {object} ErrorResponse "Upstream or normalization failure"
// @Router /api/gitea/issues [get]
func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := s.bridge.GetIssues(r.Context(), bridge.IssuesQuery{
		State: r.URL.Query().Get("state"),
		Type:  r.URL.Query().Get("type"),
	})
	if err != nil {
		s.writeOperationError(w, r, "Failed to fetch issues", err)
		return
	}
	NewJSONResponse(issues).Write(w)
}

// handleStats returns per-author statistics over a trailing window
// @Summary Development statistics
// @Description Folds the commits of the last N days into per-author counters
// @Tags Gitea
// @Produce json
// @Param days query int false "Window length in days" default(30)
// @Success 200 {object} JSONResponse{data=types.StatsResult}
// @Failure 400 {object} ErrorResponse "Invalid query parameter"
// @Failure 500 {object} ErrorResponse "Upstream or normalization failure"
// @Router /api/gitea/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			NewErrorResponse("days must be a positive integer").WriteWithStatus(w, http.StatusBadRequest)
			return
		}
		days = parsed
	}

	result, err := s.bridge.GetStatistics(r.Context(), days)
	if err != nil {
		s.writeOperationError(w, r, "Failed to compute statistics", err)
		return
	}
	NewJSONResponse(result).Write(w)
}

// handleSync wraps environmental data in a sync envelope without storing it
// @Summary Sync environmental data
// @Description Echoes the payload in a sync envelope. Nothing is committed or stored; persisted is always false.
// @Tags Gitea
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Environmental data"
// @Success 200 {object} SyncResponseBody
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Router /api/gitea/sync-environmental-data [post]
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	req, err := s.syncValidator.decode(r.Body)
	if err != nil {
		NewErrorResponse(err.Error()).WriteWithStatus(w, http.StatusBadRequest)
		return
	}

	result, err := s.bridge.SyncEnvironmentalData(r.Context(), req.Data, req.CommitMessage)
	if err != nil {
		s.writeOperationError(w, r, "Failed to sync environmental data", err)
		return
	}

	writeJSON(w, http.StatusOK, SyncResponseBody{
		Success:       true,
		Message:       result.Message,
		Data:          result.Result.Envelope,
		CommitMessage: result.Result.CommitMessage,
		Persisted:     result.Result.Persisted,
		Timestamp:     time.Now().UTC(),
	})
}

// writeOperationError maps a failed operation onto the error envelope:
// 400 for rejected caller input, 500 for everything else.
func (s *Server) writeOperationError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := http.StatusInternalServerError
	if bridge.IsInvalidInput(err) {
		status = http.StatusBadRequest
	}

	s.logger.WithFields(logger.Fields{
		"path":       r.URL.Path,
		"status":     status,
		"error_kind": bridge.Kind(err),
	}).WithRequestID(logger.RequestIDFromContext(r.Context())).WithError(err).Debug("Request failed")

	NewErrorResponse(message + ": " + err.Error()).WriteWithStatus(w, status)
}
