package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/johnnynv/gitea-bridge/internal/storage"
	"github.com/johnnynv/gitea-bridge/pkg/logger"
	"github.com/johnnynv/gitea-bridge/pkg/types"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// handleEvents returns journal entries with pagination
// @Summary List journal entries
// @Description Operation outcomes recorded by the bridge, newest first. Payloads are never recorded.
// @Tags Events
// @Produce json
// @Param limit query int false "Number of events to return (max 1000)" default(100)
// @Param offset query int false "Number of events to skip" default(0)
// @Param operation query string false "Only events of this operation"
// @Success 200 {object} JSONResponse{data=object} "Paginated list of events"
// @Failure 400 {object} ErrorResponse "Invalid query parameter"
// @Router /api/events [get]
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	limit, ok := parseBoundedInt(query.Get("limit"), defaultEventLimit, 1, maxEventLimit)
	if !ok {
		NewErrorResponse("limit must be an integer between 1 and 1000").WriteWithStatus(w, http.StatusBadRequest)
		return
	}
	offset, ok := parseBoundedInt(query.Get("offset"), 0, 0, -1)
	if !ok {
		NewErrorResponse("offset must be a non-negative integer").WriteWithStatus(w, http.StatusBadRequest)
		return
	}

	var (
		events []*types.Event
		err    error
	)
	operation := query.Get("operation")
	if operation != "" {
		events, err = s.storage.GetEventsByOperation(ctx, operation, limit)
	} else {
		events, err = s.storage.GetEvents(ctx, limit, offset)
	}
	if err != nil {
		s.logger.WithFields(logger.Fields{
			"error":     err.Error(),
			"limit":     limit,
			"offset":    offset,
			"operation": operation,
		}).Error("Failed to get events")

		NewErrorResponse("Failed to retrieve events").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}

	NewJSONResponse(map[string]interface{}{
		"total":  len(events),
		"limit":  limit,
		"offset": offset,
		"events": events,
	}).Write(w)
}

// handleRecentEvents returns journal entries of the last 24 hours
// @Summary Recent journal entries
// @Description Journal entries of the last 24 hours, oldest first
// @Tags Events
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Recent events"
// @Router /api/events/recent [get]
func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	events, err := s.storage.GetEventsSince(r.Context(), since)
	if err != nil {
		s.logger.WithFields(logger.Fields{
			"error": err.Error(),
			"since": since,
		}).Error("Failed to get recent events")

		NewErrorResponse("Failed to retrieve recent events").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}

	NewJSONResponse(map[string]interface{}{
		"total":  len(events),
		"since":  since,
		"events": events,
	}).Write(w)
}

// handleEventStats returns journal statistics
// @Summary Journal statistics
// @Description Totals, failures and counts per operation
// @Tags Events
// @Produce json
// @Success 200 {object} JSONResponse{data=storage.StorageStats}
// @Router /api/events/stats [get]
func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.GetStats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to get journal statistics")
		NewErrorResponse("Failed to retrieve journal statistics").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}
	NewJSONResponse(stats).Write(w)
}

// handleEvent returns a journal entry by ID
// @Summary Get journal entry
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} JSONResponse{data=types.Event}
// @Failure 404 {object} ErrorResponse "Event not found"
// @Router /api/events/{id} [get]
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, err := s.storage.GetEvent(r.Context(), id)
	if err != nil {
		var notFound *storage.EventNotFoundError
		if errors.As(err, &notFound) {
			NewErrorResponse("Event not found").WriteWithStatus(w, http.StatusNotFound)
			return
		}

		s.logger.WithFields(logger.Fields{
			"error":    err.Error(),
			"event_id": id,
		}).Error("Failed to get event")
		NewErrorResponse("Failed to retrieve event").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}

	NewJSONResponse(event).Write(w)
}

// parseBoundedInt parses raw, falling back to def when empty. hi < 0 means unbounded.
func parseBoundedInt(raw string, def, lo, hi int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || (hi >= 0 && v > hi) {
		return 0, false
	}
	return v, true
}
