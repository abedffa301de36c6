package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds caller-supplied IDs before they reach logs and the journal
const maxRequestIDLength = 128

// RequestID propagates the caller's X-Request-ID, or assigns a new UUID,
// and stores it in the request's logging context.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)

			ctx := r.Context()
			logCtx := logger.FromContext(ctx).Merge(logger.LogContext{RequestID: id})
			next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx, logCtx)))
		})
	}
}
