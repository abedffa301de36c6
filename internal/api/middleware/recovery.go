package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/johnnynv/gitea-bridge/pkg/logger"
)

// Recovery recovers from panics, logs them and answers with the error envelope
func Recovery(log *logger.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.WithFields(logger.Fields{
						"error":  err,
						"stack":  string(debug.Stack()),
						"path":   r.URL.Path,
						"method": r.Method,
					}).WithRequestID(logger.RequestIDFromContext(r.Context())).Error("Panic recovered in HTTP handler")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success":   false,
						"error":     "Internal Server Error",
						"timestamp": time.Now().UTC(),
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
