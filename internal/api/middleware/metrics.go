package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver records served requests
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

// Metrics reports every request to observer. route maps a request to a
// bounded label, normally the registered pattern.
func Metrics(observer HTTPObserver, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			observer.ObserveHTTP(r.Method, route(r), wrapped.statusCode, time.Since(start))
		})
	}
}
