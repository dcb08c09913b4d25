package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
)

// HTTPMetrics records request counts and latencies per route pattern, so that
// /api/v1/runs/{runID} stays one series regardless of the run IDs requested.
func HTTPMetrics(m *prometheus.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := skippedPaths[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			ww := &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTPRequest(r.Method, route, strconv.Itoa(ww.statusCode), time.Since(start))
		})
	}
}
