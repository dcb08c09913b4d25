// Package middleware holds the HTTP middleware chain: request logging and
// per-route metrics.  Request IDs and panic recovery come from chi's stock
// middleware.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
)

// wrappedResponseWriter captures the status code and bytes written.
type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (w *wrappedResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrappedResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += int64(n)
	return n, err
}

// skippedPaths are high-frequency probe endpoints excluded from access logs.
var skippedPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestLogging logs one line per request: method, path, status, duration,
// and the chi request ID.  5xx responses log at error level, 4xx at warn.
func RequestLogging(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := skippedPaths[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			ww := &wrappedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.statusCode),
				logging.Duration("duration", time.Since(start)),
				logging.Int64("bytes", ww.bytesWritten),
				logging.String("request_id", chimw.GetReqID(r.Context())),
			}
			switch {
			case ww.statusCode >= 500:
				log.Error("request failed", fields...)
			case ww.statusCode >= 400:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request served", fields...)
			}
		})
	}
}
