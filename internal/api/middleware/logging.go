// Package middleware provides HTTP middleware for the API layer.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/logging"
)

// LoggingMiddleware logs each request with a generated request ID.
type LoggingMiddleware struct {
	logger logging.Logger
}

// NewLoggingMiddleware creates request logging middleware
func NewLoggingMiddleware(logger logging.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger.WithComponent("http")}
}

// Handler returns the middleware handler
func (m *LoggingMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(wrapped, r)

			m.logger.WithRequestID(requestID).Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
