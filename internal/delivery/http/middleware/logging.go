package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"youthevents/internal/domain"
)

const alertTimeout = 15 * time.Second

// responseWriter wraps http.ResponseWriter to capture status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (n int, err error) {
	n, err = w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggingMiddleware logs each request with method, path, status, duration and request id.
// It does not log request or response bodies.
func LoggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", duration.Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

// AlertOnFault reports every 5xx response to operators. The alert is sent in the background so the
// response is never delayed; send failures are only logged.
func AlertOnFault(alerts domain.AlertService, environment string, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		if wrapped.status < http.StatusInternalServerError {
			return
		}

		data := &domain.FaultAlertData{
			Environment: environment,
			Method:      r.Method,
			Path:        r.URL.Path,
			Status:      wrapped.status,
			RequestID:   chimiddleware.GetReqID(r.Context()),
			OccurredAt:  time.Now(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
			defer cancel()
			if err := alerts.SendFaultAlert(ctx, data); err != nil {
				logger.Error("fault alert failed", "path", data.Path, "request_id", data.RequestID, "err", err)
			}
		}()
	})
}
