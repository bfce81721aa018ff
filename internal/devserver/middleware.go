package devserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/cristianoliveira/rosterdesk/internal/logging"
)

// CorrelationHeader is echoed back on every response.
const CorrelationHeader = "X-Correlation-Id"

// requestLogger logs one line per request. The client's correlation id is
// reused when present.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(CorrelationHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(CorrelationHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.With("correlation_id", id, "method", r.Method, "path", r.URL.Path)
			fields := []any{"status", status, "bytes", ww.BytesWritten(), "elapsed_ms", time.Since(start).Milliseconds()}
			if status >= 500 {
				log.Error("request failed", fields...)
				return
			}
			log.Info("request", fields...)
		})
	}
}

// bearerAuth rejects requests that do not carry the token. An empty token
// disables the check.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header required")
				return
			}
			scheme, got, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid authorization header format")
				return
			}
			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
