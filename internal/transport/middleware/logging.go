package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mfauzirh/workforce-management/pkg/logger"
)

// sensitiveHeaders never reach the logs. Request and response bodies are not
// logged at all: this service handles credentials and bearer tokens.
var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
}

func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			// Prefer the context logger so the trace id from RequestID is
			// attached to the request line.
			lg := logger.From(r.Context())
			if lg == nil {
				lg = base
			}

			lg.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		redacted := false
		for _, sensitive := range sensitiveHeaders {
			if strings.Contains(lower, sensitive) {
				redacted = true
				break
			}
		}
		if redacted {
			out[name] = "[REDACTED]"
		} else {
			out[name] = strings.Join(values, ", ")
		}
	}
	return out
}
