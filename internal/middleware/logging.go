// Package middleware provides HTTP middleware for the promptlib server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptlib/internal/session"
)

// sessionPrefixLen is how much of a session id reaches the log. The full
// id is a bearer credential.
const sessionPrefixLen = 8

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// requestInfo collects what inner middleware learns about a request so
// the access log line can carry it.
type requestInfo struct {
	sessionID string
	browserID string
}

type requestInfoKey struct{}

// noteSession records the page session serving the request, if Logger is
// in the chain.
func noteSession(ctx context.Context, data *session.Data) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.sessionID = data.ID
		info.browserID = data.BrowserID
	}
}

// Logger writes one access log line per request: the matched route
// pattern rather than the raw path, the status, the duration and the
// page session and browser that made it. 5xx responses log at error
// level, 4xx at warn.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

		attrs := []any{
			"method", r.Method,
			"route", routePattern(r),
			"status", wrapped.statusCode,
			"duration", time.Since(start).String(),
		}
		if info.sessionID != "" {
			attrs = append(attrs, "session", shorten(info.sessionID), "browser", info.browserID)
		}

		level := slog.LevelInfo
		switch {
		case wrapped.statusCode >= 500:
			level = slog.LevelError
		case wrapped.statusCode >= 400:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "http request", attrs...)
	})
}

// routePattern returns the chi pattern that matched, e.g.
// /api/prompts/{id}. Unmatched requests fall back to the path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func shorten(id string) string {
	if len(id) > sessionPrefixLen {
		return id[:sessionPrefixLen]
	}
	return id
}
