// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"promptlib/internal/render"
	"promptlib/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession makes sure every request runs inside a page session. It
// reads the browser cookie (issuing one if needed), loads the session named
// by the session cookie, and starts a new one when there is none, it has
// expired, or it belongs to another browser. Requests of the same session
// are serialized so that concurrent edits cannot overwrite each other.
// Downstream handlers access the session via SessionFromCtx().
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			browserID := store.Browser(w, r)

			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log but don't block; the visitor gets a fresh session.
				slog.Warn("session load failed, starting a new one", "error", err)
				data = nil
			}

			if data == nil || data.BrowserID != browserID {
				data = session.NewData(browserID)
				if _, err := store.Create(r.Context(), w, data); err != nil {
					slog.Error("session create failed", "error", err)
					render.Error(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
			}

			unlock := store.Lock(data.ID)
			defer unlock()

			// Re-read under the lock so a request that waited sees the
			// changes of the one before it.
			if fresh, err := store.Load(r.Context(), data.ID); err == nil && fresh != nil {
				data = fresh
			}

			noteSession(r.Context(), data)
			ctx := context.WithValue(r.Context(), SessionKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
