// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"promptlib/internal/render"
)

// Recoverer turns a panic in a handler into a 500 JSON error and logs the
// stack with the matched route. http.ErrAbortHandler is passed on so the
// server can drop the connection. When the handler already started the
// response, nothing more is written.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"route", routePattern(r),
				"stack", string(debug.Stack()),
			)
			if rw, ok := w.(*responseWriter); ok && rw.written {
				return
			}
			render.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}
