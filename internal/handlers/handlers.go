// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the promptlib API.
// Handlers are grouped by concern (prompts, settings) and receive their
// dependencies through the handler struct. Every handler runs inside a
// page session loaded by middleware.LoadSession and writes the session
// back after changing it.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"promptlib/internal/middleware"
	"promptlib/internal/models"
	"promptlib/internal/prompt"
	"promptlib/internal/render"
	"promptlib/internal/session"
)

// currentSession returns the page session of the request, answering 500
// when the middleware did not provide one.
func currentSession(w http.ResponseWriter, r *http.Request) *session.Data {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		slog.Error("handler reached without a session", "path", r.URL.Path)
		render.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
	return sess
}

// persist writes the session back, answering 500 on failure.
func persist(w http.ResponseWriter, r *http.Request, sessions *session.Store, sess *session.Data) bool {
	if err := sessions.Save(r.Context(), sess); err != nil {
		slog.Error("session save failed", "error", err)
		render.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return false
	}
	return true
}

// intParam parses a numeric URL parameter.
func intParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prompt.ErrNotFound):
		render.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, prompt.ErrConfirmationRequired):
		render.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrUnknownCategory),
		errors.Is(err, models.ErrUnknownSection),
		errors.Is(err, models.ErrUnknownListKey),
		errors.Is(err, models.ErrUnknownEntryKind):
		render.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		render.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
