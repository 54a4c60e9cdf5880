// Package router sets up all HTTP routes and middleware chains for the
// promptlib server. Everything under /api runs inside a page session and
// is CSRF protected and rate limited.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptlib/internal/handlers"
	"promptlib/internal/middleware"
	"promptlib/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Store, prompts *handlers.Prompts, settings *handlers.Settings, rl *middleware.RateLimiter, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Logger sits outside
	// Recoverer so a recovered panic is logged as the 500 it became.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		if rl != nil {
			r.Use(rl.Middleware)
		}
		r.Use(middleware.NewCSRF(secure))
		r.Use(middleware.LoadSession(sessions))

		r.Get("/workspace", prompts.Workspace)

		// Prompt library
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", prompts.List)
			r.Post("/", prompts.Create)
			r.Get("/{id}", prompts.Get)
			r.Put("/{id}", prompts.Update)
			r.Delete("/{id}", prompts.Delete)
			r.Get("/{id}/preview", prompts.Preview)
			r.Post("/{id}/select", prompts.Select)
		})

		// Edit pane of the selected prompt
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", prompts.Selection)
			r.Delete("/", prompts.Deselect)
			r.Put("/draft", prompts.EditDraft)
			r.Post("/save", prompts.SaveSelection)
			r.Get("/preview", prompts.PreviewSelection)
		})

		// Creation form
		r.Route("/form", func(r chi.Router) {
			r.Put("/", prompts.EditForm)
			r.Delete("/", prompts.CloseForm)
			r.Post("/open", prompts.OpenForm)
			r.Post("/submit", prompts.SubmitForm)
		})

		r.Get("/org-settings", prompts.OrgSettings)
		r.Put("/org-settings", prompts.UpdateOrgSettings)
		r.Post("/preview", prompts.PreviewTemplate)

		// Persisted settings documents
		r.Route("/settings", func(r chi.Router) {
			r.Get("/profile", settings.Profile)
			r.Put("/profile", settings.UpdateProfile)
			r.Post("/profile/load", settings.LoadProfile)
			r.Post("/profile/save", settings.SaveProfile)

			r.Get("/guidelines", settings.Guidelines)
			r.Put("/guidelines", settings.UpdateGuidelines)
			r.Post("/guidelines/load", settings.LoadGuidelines)
			r.Post("/guidelines/save", settings.SaveGuidelines)
			r.Post("/guidelines/items", settings.AddItem)
			r.Delete("/guidelines/items/{section}/{category}/{index}", settings.RemoveItem)
			r.Post("/guidelines/entries/{kind}", settings.AddEntry)
			r.Delete("/guidelines/entries/{kind}/{index}", settings.RemoveEntry)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
