// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the JSON API routes and the middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"brandforge/internal/handlers"
	"brandforge/internal/middleware"
)

// New creates the configured chi router.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	// Generation endpoints make model calls that can run for a while; keep
	// the rate limit generous enough for one editing session.
	limiter := middleware.NewRateLimiter(120, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", api.ListSets)
			r.Post("/", api.CreateSet)

			r.Route("/{setID}", func(r chi.Router) {
				r.Get("/", api.GetSet)
				r.Delete("/", api.DeleteSet)
				r.Put("/brand", api.UpdateBrand)

				r.Route("/images", func(r chi.Router) {
					r.Post("/generate", api.GenerateImage)
					r.Post("/generate-all", api.GenerateAllImages)
					r.Post("/feedback", api.RegenerateImage)
					r.Get("/{key}", api.GetImage)
					r.Delete("/{key}", api.DeleteImage)
				})

				r.Route("/schedule", func(r chi.Router) {
					r.Get("/", api.GetSchedule)
					r.Post("/move", api.MoveScheduleItem)
					r.Put("/dates/{itemID}", api.SetPostingDate)
					r.Delete("/dates/{itemID}", api.ClearPostingDate)
					r.Get("/export.ics", api.ExportICS)
				})

				r.Route("/{section}", func(r chi.Router) {
					r.Post("/items", api.AddItem)
					r.Post("/items/{itemID}/regenerate", api.RegenerateItem)
					r.Patch("/items/{itemID}", api.EditItem)
					r.Delete("/items/{itemID}", api.DeleteItem)
					r.Post("/undo", api.Undo)
					r.Post("/redo", api.Redo)
				})
			})
		})

		r.Route("/ai", func(r chi.Router) {
			r.Get("/provider", api.GetProvider)
			r.Post("/provider", api.SwitchProvider)
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
