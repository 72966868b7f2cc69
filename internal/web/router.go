// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rpgvault/rpgvault/internal/seed"
)

// NewRouter assembles the HTTP API.
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(recordMetrics(h.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.handleWelcome)
	r.Get("/examples", h.handleExamples)
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Get("/profile", h.handleGetProfile)
		r.Put("/profile", h.handleUpdateProfile)

		r.Route("/characters", func(r chi.Router) {
			r.Get("/", h.handleListCharacters)
			r.Post("/", h.handleCreateCharacter)

			r.Route("/{characterID}", func(r chi.Router) {
				r.Get("/", h.handleGetCharacter)
				r.Put("/", h.handleUpdateCharacter)
				r.Delete("/", h.handleDeleteCharacter)

				r.Route("/inventory", func(r chi.Router) {
					r.Get("/", h.handleListItems)
					r.Post("/", h.handleAddItem)
					r.Get("/{itemID}", h.handleGetItem)
					r.Put("/{itemID}", h.handleUpdateItem)
					r.Delete("/{itemID}", h.handleDeleteItem)
				})
			})
		})
	})

	return r
}

// handleWelcome greets unauthenticated visitors and points at the
// entry endpoints.
func (h *Handler) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service":  "rpgvault",
		"message":  "welcome, adventurer",
		"register": "POST /register",
		"login":    "POST /login",
	})
}

// handleExamples returns the bundled example roster so new users can
// see the expected payload shapes.
func (h *Handler) handleExamples(w http.ResponseWriter, _ *http.Request) {
	file, err := seed.Default()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, file)
}
