package products

import "github.com/go-chi/chi/v5"

// MountRoutes registers the product resource routes. Unlisted verbs fall
// through to chi's 405 handling.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
