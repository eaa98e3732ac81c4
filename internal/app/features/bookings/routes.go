package bookings

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the booking endpoints, all admin only.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(authz.RequireAdmin)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	return r
}
