package notifications

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the notification endpoints.
//
// When mounted at /api/notifications:
//   - GET    /api/notifications/active?location= - public selector
//   - GET    /api/notifications                  - full list (admin)
//   - POST, PUT, DELETE /api/notifications       - admin
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/active", h.Active)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Get("/", h.List)
		ar.Post("/", h.Create)
		ar.Put("/", h.Update)
		ar.Delete("/", h.Delete)
	})
	return r
}
