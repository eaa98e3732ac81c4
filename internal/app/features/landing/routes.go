package landing

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// LocationRoutes returns the /api/locations router. Reads are public;
// writes require an admin.
func LocationRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListLocations)
	r.Get("/{slug}", h.GetLocation)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Post("/", h.CreateLocation)
		ar.Put("/", h.UpdateLocation)
		ar.Delete("/", h.DeleteLocation)
	})
	return r
}

// ServiceRoutes returns the /api/services router.
func ServiceRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListServices)
	r.Get("/{slug}", h.GetService)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Post("/", h.CreateService)
		ar.Put("/", h.UpdateService)
		ar.Delete("/", h.DeleteService)
	})
	return r
}
