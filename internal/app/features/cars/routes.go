package cars

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the car endpoints.
//
// When mounted at /api/cars:
//   - GET    /api/cars       - list (public)
//   - GET    /api/cars/{id}  - one car (public)
//   - POST   /api/cars       - create (admin)
//   - PUT    /api/cars       - partial update, id in body (admin)
//   - DELETE /api/cars?id=   - delete (admin)
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Post("/", h.Create)
		ar.Put("/", h.Update)
		ar.Delete("/", h.Delete)
	})
	return r
}
