package menus

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the menu endpoints. Reads are public; writes
// require an admin.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Post("/", h.Create)
		ar.Put("/", h.Update)
		ar.Delete("/", h.Delete)
	})
	return r
}
