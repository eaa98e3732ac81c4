package blog

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the blog endpoints.
//
// When mounted at /api/blog:
//   - GET    /api/blog                 - list (drafts for admins only)
//   - GET    /api/blog/check-slug      - {exists} (admin)
//   - GET    /api/blog/{slug}          - one post, counts a view
//   - POST   /api/blog                 - create (admin)
//   - PUT    /api/blog                 - partial update, id in body (admin)
//   - DELETE /api/blog?id=             - delete (admin)
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.With(authz.RequireAdmin).Get("/check-slug", h.CheckSlug)
	r.Get("/{slug}", h.Get)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireAdmin)
		ar.Post("/", h.Create)
		ar.Put("/", h.Update)
		ar.Delete("/", h.Delete)
	})
	return r
}
