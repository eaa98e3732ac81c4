package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the page payload endpoints.
//
// When mounted at /api/site:
//   - GET /api/site/layout
//   - GET /api/site/home
//   - GET /api/site/cars
//   - GET /api/site/blog
//   - GET /api/site/pages/{slug}
//   - GET /api/site/locations/{slug}
//   - GET /api/site/services/{slug}
//
// robots.txt and sitemap.xml are mounted at the root by the caller.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/layout", h.Layout)
	r.Get("/home", h.Home)
	r.Get("/cars", h.Cars)
	r.Get("/blog", h.Blog)
	r.Get("/pages/{slug}", h.Page)
	r.Get("/locations/{slug}", h.Location)
	r.Get("/services/{slug}", h.Service)
	return r
}
