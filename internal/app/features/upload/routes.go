package upload

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with POST / (admin).
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.With(authz.RequireAdmin).Post("/", h.Upload)
	return r
}
