package authapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the auth endpoints.
//
// When mounted at /api/auth:
//   - POST /api/auth/login
//   - POST /api/auth/logout
//   - GET  /api/auth/session
//   - GET  /api/auth/csrf
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
	r.Get("/csrf", h.CSRF)
	return r
}
