// Package gate guards the admin UI paths. It is a per-request predicate plus
// a redirect decision; nothing is remembered between requests.
package gate

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"go.uber.org/zap"
)

// Config names the protected prefix and the login page that stays public.
type Config struct {
	Prefix    string // e.g. "/admin"
	LoginPath string // e.g. "/admin/login"
}

// DefaultConfig is the admin UI layout.
func DefaultConfig() Config {
	return Config{Prefix: "/admin", LoginPath: "/admin/login"}
}

// Protected reports whether p needs an admin session. p is cleaned first, the
// same way the file server resolves it, so dot-segments and doubled slashes
// cannot step out of or around the login exemption. Matching is by path
// segment, so "/administrator" is not under "/admin". Only the login page
// itself is public.
func (c Config) Protected(p string) bool {
	if c.Prefix == "" || strings.Trim(c.Prefix, "/") == "" {
		return false
	}
	prefix := path.Clean("/" + c.Prefix)
	p = path.Clean("/" + p)
	if p != prefix && !strings.HasPrefix(p, prefix+"/") {
		return false
	}
	return c.LoginPath == "" || p != path.Clean("/"+c.LoginPath)
}

// Gate redirects unauthenticated and non-admin requests for protected paths
// to the login page. It reads the principal auth.LoadSessionUser stored in
// the request context, so it must be mounted after that middleware.
type Gate struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Gate.
func New(cfg Config, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{cfg: cfg, logger: logger}
}

// Middleware wraps next with the gate.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.cfg.Protected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		p := auth.CurrentPrincipal(r)
		switch {
		case !p.Authenticated():
			q := url.Values{"callbackUrl": {r.URL.RequestURI()}}
			http.Redirect(w, r, g.cfg.LoginPath+"?"+q.Encode(), http.StatusTemporaryRedirect)
		case !p.IsAdmin():
			g.logger.Info("admin path refused for non-admin",
				zap.String("path", r.URL.Path),
				zap.String("user_id", p.UserID.Hex()),
				zap.String("role", p.Role))
			http.Redirect(w, r, g.cfg.LoginPath+"?error=unauthorized", http.StatusTemporaryRedirect)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
