// internal/app/system/authz/authz.go
//
// Package authz is the single place admin capability is checked. Mutating
// routes are wrapped with RequireAdmin when the router is built; handlers
// never repeat the role check.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), display name, ObjectID and a
// found flag. Without a signed-in user it returns "visitor", "", NilObjectID,
// false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	p := auth.CurrentPrincipal(r)
	if !p.Authenticated() || p.UserID.IsZero() {
		return "visitor", "", primitive.NilObjectID, false
	}
	name = p.Name
	if name == "" {
		name = p.Email
	}
	return strings.ToLower(p.Role), name, p.UserID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	return auth.CurrentPrincipal(r).IsAdmin()
}

// IsLoggedIn reports whether there is a user in the request context.
func IsLoggedIn(r *http.Request) bool {
	return auth.CurrentPrincipal(r).Authenticated()
}

// HasRole reports whether the current user has one of the specified roles.
func HasRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if strings.ToLower(allowed) == role {
			return true
		}
	}
	return false
}

// RequireAdmin answers 401 {"error":"Unauthorized"} unless the request
// carries an admin principal.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r) {
			jsonutil.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly wraps a single handler func with RequireAdmin.
func AdminOnly(h http.HandlerFunc) http.Handler {
	return RequireAdmin(h)
}
