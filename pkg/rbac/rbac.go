// Package rbac gates routes by the role carried in the admin token.
package rbac

import (
	"net/http"

	"github.com/sudeviagro/backoffice/pkg/middleware"
	"github.com/sudeviagro/backoffice/pkg/response"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// HasRole allows only the listed roles. middleware.Auth must run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Valid reports whether role is one the back office knows about.
func Valid(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
