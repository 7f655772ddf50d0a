package middleware

import (
	"net/http"

	"github.com/lumenlive/backend/internal/api/httpx"
)

// RequirePermission allows admins and actors holding the given permission.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := ActorFrom(r.Context())
			if !ok || !a.Can(perm) {
				httpx.WriteError(w, http.StatusForbidden, "permission_denied", "not authorized", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := ActorFrom(r.Context())
		if !ok || !a.IsAdmin() {
			httpx.WriteError(w, http.StatusForbidden, "permission_denied", "not authorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
