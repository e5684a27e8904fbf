package middleware

import (
	"net/http"

	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/httputil"
)

// RequireAdmin creates middleware that rejects non-admin identities with 403.
// Must run after Auth; a missing identity is a programming error and is also
// treated as Forbidden.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireRole creates middleware enforcing a minimum role from the access
// policy table.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok || (role != "" && identity.Role != role) {
				httputil.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
