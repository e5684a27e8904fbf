package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/auth"
	"github.com/chronos-hq/chronos/internal/domain"
	"github.com/chronos-hq/chronos/internal/httputil"
)

type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// Auth creates middleware that requires a verified Bearer token. There is no
// fallback identity source: a request either carries a token that verifies,
// or it is rejected with 401.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid tenant_id in token")
				return
			}

			if !claims.Role.Valid() {
				httputil.Error(w, http.StatusUnauthorized, "invalid role in token")
				return
			}

			identity := domain.Identity{
				UserID:   userID,
				TenantID: tenantID,
				Role:     claims.Role,
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the verified identity from the request context.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the identity. Used by tests.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
