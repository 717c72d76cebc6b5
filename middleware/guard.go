package middleware

import (
	"errors"
	"net/http"

	motorauth "github.com/sr198/motorghar-auth"
	"github.com/sr198/motorghar-auth/token"
)

// Guard authenticates every request with a bearer access token. On success
// the verified identity is available downstream via
// motorauth.IdentityFromContext. A missing header, a revoked token, and a
// bad token all reject with 401; a deactivated account rejects with 403.
// Store failures surface as 500, never as a credential rejection.
func Guard(engine *motorauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := token.ExtractBearer(r.Header.Get("Authorization"))
			if accessToken == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := engine.VerifyAccessToken(r.Context(), accessToken)
			if err != nil {
				switch {
				case errors.Is(err, motorauth.ErrAccountInactive):
					http.Error(w, "account inactive", http.StatusForbidden)
				case errors.Is(err, motorauth.ErrInvalidToken), errors.Is(err, motorauth.ErrTokenRevoked):
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				default:
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
				return
			}

			ctx := motorauth.WithIdentity(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the caller currently holding exactly the
// given role. Must run after Guard. The 403 body names the required role
// so operators can read denials straight off the wire.
func RequireRole(authz *motorauth.Authorizer, role motorauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := motorauth.IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			has, err := authz.HasRole(r.Context(), identity.UserID, role)
			if err != nil {
				if errors.Is(err, motorauth.ErrUserNotFound) {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !has {
				http.Error(w, "requires role "+string(role), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole gates a route on the caller holding one of the given
// roles. An empty set rejects everyone.
func RequireAnyRole(authz *motorauth.Authorizer, roles ...motorauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := motorauth.IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			has, err := authz.HasAnyRole(r.Context(), identity.UserID, roles...)
			if err != nil {
				if errors.Is(err, motorauth.ErrUserNotFound) {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !has {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
