package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

// RoleLookup returns the caller's current role from storage.
type RoleLookup func(ctx context.Context, subject string) (string, error)

// RequireRolePage guards HTML pages. Anonymous callers are redirected to
// signinPath, callers whose role is not in roles to deniedPath. An empty
// roles list admits any signed-in caller.
func RequireRolePage(signinPath, deniedPath string, roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, signinPath, http.StatusFound)
				return
			}
			if !roleAllowed(claims.Role, roles) {
				http.Redirect(w, r, deniedPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleAPI is the JSON flavour of RequireRolePage: 401 when anonymous,
// 403 when the role is insufficient.
func RequireRoleAPI(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			if !roleAllowed(claims.Role, roles) {
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleAuthoritative re-reads the caller's role through lookup instead
// of trusting the token, so a demoted caller holding an older token is
// refused. The fresh role replaces the token's role on the request context.
func RequireRoleAuthoritative(lookup RoleLookup, roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := ClaimsFromContext(ctx)
			if !ok || claims.Subject == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}

			current, err := lookup(ctx, claims.Subject)
			if err != nil {
				slogx.FromContext(ctx).Warn("role lookup failed",
					slog.String("sub", claims.Subject),
					slog.String("err", err.Error()),
				)
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			if !roleAllowed(current, roles) {
				if current != claims.Role {
					slogx.FromContext(ctx).Info("stale role in session token",
						slog.String("sub", claims.Subject),
						slog.String("token_role", claims.Role),
						slog.String("current_role", current),
					)
				}
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			claims.Role = current
			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func roleAllowed(role string, roles []string) bool {
	return len(roles) == 0 || slices.Contains(roles, role)
}
