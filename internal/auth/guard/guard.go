// Package guard is the request perimeter: a pure, ordered table of path
// rules decided from the session token alone, with no storage access.
package guard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

// Token is what the guard knows about the caller. A nil *Token is an
// anonymous request.
type Token struct {
	Subject string
	Role    domain.Role
}

// TokenFromClaims returns nil when ok is false.
func TokenFromClaims(c jwtx.Claims, ok bool) *Token {
	if !ok {
		return nil
	}
	return &Token{Subject: c.Subject, Role: domain.Role(c.Role)}
}

// Decision is the outcome for one request. Rule names the rule that
// redirected, empty when allowed.
type Decision struct {
	Allow    bool
	Redirect string
	Rule     string
}

// Evaluate runs the rules in order and returns the first redirect.
func (t Table) Evaluate(path string, tok *Token) Decision {
	for _, r := range t {
		if r.Match(path) && !r.Allow(tok) {
			return Decision{Redirect: r.Redirect, Rule: r.Name}
		}
	}
	return Decision{Allow: true}
}

// Evaluate applies DefaultRules.
func Evaluate(path string, tok *Token) Decision {
	return DefaultRules.Evaluate(path, tok)
}

// Middleware enforces rules on every request. It must run after
// httpx.SessionMiddleware. Denied API calls get JSON instead of a redirect.
func Middleware(rules Table) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := TokenFromClaims(httpx.ClaimsFromContext(r.Context()))

			d := rules.Evaluate(r.URL.Path, tok)
			if d.Allow {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("guard redirect",
				slog.String("path", r.URL.Path),
				slog.String("rule", d.Rule),
				slog.String("to", d.Redirect),
			)

			if strings.HasPrefix(r.URL.Path, "/api/") {
				if tok == nil {
					httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				} else {
					httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				}
				return
			}
			http.Redirect(w, r, d.Redirect, http.StatusFound)
		})
	}
}
