package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/guard"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func tok(role domain.Role) *guard.Token {
	return &guard.Token{Subject: "acc-1", Role: role}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		token    *guard.Token
		redirect string
	}{
		{"admin area as user goes to unauthorized", "/admin/x", tok(domain.RoleUser), guard.UnauthorizedPath},
		{"admin area anonymous goes to unauthorized", "/admin", nil, guard.UnauthorizedPath},
		{"admin area as admin", "/admin/x", tok(domain.RoleAdmin), ""},
		{"owner area anonymous", "/owner/x", nil, guard.SignInPath},
		{"owner area as user", "/owner/x", tok(domain.RoleUser), guard.SignInPath},
		{"owner area as admin", "/owner/invites", tok(domain.RoleAdmin), guard.SignInPath},
		{"owner area as owner", "/owner/x", tok(domain.RoleOwner), ""},
		{"dashboard anonymous", "/dashboard", nil, guard.LoginPath},
		{"dashboard signed in", "/dashboard/stats", tok(domain.RoleUser), ""},
		{"home anonymous", "/", nil, guard.EntryPath},
		{"home signed in", "/", tok(domain.RoleUser), ""},
		{"posts anonymous hits gate first", "/posts/1", nil, guard.EntryPath},
		{"posts signed in", "/posts/1", tok(domain.RoleUser), ""},
		{"entry anonymous", "/entry", nil, ""},
		{"entry signed in bounces home", "/entry", tok(domain.RoleUser), guard.HomePath},
		{"signin anonymous", "/signin", nil, ""},
		{"oauth callback anonymous", "/auth/github/callback", nil, ""},
		{"jwks anonymous", "/.well-known/jwks.json", nil, ""},
		{"health anonymous", "/livez", nil, ""},
		{"lookalike prefix is not public", "/signinx", nil, guard.EntryPath},
		{"lookalike prefix is not admin", "/administrator", tok(domain.RoleUser), ""},
		{"api anonymous", "/api/session", nil, guard.EntryPath},
		{"refresh checks its own token", "/api/session/refresh", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard.Evaluate(tt.path, tt.token)
			require.Equal(t, tt.redirect == "", d.Allow)
			require.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestEvaluateReportsRule(t *testing.T) {
	d := guard.Evaluate("/admin/members", tok(domain.RoleUser))
	require.Equal(t, "admin", d.Rule)

	d = guard.Evaluate("/classes", nil)
	require.Equal(t, "gate", d.Rule)
}

func TestRoleRulesPrecedeGate(t *testing.T) {
	idx := map[string]int{}
	for i, r := range guard.DefaultRules {
		idx[r.Name] = i
	}
	for _, name := range []string{"owner", "dashboard", "admin"} {
		require.Less(t, idx[name], idx["gate"], name)
	}
}

func TestCustomTable(t *testing.T) {
	table := guard.Table{{
		Name:     "coaches",
		Match:    guard.HasPrefix("/coach"),
		Allow:    func(tok *guard.Token) bool { return tok != nil && tok.Role != domain.RoleUser },
		Redirect: "/nope",
	}}

	require.Equal(t, "/nope", table.Evaluate("/coach/plan", tok(domain.RoleUser)).Redirect)
	require.True(t, table.Evaluate("/coach/plan", tok(domain.RoleAdmin)).Allow)
	require.True(t, table.Evaluate("/elsewhere", nil).Allow)
}

func serve(t *testing.T, path string, claims *jwtx.Claims) *httptest.ResponseRecorder {
	t.Helper()
	h := guard.Middleware(guard.DefaultRules)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if claims != nil {
		req = req.WithContext(httpx.WithClaims(req.Context(), *claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	user := &jwtx.Claims{Role: "user"}
	user.Subject = "acc-1"

	rec := serve(t, "/admin/x", user)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, guard.UnauthorizedPath, rec.Header().Get("Location"))

	rec = serve(t, "/owner/x", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, guard.SignInPath, rec.Header().Get("Location"))

	rec = serve(t, "/posts/7", user)
	require.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(t, "/api/invites", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRoleHelpers(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(mw httpx.Middleware, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if role != "" {
			c := jwtx.Claims{Role: role}
			c.Subject = "acc-1"
			req = req.WithContext(httpx.WithClaims(req.Context(), c))
		}
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin pages admit owners", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, serve(guard.RequireAdmin(), "admin").Code)
		require.Equal(t, http.StatusNoContent, serve(guard.RequireAdmin(), "owner").Code)

		rec := serve(guard.RequireAdmin(), "user")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, guard.UnauthorizedPath, rec.Header().Get("Location"))

		rec = serve(guard.RequireAdmin(), "")
		require.Equal(t, guard.SignInPath, rec.Header().Get("Location"))
	})

	t.Run("owner pages", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, serve(guard.RequireOwner(), "owner").Code)
		require.Equal(t, guard.UnauthorizedPath, serve(guard.RequireOwner(), "admin").Header().Get("Location"))
	})

	t.Run("login page", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, serve(guard.RequireLogin(), "user").Code)
		require.Equal(t, guard.SignInPath, serve(guard.RequireLogin(), "").Header().Get("Location"))
	})

	t.Run("api flavour", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, serve(guard.RequireLoginAPI(), "").Code)
		require.Equal(t, http.StatusForbidden, serve(guard.RequireAdminAPI(), "user").Code)
		require.Equal(t, http.StatusNoContent, serve(guard.RequireAdminAPI(), "owner").Code)
		require.Equal(t, http.StatusForbidden, serve(guard.RequireOwnerAPI(), "admin").Code)
	})
}
