package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/gymgate/internal/auth/identity"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider serves the token, profile, and email endpoints.
func fakeProvider(t *testing.T, profile any, emails any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if r.ParseForm() != nil || r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(profile)
	})
	mux.HandleFunc("GET /user/emails", func(w http.ResponseWriter, r *http.Request) {
		if emails == nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(emails)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func configFor(srv *httptest.Server) identity.Config {
	return identity.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://gym.example.com/auth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/user",
		EmailsURL:   srv.URL + "/user/emails",
		HTTPClient:  srv.Client(),
	}
}

func TestGitHubPrefersPrimaryVerifiedEmail(t *testing.T) {
	srv := fakeProvider(t,
		map[string]any{"id": 99, "login": "squatter", "email": "public@example.com"},
		[]map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "Main@Example.com", "primary": true, "verified": true},
		},
	)
	p := identity.NewGitHub(configFor(srv))

	id, err := p.Identify(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "github", id.Provider)
	require.Equal(t, "99", id.ProviderAccountID)
	require.Equal(t, "main@example.com", id.Email)
	require.Equal(t, "squatter", id.Name, "login used when name is empty")
}

func TestGitHubFallsBackToProfileEmail(t *testing.T) {
	srv := fakeProvider(t, map[string]any{"id": 7, "name": "Deb", "email": "deb@example.com"}, nil)

	id, err := identity.NewGitHub(configFor(srv)).Identify(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "deb@example.com", id.Email)
	require.Equal(t, "Deb", id.Name)
}

func TestGitHubWithoutEmail(t *testing.T) {
	srv := fakeProvider(t, map[string]any{"id": 7}, []map[string]any{{"email": "x@example.com", "verified": false}})

	_, err := identity.NewGitHub(configFor(srv)).Identify(context.Background(), "good-code")
	require.ErrorIs(t, err, identity.ErrNoEmail)
}

func TestGoogleRequiresVerifiedEmail(t *testing.T) {
	srv := fakeProvider(t, map[string]any{"sub": "g-1", "email": "a@example.com", "email_verified": true, "name": "A"}, nil)
	id, err := identity.NewGoogle(configFor(srv)).Identify(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, "google", id.Provider)
	require.Equal(t, "g-1", id.ProviderAccountID)

	srv = fakeProvider(t, map[string]any{"sub": "g-2", "email": "b@example.com", "email_verified": false}, nil)
	_, err = identity.NewGoogle(configFor(srv)).Identify(context.Background(), "good-code")
	require.ErrorIs(t, err, identity.ErrNoEmail)
}

func TestExchangeFailure(t *testing.T) {
	srv := fakeProvider(t, map[string]any{}, nil)

	_, err := identity.NewGoogle(configFor(srv)).Identify(context.Background(), "stolen")
	require.ErrorIs(t, err, identity.ErrExchange)
}

func TestAuthCodeURL(t *testing.T) {
	srv := fakeProvider(t, nil, nil)
	raw := identity.NewGoogle(configFor(srv)).AuthCodeURL("state-xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "/authorize", u.Path)
	require.Equal(t, "state-xyz", u.Query().Get("state"))
	require.Equal(t, "client", u.Query().Get("client_id"))
	require.Equal(t, "openid email profile", u.Query().Get("scope"))
}

func TestRegistry(t *testing.T) {
	srv := fakeProvider(t, nil, nil)
	reg := identity.NewRegistry(identity.NewGoogle(configFor(srv)), identity.NewGitHub(configFor(srv)))

	require.Equal(t, []string{"github", "google"}, reg.Names())
	require.Equal(t, 2, reg.Len())

	p, err := reg.Get("github")
	require.NoError(t, err)
	require.Equal(t, "github", p.Name())

	_, err = reg.Get("facebook")
	require.ErrorIs(t, err, identity.ErrUnknownProvider)
}
