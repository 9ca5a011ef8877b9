package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gymgate/internal/auth/guard"
	"github.com/aussiebroadwan/gymgate/internal/auth/identity"
	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// signInMessages are the only admission errors a visitor ever sees.
var signInMessages = map[string]string{
	"code_required": "An invite code is required to create an account.",
	"code_invalid":  "That invite code is invalid or has expired.",
	"auth_error":    "Sign-in failed. Please try again.",
}

type pageData struct {
	Title     string
	Error     string
	Providers []string

	CookieName      string
	CookieTTLMillis int

	Email string
	Role  string
}

func render(w http.ResponseWriter, r *http.Request, name string, status int, data pageData) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page",
			slog.String("page", name),
			slog.Any("error", err),
		)
	}
}

// PagesHandler serves the gate's own HTML pages.
type PagesHandler struct {
	Providers    *identity.Registry
	CookieSecure bool
}

// HandleEntry renders the invite form.
func (h *PagesHandler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	render(w, r, "entry.html", http.StatusOK, pageData{
		Title:           "Join",
		Error:           signInMessages[r.URL.Query().Get("error")],
		Providers:       h.Providers.Names(),
		CookieName:      InviteCookieName,
		CookieTTLMillis: inviteCookieMaxAge * 1000,
	})
}

// HandleEntrySubmit stores the typed code in the pending invite cookie and
// starts the OAuth flow. The code is not checked here; the callback does
// that once the identity is known.
func (h *PagesHandler) HandleEntrySubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, guard.EntryPath, http.StatusSeeOther)
		return
	}

	code := cryptox.NormalizeCode(r.PostForm.Get("code"))
	if code == "" || len(code) > 32 {
		http.Redirect(w, r, guard.EntryPath+"?error=code_required", http.StatusSeeOther)
		return
	}

	provider := r.PostForm.Get("provider")
	if provider == "" {
		if names := h.Providers.Names(); len(names) > 0 {
			provider = names[0]
		}
	}
	if _, err := h.Providers.Get(provider); err != nil {
		http.Redirect(w, r, guard.EntryPath+"?error=auth_error", http.StatusSeeOther)
		return
	}

	setInviteCookie(w, code, h.CookieSecure)
	http.Redirect(w, r, "/auth/"+provider, http.StatusSeeOther)
}

// HandleSignIn serves both /signin and /login.
func (h *PagesHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	render(w, r, "signin.html", http.StatusOK, pageData{
		Title:     "Sign in",
		Error:     signInMessages[r.URL.Query().Get("error")],
		Providers: h.Providers.Names(),
	})
}

func (h *PagesHandler) HandleUnauthorized(w http.ResponseWriter, r *http.Request) {
	render(w, r, "unauthorized.html", http.StatusForbidden, pageData{Title: "Not allowed"})
}

// HandleHome is the landing page behind the gate.
func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != guard.HomePath {
		http.NotFound(w, r)
		return
	}
	claims, _ := httpx.ClaimsFromContext(r.Context())
	render(w, r, "home.html", http.StatusOK, pageData{
		Title: "Home",
		Email: claims.Email,
		Role:  strings.ToLower(claims.Role),
	})
}

// HandleDashboard renders the landing page of a role-restricted area.
func (h *PagesHandler) HandleDashboard(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := httpx.ClaimsFromContext(r.Context())
		render(w, r, "dashboard.html", http.StatusOK, pageData{
			Title: title,
			Email: claims.Email,
			Role:  strings.ToLower(claims.Role),
		})
	}
}
