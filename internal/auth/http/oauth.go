package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/guard"
	"github.com/aussiebroadwan/gymgate/internal/auth/identity"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/pkg/cryptox"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

// OAuthHandler runs the provider round trip: redirect out, then the callback
// that admits the identity and mints the session.
type OAuthHandler struct {
	Providers    *identity.Registry
	Linker       *service.LinkerService
	Sessions     *service.SessionService
	CookieSecure bool
}

func signInError(code string) string {
	return guard.SignInPath + "?error=" + url.QueryEscape(code)
}

// HandleStart godoc
//
//	@Summary		Start OAuth sign-in
//	@Description	Redirects the browser to the identity provider. A state cookie binds the callback to this browser.
//	@Tags			Sign-in
//	@Param			provider	path	string	true	"Provider name"	Enums(github, google)
//	@Success		302
//	@Router			/auth/{provider} [get].
func (h *OAuthHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	p, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate oauth state", slog.Any("error", err))
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	setStateCookie(w, state, h.CookieSecure)
	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		OAuth callback
//	@Description	Exchanges the authorization code, applies the invite gate for new members, and sets the session cookie.
//	@Description	Admission failures redirect to /signin?error=code_required|code_invalid|auth_error.
//	@Tags			Sign-in
//	@Param			provider	path	string	true	"Provider name"
//	@Param			code		query	string	true	"Authorization code"
//	@Param			state		query	string	true	"State echoed by the provider"
//	@Success		302
//	@Router			/auth/{provider}/callback [get].
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The pending code is single-use from the browser's point of view.
	pending := pendingInviteCode(r)
	clearInviteCookie(w, h.CookieSecure)

	expected := stateCookie(r)
	clearStateCookie(w, h.CookieSecure)

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		log.Info("provider returned error", slog.String("error", e))
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}
	if !cryptox.EqualTokens(expected, q.Get("state")) {
		log.Warn("oauth state mismatch")
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	p, err := h.Providers.Get(r.PathValue("provider"))
	if err != nil {
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	id, err := p.Identify(ctx, q.Get("code"))
	if err != nil {
		log.Warn("identity lookup failed",
			slog.String("provider", p.Name()),
			slog.Any("error", err),
		)
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	account, err := h.Linker.CompleteSignIn(ctx, id, pending)
	if err != nil {
		if !errors.Is(err, service.ErrCodeRequired) && !errors.Is(err, service.ErrCodeInvalid) {
			log.Error("sign-in failed",
				slog.String("email", domain.NormalizeEmail(id.Email)),
				slogx.Secret("code", pending),
				slog.Any("error", err),
			)
		}
		http.Redirect(w, r, signInError(service.SignInErrorCode(err)), http.StatusFound)
		return
	}

	token, sess, err := h.Sessions.Mint(ctx, account.Email)
	if err != nil {
		log.Error("failed to mint session", slog.String("email", account.Email), slog.Any("error", err))
		http.Redirect(w, r, signInError("auth_error"), http.StatusFound)
		return
	}

	httpx.SetSessionCookie(w, token, sess.ExpiresAt, h.CookieSecure)
	log.Info("signed in",
		slog.String("user_id", sess.UserID),
		slog.String("role", sess.Role.String()),
		slog.String("provider", p.Name()),
	)
	http.Redirect(w, r, guard.HomePath, http.StatusFound)
}
