package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/internal/auth/guard"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/pkg/gymsdk"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"
)

type SessionHandler struct {
	Sessions     *service.SessionService
	CookieSecure bool
}

func sessionResponse(s domain.Session) gymsdk.SessionResponse {
	return gymsdk.SessionResponse{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role.String(),
		ExpiresAt: s.ExpiresAt,
	}
}

// HandleGet godoc
//
//	@Summary		Current session
//	@Description	Returns the session as carried by the token. The role may lag behind the account until the next refresh.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	gymsdk.SessionResponse
//	@Failure		401	{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeUnauthorized,
			ErrorDescription: "sign in required",
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(h.Sessions.Materialize(claims)))
}

// HandleRefresh godoc
//
//	@Summary		Refresh session
//	@Description	Re-mints the session token from the stored account, picking up role changes. Tokens that expired within the refresh window are accepted.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	gymsdk.SessionResponse
//	@Failure		401	{object}	gymsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/api/session/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := httpx.SessionToken(r)
	if raw == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeUnauthorized,
			ErrorDescription: "sign in required",
		})
		return
	}

	token, sess, err := h.Sessions.Refresh(r.Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			httpx.ClearSessionCookie(w, h.CookieSecure)
			httpx.WriteJSON(w, http.StatusUnauthorized, gymsdk.ErrorResponse{
				Error:            gymsdk.ErrorCodeInvalidSession,
				ErrorDescription: "session cannot be refreshed",
			})
			return
		}
		slogx.FromContext(r.Context()).Error("failed to refresh session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gymsdk.ErrorResponse{
			Error:            gymsdk.ErrorCodeServerError,
			ErrorDescription: "failed to refresh session",
		})
		return
	}

	httpx.SetSessionCookie(w, token, sess.ExpiresAt, h.CookieSecure)
	resp := sessionResponse(sess)
	resp.Token = token
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSignOut godoc
//
//	@Summary		Sign out
//	@Description	Clears the session cookie.
//	@Tags			Sign-in
//	@Success		303
//	@Router			/auth/signout [post].
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.CookieSecure)
	http.Redirect(w, r, guard.SignInPath, http.StatusSeeOther)
}
