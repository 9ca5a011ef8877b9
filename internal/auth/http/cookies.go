package http

import (
	"net/http"
	"time"
)

const (
	// InviteCookieName carries a typed invite code from the entry page to the
	// OAuth callback. It is readable by script so the entry page can drop it
	// on its own timer.
	InviteCookieName   = "inviteCode"
	inviteCookieMaxAge = 300

	stateCookieName   = "gymgate.oauth_state"
	stateCookieMaxAge = 600
)

func setInviteCookie(w http.ResponseWriter, code string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     InviteCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   inviteCookieMaxAge,
		Expires:  time.Now().Add(inviteCookieMaxAge * time.Second),
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearInviteCookie runs on every callback response whatever the outcome.
func clearInviteCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     InviteCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

func pendingInviteCode(r *http.Request) string {
	c, err := r.Cookie(InviteCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func setStateCookie(w http.ResponseWriter, state string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/",
		MaxAge:   stateCookieMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func stateCookie(r *http.Request) string {
	c, err := r.Cookie(stateCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
