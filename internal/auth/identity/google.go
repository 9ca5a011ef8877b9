package identity

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// NewGoogle returns a provider named "google".
func NewGoogle(cfg Config) *OAuth2Provider {
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = endpoints.Google
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = googleUserInfoURL
	}
	return newOAuth2Provider("google", cfg, googleProfile)
}

func googleProfile(ctx context.Context, p *OAuth2Provider, client *http.Client) (domain.Identity, error) {
	var user googleUser
	if err := getJSON(ctx, client, p.userInfoURL, &user); err != nil {
		return domain.Identity{}, err
	}
	if !user.EmailVerified {
		return domain.Identity{}, ErrNoEmail
	}
	return domain.Identity{
		ProviderAccountID: user.Sub,
		Email:             user.Email,
		Name:              user.Name,
	}, nil
}
