package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"golang.org/x/oauth2/endpoints"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// NewGitHub returns a provider named "github".
func NewGitHub(cfg Config) *OAuth2Provider {
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = endpoints.GitHub
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"read:user", "user:email"}
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = githubUserURL
	}
	if cfg.EmailsURL == "" {
		cfg.EmailsURL = githubEmailsURL
	}
	return newOAuth2Provider("github", cfg, githubProfile)
}

// githubProfile prefers the primary verified address from /user/emails; the
// public profile email is used only when that list is unavailable.
func githubProfile(ctx context.Context, p *OAuth2Provider, client *http.Client) (domain.Identity, error) {
	var user githubUser
	if err := getJSON(ctx, client, p.userInfoURL, &user); err != nil {
		return domain.Identity{}, err
	}

	email := user.Email
	var emails []githubEmail
	if err := getJSON(ctx, client, p.emailsURL, &emails); err == nil {
		email = pickGitHubEmail(emails)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	return domain.Identity{
		ProviderAccountID: strconv.FormatInt(user.ID, 10),
		Email:             email,
		Name:              name,
	}, nil
}

func pickGitHubEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
