package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"golang.org/x/oauth2"
)

// Config holds the client registration for one provider. Endpoint and the
// profile URLs default to the provider's public endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	Endpoint    oauth2.Endpoint
	UserInfoURL string
	EmailsURL   string

	HTTPClient *http.Client
}

// profileFunc turns an authenticated client into an identity.
type profileFunc func(ctx context.Context, p *OAuth2Provider, client *http.Client) (domain.Identity, error)

// OAuth2Provider implements Provider on golang.org/x/oauth2.
type OAuth2Provider struct {
	name        string
	oauth       *oauth2.Config
	userInfoURL string
	emailsURL   string
	httpClient  *http.Client
	profile     profileFunc
}

func newOAuth2Provider(name string, cfg Config, profile profileFunc) *OAuth2Provider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OAuth2Provider{
		name: name,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     cfg.Endpoint,
		},
		userInfoURL: cfg.UserInfoURL,
		emailsURL:   cfg.EmailsURL,
		httpClient:  client,
		profile:     profile,
	}
}

func (p *OAuth2Provider) Name() string { return p.name }

func (p *OAuth2Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *OAuth2Provider) Identify(ctx context.Context, code string) (domain.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %s: %v", ErrExchange, p.name, err)
	}

	id, err := p.profile(ctx, p, p.oauth.Client(ctx, tok))
	if err != nil {
		return domain.Identity{}, err
	}
	id.Provider = p.name
	id.Email = domain.NormalizeEmail(id.Email)
	if id.Email == "" {
		return domain.Identity{}, ErrNoEmail
	}
	return id, nil
}

// getJSON fetches url with client and decodes the body into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfile, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfile, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrProfile, url, resp.StatusCode)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProfile, err)
	}
	return nil
}
