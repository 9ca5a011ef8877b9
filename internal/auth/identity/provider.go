// Package identity wraps the OAuth providers members sign in with. The
// provider proves who the person is; admission and roles are decided
// elsewhere.
package identity

import (
	"context"
	"errors"
	"slices"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
)

var (
	ErrUnknownProvider = errors.New("identity: unknown provider")
	ErrExchange        = errors.New("identity: code exchange failed")
	ErrProfile         = errors.New("identity: profile request failed")
	ErrNoEmail         = errors.New("identity: no verified email")
)

// Provider runs the authorization code flow against one OAuth provider.
type Provider interface {
	Name() string

	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state string) string

	// Identify exchanges an authorization code and fetches the profile.
	Identify(ctx context.Context, code string) (domain.Identity, error)
}

// Registry looks providers up by the name used in /auth/{provider}.
type Registry struct {
	byName map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.byName[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// Names returns the configured providers in a stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int { return len(r.byName) }
