package guard

import (
	"slices"
	"strings"

	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
)

// Paths the guard redirects to.
const (
	EntryPath        = "/entry"
	SignInPath       = "/signin"
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	HomePath         = "/"
)

// PublicPrefixes are reachable without a session so the sign-in flow itself
// works. The refresh endpoint is listed because it accepts recently expired
// tokens and checks them itself. Entries ending in "/" match as prefixes, the
// rest match exactly or as a path segment.
var PublicPrefixes = []string{
	EntryPath,
	SignInPath,
	LoginPath,
	UnauthorizedPath,
	"/auth/",
	"/api/session/refresh",
	"/livez",
	"/readyz",
	"/.well-known/",
	"/swagger/",
	"/static/",
	"/favicon.ico",
}

// Rule is one row of the guard table. A rule applies when Match reports true
// for the path; the request then passes only if Allow does.
type Rule struct {
	Name     string
	Match    func(path string) bool
	Allow    func(tok *Token) bool
	Redirect string
}

// Table is evaluated top to bottom, first failing rule wins.
type Table []Rule

// HasPrefix matches prefix itself and anything below it, so "/admin" covers
// "/admin/users" but not "/administrator".
func HasPrefix(prefix string) func(string) bool {
	return func(path string) bool {
		return underPrefix(path, prefix)
	}
}

func underPrefix(path, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix)
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsPublic reports whether path is on the public allow-list.
func IsPublic(path string) bool {
	return slices.ContainsFunc(PublicPrefixes, func(p string) bool {
		return underPrefix(path, p)
	})
}

func signedIn(tok *Token) bool { return tok != nil }

func hasRole(role domain.Role) func(*Token) bool {
	return func(tok *Token) bool {
		return tok != nil && tok.Role == role
	}
}

// DefaultRules is the gym's perimeter. Role-specific prefixes come before the
// anonymous gate so a signed-in member with the wrong role lands on the page
// that explains it.
var DefaultRules = Table{
	{
		Name:     "owner",
		Match:    HasPrefix("/owner"),
		Allow:    hasRole(domain.RoleOwner),
		Redirect: SignInPath,
	},
	{
		Name:     "dashboard",
		Match:    HasPrefix("/dashboard"),
		Allow:    signedIn,
		Redirect: LoginPath,
	},
	{
		Name:     "admin",
		Match:    HasPrefix("/admin"),
		Allow:    hasRole(domain.RoleAdmin),
		Redirect: UnauthorizedPath,
	},
	{
		Name: "gate",
		Match: func(path string) bool {
			return path != EntryPath && !IsPublic(path)
		},
		Allow:    signedIn,
		Redirect: EntryPath,
	},
	{
		Name:     "entry",
		Match:    func(path string) bool { return path == EntryPath },
		Allow:    func(tok *Token) bool { return tok == nil },
		Redirect: HomePath,
	},
	{
		Name:     "posts",
		Match:    HasPrefix("/posts"),
		Allow:    signedIn,
		Redirect: SignInPath,
	},
}
