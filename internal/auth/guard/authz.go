package guard

import (
	"github.com/aussiebroadwan/gymgate/internal/auth/domain"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
)

// Page helpers redirect to SignInPath when anonymous and to UnauthorizedPath
// when the role is too low. Admin pages also admit owners.

func RequireLogin() httpx.Middleware {
	return httpx.RequireRolePage(SignInPath, UnauthorizedPath)
}

func RequireAdmin() httpx.Middleware {
	return httpx.RequireRolePage(SignInPath, UnauthorizedPath, domain.AdminRoles...)
}

func RequireOwner() httpx.Middleware {
	return httpx.RequireRolePage(SignInPath, UnauthorizedPath, domain.OwnerRoles...)
}

// API helpers answer 401 or 403 JSON instead of redirecting.

func RequireLoginAPI() httpx.Middleware { return httpx.RequireRoleAPI() }

func RequireAdminAPI() httpx.Middleware { return httpx.RequireRoleAPI(domain.AdminRoles...) }

func RequireOwnerAPI() httpx.Middleware { return httpx.RequireRoleAPI(domain.OwnerRoles...) }

// RequireOwnerAuthoritative is for owner endpoints that change state: the
// role comes from lookup, not from the token.
func RequireOwnerAuthoritative(lookup httpx.RoleLookup) httpx.Middleware {
	return httpx.RequireRoleAuthoritative(lookup, domain.OwnerRoles...)
}
