package gymsdk

import (
	"time"

	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_request"`
	ErrorDescription string `json:"error_description" example:"quantity must be between 1 and 100"`
}

// ValidationErrorResponse is returned when a request body fails field
// validation. Details maps JSON field names to messages.
type ValidationErrorResponse struct {
	Error            string            `json:"error" example:"validation_error"`
	ErrorDescription string            `json:"error_description"`
	Details          map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse holds the public keys that verify session tokens.
type JWKSResponse jwtx.JWKS

// SessionResponse is the caller's session as the server sees it. Token is set
// only by the refresh endpoint.
type SessionResponse struct {
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role" example:"user"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token,omitempty"`
}

// GenerateInvitesRequest asks for a batch of invite codes. Zero values take
// the server defaults.
type GenerateInvitesRequest struct {
	Quantity       int `json:"quantity" validate:"omitempty,min=1,max=100" example:"10"`
	ExpiresInHours int `json:"expiresInHours" validate:"omitempty,min=1,max=8760" example:"168"`
}

// GenerateInvitesResponse lists the codes actually stored. Count can be below
// the requested quantity when duplicates were skipped.
type GenerateInvitesResponse struct {
	Count int      `json:"count"`
	Codes []string `json:"codes"`
}

type InviteCode struct {
	Code          string     `json:"code" example:"K7MX2PQA"`
	Status        string     `json:"status" example:"active"`
	ExpiresAt     time.Time  `json:"expires_at"`
	Used          bool       `json:"used"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	RedeemedEmail string     `json:"redeemed_email,omitempty"`
	UserID        string     `json:"user_id,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type InviteListResponse struct {
	Invites []InviteCode `json:"invites"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role" example:"user"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users []User `json:"users"`
}

// CreateUserRequest pre-provisions a member. Owners cannot be created here.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email" example:"lifter@example.com"`
	Role  string `json:"role" validate:"required,oneof=user admin" example:"user"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin owner" example:"admin"`
}
