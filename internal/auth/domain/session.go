package domain

import "time"

// Session is the request-facing view of a session token. It is rebuilt from
// the token alone; Role may lag behind the account until the next refresh.
type Session struct {
	UserID    string
	Email     string
	Role      Role
	ExpiresAt time.Time
}
