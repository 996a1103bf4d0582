package entities

import (
	"strings"
	"time"

	"faas/internal/shared/identity"
)

// User is a directory entry backing credential resolution. Unlike the
// per-request identity claim, users are durable rows.
type User struct {
	UserID    string
	Username  string
	FullName  string
	Role      identity.Role
	CreatedAt time.Time
}

func (u User) Validate() bool {
	return strings.TrimSpace(u.UserID) != "" &&
		strings.TrimSpace(u.Username) != "" &&
		u.Role != ""
}

func (u User) Claim() identity.Identity {
	return identity.Identity{
		ID:       u.UserID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
	}
}
