package identity

import "strings"

// Role is the coarse access level carried by a resolved identity.
type Role string

const (
	RoleEncoder       Role = "encoder"
	RoleApprover      Role = "approver"
	RoleAdministrator Role = "administrator"
)

// ParseRole normalizes a raw role string. Unknown values map to the
// empty Role so callers can reject them explicitly.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleEncoder:
		return RoleEncoder
	case RoleApprover:
		return RoleApprover
	case RoleAdministrator:
		return RoleAdministrator
	default:
		return ""
	}
}

// Identity is the per-request claim produced by the identity-service
// resolvers. It is ephemeral and never persisted by record modules.
type Identity struct {
	ID       string
	Username string
	Role     Role
	FullName string
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.ID) == "" || i.Role == ""
}

func (i Identity) IsAdministrator() bool {
	return i.Role == RoleAdministrator
}
