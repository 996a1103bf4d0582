package identity

import "errors"

var (
	ErrUnauthenticated = errors.New("no authenticated identity")
	ErrForbidden       = errors.New("role is not permitted to perform this action")
)

// Authorize is the pure role gate shared by all record modules.
// An administrator satisfies any non-empty required set; this superuser
// rule is a single explicit branch, not incidental string matching.
// Decision logging is a caller concern.
func Authorize(actor Identity, required ...Role) error {
	if actor.IsZero() {
		return ErrUnauthenticated
	}
	if actor.IsAdministrator() {
		return nil
	}
	for _, role := range required {
		if actor.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
