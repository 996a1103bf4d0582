package tokenadapter

import (
	"context"
	"strings"

	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
	"faas/contexts/identity-access/identity-service/ports"
	"faas/internal/shared/identity"
)

// DemoResolver accepts the sentinel-prefixed pseudo-token kept for demo
// installations: "demo:<username>". The username must still exist in the
// directory; the resolver never invents roles.
type DemoResolver struct {
	Prefix string
	Users  ports.UserDirectory
}

func (r DemoResolver) Resolve(ctx context.Context, credential string) (identity.Identity, error) {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "demo:"
	}
	credential = strings.TrimSpace(credential)
	if !strings.HasPrefix(credential, prefix) {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	username := strings.TrimSpace(strings.TrimPrefix(credential, prefix))
	if username == "" {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	user, err := r.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return identity.Identity{}, err
	}
	return user.Claim(), nil
}
