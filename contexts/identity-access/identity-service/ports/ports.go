package ports

import (
	"context"
	"time"

	"faas/contexts/identity-access/identity-service/domain/entities"
	"faas/internal/shared/identity"
)

// UserDirectory is the durable lookup behind credential resolution.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (entities.User, error)
}

// CredentialResolver turns one flavor of raw credential into an identity
// claim. The application layer picks a strategy per request; record
// modules never see this interface.
type CredentialResolver interface {
	Resolve(ctx context.Context, credential string) (identity.Identity, error)
}

type Clock interface {
	Now() time.Time
}
