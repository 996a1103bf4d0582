package queries

import (
	"context"
	"log/slog"
	"strings"

	application "faas/contexts/identity-access/identity-service/application"
	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
	"faas/contexts/identity-access/identity-service/ports"
	"faas/internal/shared/identity"
)

// DemoTokenPrefix marks the backward-compatible pseudo-token accepted
// alongside verified JWTs. Tokens look like "demo:<username>".
const DemoTokenPrefix = "demo:"

// ResolveIdentityUseCase dispatches a raw credential to the matching
// resolver strategy. Both strategies produce the same claim shape, so
// downstream modules stay decoupled from authentication mechanics.
type ResolveIdentityUseCase struct {
	Demo     ports.CredentialResolver
	Verified ports.CredentialResolver
	Logger   *slog.Logger
}

func (uc ResolveIdentityUseCase) Execute(ctx context.Context, credential string) (identity.Identity, error) {
	logger := application.ResolveLogger(uc.Logger)
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	resolver := uc.Verified
	strategy := "jwt"
	if strings.HasPrefix(credential, DemoTokenPrefix) {
		resolver = uc.Demo
		strategy = "demo"
	}
	if resolver == nil {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	claim, err := resolver.Resolve(ctx, credential)
	if err != nil {
		logger.Warn("credential resolution failed",
			"event", "identity_resolution_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"strategy", strategy,
		)
		return identity.Identity{}, err
	}
	if claim.IsZero() {
		return identity.Identity{}, domainerrors.ErrUnknownRole
	}
	return claim, nil
}
