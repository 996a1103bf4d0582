package identityservice

import (
	"context"
	"errors"
	"testing"
	"time"

	tokenadapter "faas/contexts/identity-access/identity-service/adapters/token"
	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
	"faas/internal/shared/identity"
)

func TestDemoTokenResolvesDirectoryUser(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	claim, err := module.Handler.ResolveCredential(context.Background(), "demo:approver1")
	if err != nil {
		t.Fatalf("resolve demo token failed: %v", err)
	}
	if claim.Role != identity.RoleApprover {
		t.Fatalf("expected approver role, got %s", claim.Role)
	}
	if claim.FullName == "" {
		t.Fatalf("expected full name from directory")
	}
}

func TestDemoTokenUnknownUser(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	_, err := module.Handler.ResolveCredential(context.Background(), "demo:ghost")
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestJWTMintResolveRoundTrip(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	token, err := module.Handler.Issuer.Mint("user-encoder-1", "encoder1", identity.RoleEncoder)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claim, err := module.Handler.ResolveCredential(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve minted token failed: %v", err)
	}
	if claim.ID != "user-encoder-1" || claim.Role != identity.RoleEncoder {
		t.Fatalf("unexpected claim: %+v", claim)
	}
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	token, err := module.Handler.Issuer.Mint("user-encoder-1", "encoder1", identity.RoleEncoder)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	_, err = module.Handler.ResolveCredential(context.Background(), token+"x")
	if !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected invalid credential, got %v", err)
	}
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func TestJWTRejectsExpiredToken(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	issuer := tokenadapter.JWTResolver{
		Secret:   module.Handler.Issuer.Secret,
		Users:    module.Store,
		Lifespan: time.Hour,
		Clock:    fixedClock{at: time.Now().Add(-48 * time.Hour)},
	}
	token, err := issuer.Mint("user-encoder-1", "encoder1", identity.RoleEncoder)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	_, err = module.Handler.ResolveCredential(context.Background(), token)
	if !errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestIssueTokenHandlerUnknownUser(t *testing.T) {
	module := NewInMemoryModule(nil, nil)

	_, err := module.Handler.ResolveCredential(context.Background(), "")
	if !errors.Is(err, domainerrors.ErrInvalidCredential) {
		t.Fatalf("expected invalid credential for empty token, got %v", err)
	}
}
