package tokenadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"

	domainerrors "faas/contexts/identity-access/identity-service/domain/errors"
	"faas/contexts/identity-access/identity-service/ports"
	"faas/internal/shared/identity"
)

type faasClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// JWTResolver validates HS256 tokens minted by this service and joins
// the claim against the user directory for the current full name.
type JWTResolver struct {
	Secret   []byte
	Users    ports.UserDirectory
	Lifespan time.Duration
	Clock    ports.Clock
}

func (r JWTResolver) Resolve(ctx context.Context, credential string) (identity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	claims := &faasClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return r.Secret, nil
	})
	if err != nil {
		if validationErr, ok := err.(*jwt.ValidationError); ok &&
			validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return identity.Identity{}, domainerrors.ErrTokenExpired
		}
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}
	if !token.Valid {
		return identity.Identity{}, domainerrors.ErrInvalidCredential
	}

	role := identity.ParseRole(claims.Role)
	if role == "" {
		return identity.Identity{}, domainerrors.ErrUnknownRole
	}

	claim := identity.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     role,
	}
	if r.Users != nil {
		user, err := r.Users.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return identity.Identity{}, err
		}
		claim.FullName = user.FullName
		claim.Username = user.Username
	}
	return claim, nil
}

// Mint issues a signed token for a directory user. Used by the login
// handler and by tests building verified credentials.
func (r JWTResolver) Mint(userID, username string, role identity.Role) (string, error) {
	lifespan := r.Lifespan
	if lifespan <= 0 {
		lifespan = 12 * time.Hour
	}
	now := time.Now()
	if r.Clock != nil {
		now = r.Clock.Now()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &faasClaims{
		UserID:   userID,
		Username: username,
		Role:     string(role),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(lifespan).Unix(),
		},
	})
	return token.SignedString(r.Secret)
}
