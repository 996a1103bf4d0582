package httpadapter

import (
	"context"
	"log/slog"

	application "faas/contexts/identity-access/identity-service/application"
	"faas/contexts/identity-access/identity-service/application/queries"
	tokenadapter "faas/contexts/identity-access/identity-service/adapters/token"
	httptransport "faas/contexts/identity-access/identity-service/transport/http"
	"faas/internal/shared/identity"
)

type Handler struct {
	ResolveIdentity queries.ResolveIdentityUseCase
	Issuer          tokenadapter.JWTResolver
	Logger          *slog.Logger
}

// ResolveCredential is used by the platform server to authenticate
// every request before it reaches a record module.
func (h Handler) ResolveCredential(ctx context.Context, credential string) (identity.Identity, error) {
	return h.ResolveIdentity.Execute(ctx, credential)
}

// IssueTokenHandler godoc
// @Summary Issue a demo session token
// @Description Mints a signed token for a known directory user. Demo installations only; no password check.
// @Tags identity-service
// @Accept json
// @Produce json
// @Param request body http.IssueTokenRequest true "Directory username"
// @Success 200 {object} http.IssueTokenResponse
// @Failure 404 {object} http.ErrorResponse
// @Router /api/auth/token [post]
func (h Handler) IssueTokenHandler(ctx context.Context, req httptransport.IssueTokenRequest) (httptransport.IssueTokenResponse, error) {
	user, err := h.Issuer.Users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return httptransport.IssueTokenResponse{}, err
	}
	token, err := h.Issuer.Mint(user.UserID, user.Username, user.Role)
	if err != nil {
		return httptransport.IssueTokenResponse{}, err
	}

	application.ResolveLogger(h.Logger).Info("demo token issued",
		"event", "identity_token_issued",
		"module", "identity-access/identity-service",
		"layer", "transport",
		"user_id", user.UserID,
	)
	return httptransport.IssueTokenResponse{
		Token:    token,
		Identity: mapIdentity(user.Claim()),
	}, nil
}

// WhoAmIHandler godoc
// @Summary Describe the authenticated caller
// @Tags identity-service
// @Produce json
// @Security BearerAuth
// @Success 200 {object} http.WhoAmIResponse
// @Failure 401 {object} http.ErrorResponse
// @Router /api/auth/me [get]
func (h Handler) WhoAmIHandler(_ context.Context, actor identity.Identity) httptransport.WhoAmIResponse {
	return httptransport.WhoAmIResponse{Identity: mapIdentity(actor)}
}

func mapIdentity(claim identity.Identity) httptransport.IdentityDTO {
	return httptransport.IdentityDTO{
		UserID:   claim.ID,
		Username: claim.Username,
		Role:     string(claim.Role),
		FullName: claim.FullName,
	}
}
