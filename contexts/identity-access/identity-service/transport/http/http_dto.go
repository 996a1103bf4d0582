package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type IssueTokenRequest struct {
	Username string `json:"username" validate:"required"`
}

type IssueTokenResponse struct {
	Token    string      `json:"token"`
	Identity IdentityDTO `json:"identity"`
}

type IdentityDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type WhoAmIResponse struct {
	Identity IdentityDTO `json:"identity"`
}
