package errors

import "errors"

var (
	ErrInvalidCredential = errors.New("credential is missing or malformed")
	ErrTokenExpired      = errors.New("token is expired")
	ErrUserNotFound      = errors.New("user not found")
	ErrUnknownRole       = errors.New("role is not recognized")
)
