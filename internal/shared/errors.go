package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid indicates a missing, expired or revoked bearer token.
	ErrTokenInvalid = errors.New("bearer token invalid")
)
