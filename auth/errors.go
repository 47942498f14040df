package auth

import "errors"

// Token errors.
var (
	// ErrInvalidToken indicates the token is empty, contains whitespace, or is a malformed JWT.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)
