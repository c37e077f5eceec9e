package auth

import "errors"

var (
	// ErrAuthentication indicates no valid session is present: the token is
	// missing, malformed, unsigned, or expired. Always reported before any
	// authorization failure.
	ErrAuthentication = errors.New("auth: authentication required")

	// ErrAuthorization indicates a valid session whose department does not
	// hold the required capability.
	ErrAuthorization = errors.New("auth: permission denied")

	// ErrInvalidToken indicates the token failed signature or expiry
	// validation. Callers treat it the same as an absent session.
	ErrInvalidToken = errors.New("auth: invalid token")
)
