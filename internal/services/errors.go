package services

import "errors"

// Admission pipeline error taxonomy. Middleware maps these onto HTTP
// statuses: credential problems are 401, role and subscription problems
// are 403.
var (
	// ErrExpiredCredential means the token verified structurally but its
	// expiry has passed.
	ErrExpiredCredential = errors.New("credential expired")

	// ErrMalformedCredential means the signature or structure did not
	// validate; none of its claims may be trusted.
	ErrMalformedCredential = errors.New("credential malformed")

	// ErrInvalidRole means the claims decoded but the role is not one of
	// the supported four. No identity lookup is attempted.
	ErrInvalidRole = errors.New("invalid role")

	// ErrIdentityNotFound means the credential was valid but the account
	// it references no longer exists.
	ErrIdentityNotFound = errors.New("identity not found")
)
