package services

import "errors"

// Sentinel errors returned by the identity and auth services. Handlers
// translate these into HTTP statuses; anything else is a 500.
var (
	ErrInvalidIdentity      = errors.New("invalid identity")
	ErrDuplicateAccount     = errors.New("an account already exists for this identity")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired OTP")
	ErrProfileExists        = errors.New("profile already exists")
	ErrProfileNotFound      = errors.New("profile not found")
)
