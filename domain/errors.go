package domain

import (
	"errors"
	"fmt"
	"time"
)

// Authentication errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrMalformedCredentials = errors.New("authorization malformed")
	ErrUnauthorized         = errors.New("unauthorized")
)

// ErrPasswordNotSet is returned when a password check runs against a user
// that never had a password; the user must go through the reset flow first.
// It still reads as an authorization failure to callers.
var ErrPasswordNotSet = fmt.Errorf("please reset your password: %w", ErrUnauthorized)

// Throttling errors
var ErrRateLimited = errors.New("login failed, too often")

// RateLimitedError is returned when the backoff gate denies a password check.
// NextAllowed is the earliest time another attempt may run.
type RateLimitedError struct {
	NextAllowed time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("login failed, too often; next allowed login attempt at %s", e.NextAllowed.Format(time.RFC3339))
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// Password policy errors
var ErrPasswordPolicyViolation = errors.New("the password does not meet all requirements")

// PasswordPolicyError carries the human-readable reason a new password was
// rejected by the injected policy validator.
type PasswordPolicyError struct {
	Reason string
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("the password does not meet all requirements: %s", e.Reason)
}

func (e *PasswordPolicyError) Unwrap() error { return ErrPasswordPolicyViolation }

// ErrInvalidUserState signals a programmer error: an API token was requested
// for a user whose entity was never fully loaded. It must propagate unhandled.
var ErrInvalidUserState = errors.New("api token requested for a structurally invalid user")

// Session errors
var ErrSessionNotFound = errors.New("session not found")
