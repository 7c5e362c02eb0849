package services

import "github.com/apparts-js/apparts-login-server/domain"

// Hooks collects the caller-supplied extension points as an explicit strategy
// object passed at construction. Every field is optional; a nil field means
// no-op.
type Hooks struct {
	// PasswordPolicy validates a candidate password before it is hashed.
	// A non-nil result carries the human-readable rejection reason.
	PasswordPolicy func(password string) error

	// ValidateExtra validates the opaque extension payload on registration.
	ValidateExtra func(extra map[string]any) error

	// WelcomeMail renders the mail sent after registration.
	WelcomeMail func(user *domain.User) (title, body string)

	// ResetPasswordMail renders the mail sent for a password reset request.
	ResetPasswordMail func(user *domain.User) (title, body string)

	// ExtraClaims supplies delegate claims for minted API tokens. Call-site
	// extras win key collisions against these.
	ExtraClaims func(user *domain.User) map[string]any
}
