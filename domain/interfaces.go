package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Lookups by email only
// ever return non-deleted users; deletion is a soft-delete via Update.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, userID, token string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
}

// LoginAttemptRepository defines access to the append-only login-attempt
// ledger. RecentResolved returns the newest success/failure rows first;
// pending rows never occupy window slots, so denied attempts cannot push
// failures out of the examined window. Rows are never deleted.
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *LoginAttempt) error
	RecentResolved(ctx context.Context, userID string, limit int) ([]*LoginAttempt, error)
	Resolve(ctx context.Context, id string, outcome AttemptOutcome) error
}

// CredentialService owns a user's password hash, reset-token state and
// soft-delete lifecycle
type CredentialService interface {
	VerifyPassword(ctx context.Context, user *User, password string) error
	SetPassword(ctx context.Context, user *User, password string) error
	IssueResetToken(ctx context.Context, user *User) (string, error)
	ConsumeResetToken(ctx context.Context, user *User, candidate string) (bool, error)
	Delete(ctx context.Context, user *User) error
}

// SessionService issues, validates and invalidates session tokens
type SessionService interface {
	Create(ctx context.Context, userID string, details DeviceDetails) (string, error)
	Validate(ctx context.Context, userID, token string) (*Session, error)
	Invalidate(ctx context.Context, userID, token string) error
	InvalidateAll(ctx context.Context, userID string) error
}

// BackoffService gates password checks behind the exponential-backoff policy
// fed by the login-attempt ledger
type BackoffService interface {
	CheckPassword(ctx context.Context, user *User, password string) error
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// MintOptions overrides signing parameters for a single Mint call
type MintOptions struct {
	ExpiresIn time.Duration
}

// TokenIssuer mints signed API tokens carrying user claims
type TokenIssuer interface {
	Mint(user *User, extraClaims map[string]any, opts *MintOptions) (string, error)
}

// TokenGenerator produces opaque random tokens for sessions and password
// resets. Tokens carry no structure; holders compare them only for equality.
type TokenGenerator interface {
	Generate(byteLength int) (string, error)
}

// AuthService defines the authentication business logic. Transport binding
// (HTTP, routing, request validation) is the embedding application's concern.
type AuthService interface {
	Register(ctx context.Context, email string, extra map[string]any) (*User, error)
	Login(ctx context.Context, email, password string, device DeviceDetails) (*AuthResult, error)
	AuthenticatePassword(ctx context.Context, email, password string) (*User, error)
	AuthenticateToken(ctx context.Context, email, token string) (*TokenAuth, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, user *User, newPassword string, signOutEverywhere bool) (string, error)
	Logout(ctx context.Context, userID, sessionToken string) error
	DeleteAccount(ctx context.Context, user *User) error
	RenewAPIToken(ctx context.Context, user *User) (string, error)
}

// NotificationService delivers rendered notifications out-of-band
type NotificationService interface {
	SendEmail(to, subject, body string) error
}

// Clock is the injectable time source used for expiry, backoff and attempt
// timestamps
type Clock interface {
	Now() time.Time
}
