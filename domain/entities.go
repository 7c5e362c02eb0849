package domain

import "time"

// User represents an account in the system. Extra carries the caller-defined
// extension payload; the core stores it but never interprets it.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	ResetToken       string
	ResetTokenExpiry *time.Time
	Deleted          bool
	CreatedAt        time.Time
	Extra            map[string]any
}

// Complete reports whether the entity was fully loaded. An API token must
// never be minted for an incomplete user.
func (u *User) Complete() bool {
	return u != nil && u.ID != "" && u.Email != "" && !u.CreatedAt.IsZero()
}

// DeviceDetails describes the device a session was created from
type DeviceDetails struct {
	IP      string `json:"ip,omitempty"`
	Browser string `json:"browser,omitempty"`
	OS      string `json:"os,omitempty"`
}

// Session represents a device-scoped login. A user may hold any number of
// concurrent valid sessions; an invalidated session is kept, not removed.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Token     string        `json:"token"`
	Valid     bool          `json:"valid"`
	CreatedAt time.Time     `json:"created_at"`
	Details   DeviceDetails `json:"details"`
}

// AttemptOutcome is the resolution state of a login attempt
type AttemptOutcome string

const (
	AttemptPending AttemptOutcome = "pending"
	AttemptSuccess AttemptOutcome = "success"
	AttemptFailure AttemptOutcome = "failure"
)

// LoginAttempt is one row of the append-only login-attempt ledger. An attempt
// denied by the backoff gate is never resolved and stays pending forever.
type LoginAttempt struct {
	ID        string
	UserID    string
	Outcome   AttemptOutcome
	CreatedAt time.Time
}

// AuthResult represents a successful password login
type AuthResult struct {
	User         *User
	SessionToken string
	APIToken     string
}

// TokenAuth represents a successful token-mode authentication. ResetTokenUsed
// is set when the reset-token path won; the caller may then require a
// password change in the same request.
type TokenAuth struct {
	User           *User
	ResetTokenUsed bool
}
