package mocks

import (
	"context"

	"github.com/apparts-js/apparts-login-server/domain"
)

// MockCredentialService implements domain.CredentialService interface for testing
type MockCredentialService struct {
	VerifyPasswordFunc    func(ctx context.Context, user *domain.User, password string) error
	SetPasswordFunc       func(ctx context.Context, user *domain.User, password string) error
	IssueResetTokenFunc   func(ctx context.Context, user *domain.User) (string, error)
	ConsumeResetTokenFunc func(ctx context.Context, user *domain.User, candidate string) (bool, error)
	DeleteFunc            func(ctx context.Context, user *domain.User) error
}

// NewMockCredentialService creates a new MockCredentialService with default behaviors
func NewMockCredentialService() *MockCredentialService {
	return &MockCredentialService{}
}

// VerifyPassword checks a password against the stored hash
func (m *MockCredentialService) VerifyPassword(ctx context.Context, user *domain.User, password string) error {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(ctx, user, password)
	}
	// Default behavior: success
	return nil
}

// SetPassword validates and stores a new password
func (m *MockCredentialService) SetPassword(ctx context.Context, user *domain.User, password string) error {
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(ctx, user, password)
	}
	// Default behavior: success
	return nil
}

// IssueResetToken issues a fresh reset token
func (m *MockCredentialService) IssueResetToken(ctx context.Context, user *domain.User) (string, error) {
	if m.IssueResetTokenFunc != nil {
		return m.IssueResetTokenFunc(ctx, user)
	}
	// Default behavior: fixed token
	return "reset-token", nil
}

// ConsumeResetToken consumes a reset token candidate
func (m *MockCredentialService) ConsumeResetToken(ctx context.Context, user *domain.User, candidate string) (bool, error) {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, user, candidate)
	}
	// Default behavior: rejected
	return false, domain.ErrUnauthorized
}

// Delete soft-deletes the user
func (m *MockCredentialService) Delete(ctx context.Context, user *domain.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}
