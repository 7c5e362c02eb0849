package mocks

import (
	"context"

	"github.com/apparts-js/apparts-login-server/domain"
)

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	CreateFunc        func(ctx context.Context, userID string, details domain.DeviceDetails) (string, error)
	ValidateFunc      func(ctx context.Context, userID, token string) (*domain.Session, error)
	InvalidateFunc    func(ctx context.Context, userID, token string) error
	InvalidateAllFunc func(ctx context.Context, userID string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Create issues a new session token
func (m *MockSessionService) Create(ctx context.Context, userID string, details domain.DeviceDetails) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, details)
	}
	// Default behavior: fixed token
	return "session-token", nil
}

// Validate checks a session token
func (m *MockSessionService) Validate(ctx context.Context, userID, token string) (*domain.Session, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, userID, token)
	}
	// Default behavior: rejected
	return nil, domain.ErrUnauthorized
}

// Invalidate invalidates one session
func (m *MockSessionService) Invalidate(ctx context.Context, userID, token string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, userID, token)
	}
	// Default behavior: success
	return nil
}

// InvalidateAll invalidates every session of a user
func (m *MockSessionService) InvalidateAll(ctx context.Context, userID string) error {
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx, userID)
	}
	// Default behavior: success
	return nil
}
