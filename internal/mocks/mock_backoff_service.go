package mocks

import (
	"context"

	"github.com/apparts-js/apparts-login-server/domain"
)

// MockBackoffService implements domain.BackoffService interface for testing
type MockBackoffService struct {
	CheckPasswordFunc func(ctx context.Context, user *domain.User, password string) error
}

// NewMockBackoffService creates a new MockBackoffService with default behaviors
func NewMockBackoffService() *MockBackoffService {
	return &MockBackoffService{}
}

// CheckPassword runs the gated password check
func (m *MockBackoffService) CheckPassword(ctx context.Context, user *domain.User, password string) error {
	if m.CheckPasswordFunc != nil {
		return m.CheckPasswordFunc(ctx, user, password)
	}
	// Default behavior: success
	return nil
}
