package mocks

import (
	"context"

	"github.com/apparts-js/apparts-login-server/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc      func(ctx context.Context, session *domain.Session) error
	FindByTokenFunc func(ctx context.Context, userID, token string) (*domain.Session, error)
	SaveFunc        func(ctx context.Context, session *domain.Session) error
	ListByUserFunc  func(ctx context.Context, userID string) ([]*domain.Session, error)
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create stores a new session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// FindByToken finds a session by user and token
func (m *MockSessionRepository) FindByToken(ctx context.Context, userID, token string) (*domain.Session, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, userID, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// Save overwrites an existing session
func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// ListByUser lists all sessions of a user
func (m *MockSessionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	// Default behavior: no sessions
	return nil, nil
}
