package mocks

import "github.com/apparts-js/apparts-login-server/domain"

// MockTokenIssuer implements domain.TokenIssuer interface for testing
type MockTokenIssuer struct {
	MintFunc func(user *domain.User, extraClaims map[string]any, opts *domain.MintOptions) (string, error)
}

// NewMockTokenIssuer creates a new MockTokenIssuer with default behaviors
func NewMockTokenIssuer() *MockTokenIssuer {
	return &MockTokenIssuer{}
}

// Mint signs an API token for the user
func (m *MockTokenIssuer) Mint(user *domain.User, extraClaims map[string]any, opts *domain.MintOptions) (string, error) {
	if m.MintFunc != nil {
		return m.MintFunc(user, extraClaims, opts)
	}
	if !user.Complete() {
		return "", domain.ErrInvalidUserState
	}
	// Default behavior: fixed token
	return "api-token", nil
}
