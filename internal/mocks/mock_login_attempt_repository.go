package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/apparts-js/apparts-login-server/domain"
)

// MockLoginAttemptRepository implements domain.LoginAttemptRepository for
// testing. Without overrides it behaves as an in-memory ledger, which the
// backoff tests rely on.
type MockLoginAttemptRepository struct {
	CreateFunc         func(ctx context.Context, attempt *domain.LoginAttempt) error
	RecentResolvedFunc func(ctx context.Context, userID string, limit int) ([]*domain.LoginAttempt, error)
	ResolveFunc        func(ctx context.Context, id string, outcome domain.AttemptOutcome) error

	mu       sync.Mutex
	attempts []*domain.LoginAttempt
}

// NewMockLoginAttemptRepository creates a new MockLoginAttemptRepository
func NewMockLoginAttemptRepository() *MockLoginAttemptRepository {
	return &MockLoginAttemptRepository{}
}

// Create appends an attempt to the ledger
func (m *MockLoginAttemptRepository) Create(ctx context.Context, attempt *domain.LoginAttempt) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, attempt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *attempt
	m.attempts = append(m.attempts, &copied)
	return nil
}

// RecentResolved returns the newest resolved attempts first
func (m *MockLoginAttemptRepository) RecentResolved(ctx context.Context, userID string, limit int) ([]*domain.LoginAttempt, error) {
	if m.RecentResolvedFunc != nil {
		return m.RecentResolvedFunc(ctx, userID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*domain.LoginAttempt
	for _, a := range m.attempts {
		if a.UserID == userID && a.Outcome != domain.AttemptPending {
			copied := *a
			rows = append(rows, &copied)
		}
	}
	// Newest first; ids are UUIDv7 so they tiebreak equal timestamps.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Resolve sets the outcome of an attempt
func (m *MockLoginAttemptRepository) Resolve(ctx context.Context, id string, outcome domain.AttemptOutcome) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, id, outcome)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ID == id {
			a.Outcome = outcome
		}
	}
	return nil
}

// All returns a snapshot of every stored attempt, oldest first
func (m *MockLoginAttemptRepository) All() []*domain.LoginAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]*domain.LoginAttempt, 0, len(m.attempts))
	for _, a := range m.attempts {
		copied := *a
		rows = append(rows, &copied)
	}
	return rows
}
