package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apparts-js/apparts-login-server/domain"
	"github.com/apparts-js/apparts-login-server/internal/mocks"
)

var sessT0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newSessionFixture() (*mocks.MockSessionRepository, domain.SessionService) {
	repo := mocks.NewMockSessionRepository()
	svc := NewSessionService(repo, mocks.NewMockTokenGenerator(), mocks.NewMockClock(sessT0), SessionConfig{
		TokenLength: 32,
	})
	return repo, svc
}

func TestSessionService_Create(t *testing.T) {
	repo, svc := newSessionFixture()
	var stored *domain.Session
	repo.CreateFunc = func(_ context.Context, session *domain.Session) error {
		stored = session
		return nil
	}

	details := domain.DeviceDetails{IP: "203.0.113.7", Browser: "firefox", OS: "linux"}
	token, err := svc.Create(context.Background(), "user-1", details)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if stored == nil {
		t.Fatal("expected session to be persisted")
	}
	if stored.Token != token {
		t.Errorf("stored token %q does not match returned token %q", stored.Token, token)
	}
	if stored.UserID != "user-1" {
		t.Errorf("UserID = %q, expected %q", stored.UserID, "user-1")
	}
	if !stored.Valid {
		t.Error("new session must be valid")
	}
	if stored.ID == "" {
		t.Error("expected a session id")
	}
	if !stored.CreatedAt.Equal(sessT0) {
		t.Errorf("CreatedAt = %v, expected %v", stored.CreatedAt, sessT0)
	}
	if stored.Details != details {
		t.Errorf("Details = %+v, expected %+v", stored.Details, details)
	}
}

func TestSessionService_Create_NoConcurrencyLimit(t *testing.T) {
	repo, svc := newSessionFixture()
	var count int
	repo.CreateFunc = func(context.Context, *domain.Session) error {
		count++
		return nil
	}

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		token, err := svc.Create(context.Background(), "user-1", domain.DeviceDetails{})
		if err != nil {
			t.Fatalf("session %d: expected success, got %v", i+1, err)
		}
		if seen[token] {
			t.Errorf("session %d: duplicate token %q", i+1, token)
		}
		seen[token] = true
	}
	if count != 5 {
		t.Errorf("expected 5 sessions persisted, got %d", count)
	}
}

func TestSessionService_Validate(t *testing.T) {
	tests := []struct {
		name          string
		setupRepo     func(*mocks.MockSessionRepository)
		expectedError error
	}{
		{
			name: "valid session",
			setupRepo: func(repo *mocks.MockSessionRepository) {
				repo.FindByTokenFunc = func(_ context.Context, userID, token string) (*domain.Session, error) {
					return &domain.Session{ID: "s1", UserID: userID, Token: token, Valid: true}, nil
				}
			},
			expectedError: nil,
		},
		{
			name: "invalidated session never authenticates",
			setupRepo: func(repo *mocks.MockSessionRepository) {
				repo.FindByTokenFunc = func(_ context.Context, userID, token string) (*domain.Session, error) {
					return &domain.Session{ID: "s1", UserID: userID, Token: token, Valid: false}, nil
				}
			},
			expectedError: domain.ErrUnauthorized,
		},
		{
			name:          "unknown token",
			setupRepo:     func(repo *mocks.MockSessionRepository) {},
			expectedError: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newSessionFixture()
			tt.setupRepo(repo)

			session, err := svc.Validate(context.Background(), "user-1", "some-token")
			if tt.expectedError == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if session == nil || session.UserID != "user-1" {
					t.Errorf("unexpected session %+v", session)
				}
				return
			}
			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestSessionService_Validate_StorageErrorPropagates(t *testing.T) {
	repo, svc := newSessionFixture()
	storageErr := errors.New("connection refused")
	repo.FindByTokenFunc = func(context.Context, string, string) (*domain.Session, error) {
		return nil, storageErr
	}

	_, err := svc.Validate(context.Background(), "user-1", "some-token")
	if !errors.Is(err, storageErr) {
		t.Errorf("expected storage error, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		t.Error("storage errors must not degrade to unauthorized")
	}
}

func TestSessionService_Invalidate(t *testing.T) {
	repo, svc := newSessionFixture()
	session := &domain.Session{ID: "s1", UserID: "user-1", Token: "tok", Valid: true}
	repo.FindByTokenFunc = func(context.Context, string, string) (*domain.Session, error) {
		return session, nil
	}
	var saved *domain.Session
	repo.SaveFunc = func(_ context.Context, s *domain.Session) error {
		saved = s
		return nil
	}

	if err := svc.Invalidate(context.Background(), "user-1", "tok"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if saved == nil || saved.Valid {
		t.Errorf("expected session saved with valid=false, got %+v", saved)
	}
}

func TestSessionService_Invalidate_UnknownToken(t *testing.T) {
	_, svc := newSessionFixture()

	err := svc.Invalidate(context.Background(), "user-1", "missing")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_InvalidateAll(t *testing.T) {
	repo, svc := newSessionFixture()
	sessions := []*domain.Session{
		{ID: "s1", UserID: "user-1", Token: "t1", Valid: true},
		{ID: "s2", UserID: "user-1", Token: "t2", Valid: false},
		{ID: "s3", UserID: "user-1", Token: "t3", Valid: true},
	}
	repo.ListByUserFunc = func(context.Context, string) ([]*domain.Session, error) {
		return sessions, nil
	}
	var savedCount int
	repo.SaveFunc = func(_ context.Context, s *domain.Session) error {
		savedCount++
		return nil
	}

	if err := svc.InvalidateAll(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	// Already-invalid sessions are not rewritten.
	if savedCount != 2 {
		t.Errorf("expected 2 saves, got %d", savedCount)
	}
	for _, s := range sessions {
		if s.Valid {
			t.Errorf("session %s still valid after InvalidateAll", s.ID)
		}
	}
}
