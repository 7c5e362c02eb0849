package services

import (
	"context"
	"errors"

	"github.com/apparts-js/apparts-login-server/domain"
)

// SessionConfig holds the session manager settings
type SessionConfig struct {
	TokenLength int
}

// SessionServiceImpl implements domain.SessionService
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	tokens      domain.TokenGenerator
	clock       domain.Clock
	config      SessionConfig
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo domain.SessionRepository,
	tokens domain.TokenGenerator,
	clock domain.Clock,
	config SessionConfig,
) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		tokens:      tokens,
		clock:       clock,
		config:      config,
	}
}

// Create implements domain.SessionService. There is no limit on concurrent
// sessions per user; every login gets its own token.
func (s *SessionServiceImpl) Create(ctx context.Context, userID string, details domain.DeviceDetails) (string, error) {
	token, err := s.tokens.Generate(s.config.TokenLength)
	if err != nil {
		return "", err
	}
	id, err := newID()
	if err != nil {
		return "", err
	}

	session := &domain.Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		Valid:     true,
		CreatedAt: s.clock.Now(),
		Details:   details,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Validate implements domain.SessionService. An invalidated session never
// authenticates.
func (s *SessionServiceImpl) Validate(ctx context.Context, userID, token string) (*domain.Session, error) {
	session, err := s.sessionRepo.FindByToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !session.Valid {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Invalidate implements domain.SessionService. Load-then-update, last writer
// wins.
func (s *SessionServiceImpl) Invalidate(ctx context.Context, userID, token string) error {
	session, err := s.sessionRepo.FindByToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	session.Valid = false
	return s.sessionRepo.Save(ctx, session)
}

// InvalidateAll implements domain.SessionService
func (s *SessionServiceImpl) InvalidateAll(ctx context.Context, userID string) error {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if !session.Valid {
			continue
		}
		session.Valid = false
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return err
		}
	}
	return nil
}
