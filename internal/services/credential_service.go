package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/apparts-js/apparts-login-server/domain"
)

// CredentialConfig holds the credential store settings
type CredentialConfig struct {
	ResetTokenLength int
	ResetTokenTTL    time.Duration
}

// CredentialServiceImpl implements domain.CredentialService
type CredentialServiceImpl struct {
	userRepo   domain.UserRepository
	sessionSvc domain.SessionService
	passwords  domain.PasswordService
	tokens     domain.TokenGenerator
	clock      domain.Clock
	config     CredentialConfig
	hooks      Hooks
}

// NewCredentialService creates a new credential service
func NewCredentialService(
	userRepo domain.UserRepository,
	sessionSvc domain.SessionService,
	passwords domain.PasswordService,
	tokens domain.TokenGenerator,
	clock domain.Clock,
	config CredentialConfig,
	hooks Hooks,
) domain.CredentialService {
	return &CredentialServiceImpl{
		userRepo:   userRepo,
		sessionSvc: sessionSvc,
		passwords:  passwords,
		tokens:     tokens,
		clock:      clock,
		config:     config,
		hooks:      hooks,
	}
}

// VerifyPassword implements domain.CredentialService. A user without a hash
// has never set a password and must go through the reset flow first.
func (s *CredentialServiceImpl) VerifyPassword(_ context.Context, user *domain.User, password string) error {
	if user.PasswordHash == "" {
		return domain.ErrPasswordNotSet
	}
	if !s.passwords.Verify(user.PasswordHash, password) {
		return domain.ErrUnauthorized
	}
	return nil
}

// SetPassword implements domain.CredentialService
func (s *CredentialServiceImpl) SetPassword(ctx context.Context, user *domain.User, password string) error {
	if s.hooks.PasswordPolicy != nil {
		if err := s.hooks.PasswordPolicy(password); err != nil {
			return &domain.PasswordPolicyError{Reason: err.Error()}
		}
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.userRepo.Update(ctx, user)
}

// IssueResetToken implements domain.CredentialService. Existing sessions stay
// valid; requesting a reset must not sign anyone out.
func (s *CredentialServiceImpl) IssueResetToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Generate(s.config.ResetTokenLength)
	if err != nil {
		return "", err
	}

	expiry := s.clock.Now().Add(s.config.ResetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken implements domain.CredentialService. The token is
// single-use: it is cleared on the first successful consumption, so a second
// call with the same candidate fails.
func (s *CredentialServiceImpl) ConsumeResetToken(ctx context.Context, user *domain.User, candidate string) (bool, error) {
	if user.ResetToken == "" || candidate == "" {
		return false, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(user.ResetToken), []byte(candidate)) != 1 {
		return false, domain.ErrUnauthorized
	}
	if user.ResetTokenExpiry == nil || s.clock.Now().After(*user.ResetTokenExpiry) {
		return false, domain.ErrUnauthorized
	}

	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Delete implements domain.CredentialService. The row is kept, flagged
// deleted; all sessions are invalidated and the reset token is cleared.
func (s *CredentialServiceImpl) Delete(ctx context.Context, user *domain.User) error {
	user.Deleted = true
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return s.sessionSvc.InvalidateAll(ctx, user.ID)
}
