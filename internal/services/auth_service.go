package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apparts-js/apparts-login-server/domain"
)

// AuthServiceImpl implements domain.AuthService. It orchestrates the
// credential store, session manager, backoff policy and token issuer;
// transport binding stays outside.
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	credentialSvc   domain.CredentialService
	sessionSvc      domain.SessionService
	backoffSvc      domain.BackoffService
	tokenIssuer     domain.TokenIssuer
	notificationSvc domain.NotificationService
	clock           domain.Clock
	hooks           Hooks
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	credentialSvc domain.CredentialService,
	sessionSvc domain.SessionService,
	backoffSvc domain.BackoffService,
	tokenIssuer domain.TokenIssuer,
	notificationSvc domain.NotificationService,
	clock domain.Clock,
	hooks Hooks,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		credentialSvc:   credentialSvc,
		sessionSvc:      sessionSvc,
		backoffSvc:      backoffSvc,
		tokenIssuer:     tokenIssuer,
		notificationSvc: notificationSvc,
		clock:           clock,
		hooks:           hooks,
	}
}

// Register implements domain.AuthService. The new user has no password yet;
// the issued reset token doubles as the initial email-verification token.
func (s *AuthServiceImpl) Register(ctx context.Context, email string, extra map[string]any) (*domain.User, error) {
	if s.hooks.ValidateExtra != nil {
		if err := s.hooks.ValidateExtra(extra); err != nil {
			return nil, err
		}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:        id,
		Email:     strings.ToLower(email),
		CreatedAt: s.clock.Now(),
		Extra:     extra,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.credentialSvc.IssueResetToken(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to issue initial reset token: %w", err)
	}

	if s.hooks.WelcomeMail != nil {
		title, body := s.hooks.WelcomeMail(user)
		if err := s.notificationSvc.SendEmail(user.Email, title, body); err != nil {
			return nil, fmt.Errorf("failed to send welcome mail: %w", err)
		}
	}
	return user, nil
}

// AuthenticatePassword implements domain.AuthService (password-mode)
func (s *AuthServiceImpl) AuthenticatePassword(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMalformedCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	if err := s.backoffSvc.CheckPassword(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthenticateToken implements domain.AuthService (token-mode). The session
// path is tried first; on an authorization failure the same value is tried as
// a reset token. Infrastructure errors propagate instead of degrading to
// Unauthorized.
func (s *AuthServiceImpl) AuthenticateToken(ctx context.Context, email, token string) (*domain.TokenAuth, error) {
	if email == "" || token == "" {
		return nil, domain.ErrMalformedCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	_, err = s.sessionSvc.Validate(ctx, user.ID, token)
	if err == nil {
		return &domain.TokenAuth{User: user}, nil
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		return nil, err
	}

	used, err := s.credentialSvc.ConsumeResetToken(ctx, user, token)
	if err != nil {
		return nil, err
	}
	return &domain.TokenAuth{User: user, ResetTokenUsed: used}, nil
}

// Login implements domain.AuthService: password-mode authentication followed
// by a fresh device session and API token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string, device domain.DeviceDetails) (*domain.AuthResult, error) {
	user, err := s.AuthenticatePassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.sessionSvc.Create(ctx, user.ID, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	apiToken, err := s.tokenIssuer.Mint(user, nil, nil)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		User:         user,
		SessionToken: sessionToken,
		APIToken:     apiToken,
	}, nil
}

// RequestPasswordReset implements domain.AuthService
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	if _, err := s.credentialSvc.IssueResetToken(ctx, user); err != nil {
		return err
	}

	if s.hooks.ResetPasswordMail != nil {
		title, body := s.hooks.ResetPasswordMail(user)
		if err := s.notificationSvc.SendEmail(user.Email, title, body); err != nil {
			return fmt.Errorf("failed to send reset mail: %w", err)
		}
	}
	return nil
}

// ChangePassword implements domain.AuthService. Any outstanding reset token
// is cleared alongside the password change; the returned API token lets the
// caller stay signed in.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, user *domain.User, newPassword string, signOutEverywhere bool) (string, error) {
	// Clear the token pair so SetPassword persists the cleared state in the
	// same update; restore on failure so the entity still mirrors storage.
	prevToken, prevExpiry := user.ResetToken, user.ResetTokenExpiry
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.credentialSvc.SetPassword(ctx, user, newPassword); err != nil {
		user.ResetToken = prevToken
		user.ResetTokenExpiry = prevExpiry
		return "", err
	}

	if signOutEverywhere {
		if err := s.sessionSvc.InvalidateAll(ctx, user.ID); err != nil {
			return "", err
		}
	}
	return s.tokenIssuer.Mint(user, nil, nil)
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, userID, sessionToken string) error {
	return s.sessionSvc.Invalidate(ctx, userID, sessionToken)
}

// DeleteAccount implements domain.AuthService
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, user *domain.User) error {
	return s.credentialSvc.Delete(ctx, user)
}

// RenewAPIToken implements domain.AuthService
func (s *AuthServiceImpl) RenewAPIToken(_ context.Context, user *domain.User) (string, error) {
	return s.tokenIssuer.Mint(user, nil, nil)
}
