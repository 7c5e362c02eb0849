package services

import (
	"context"
	"time"

	"github.com/apparts-js/apparts-login-server/domain"
)

// BackoffConfig holds the throttling parameters: how many consecutive
// failures arm the gate, how many recent ledger rows are examined, and the
// base delay that doubles per failure beyond the threshold.
type BackoffConfig struct {
	Threshold int
	Window    int
	Unit      time.Duration
}

// BackoffServiceImpl implements domain.BackoffService. Every password-mode
// check appends a pending row to the ledger first; the row resolves to
// success or failure only if the check actually runs. A denied check leaves
// its row pending forever, and pending rows never count toward the streak,
// so spamming denied requests cannot lengthen the lockout.
type BackoffServiceImpl struct {
	attemptRepo   domain.LoginAttemptRepository
	credentialSvc domain.CredentialService
	clock         domain.Clock
	config        BackoffConfig
}

// NewBackoffService creates a new backoff service
func NewBackoffService(
	attemptRepo domain.LoginAttemptRepository,
	credentialSvc domain.CredentialService,
	clock domain.Clock,
	config BackoffConfig,
) domain.BackoffService {
	return &BackoffServiceImpl{
		attemptRepo:   attemptRepo,
		credentialSvc: credentialSvc,
		clock:         clock,
		config:        config,
	}
}

// CheckPassword implements domain.BackoffService.
//
// The ledger read is deliberately not isolated from concurrent checks for the
// same user: the failure count is approximate under true concurrency, which
// is acceptable for throttling. Do not add cross-request locking here.
func (s *BackoffServiceImpl) CheckPassword(ctx context.Context, user *domain.User, password string) error {
	now := s.clock.Now()
	id, err := newID()
	if err != nil {
		return err
	}
	attempt := &domain.LoginAttempt{
		ID:        id,
		UserID:    user.ID,
		Outcome:   domain.AttemptPending,
		CreatedAt: now,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return err
	}

	// The just-inserted row is still pending, so it is excluded here along
	// with every denied attempt.
	resolved, err := s.attemptRepo.RecentResolved(ctx, user.ID, s.config.Window)
	if err != nil {
		return err
	}

	// The failure streak is everything newer than the latest success.
	streak := resolved
	for i, a := range resolved {
		if a.Outcome == domain.AttemptSuccess {
			streak = resolved[:i]
			break
		}
	}

	if len(streak) >= s.config.Threshold {
		wait := time.Duration(1<<uint(len(streak)-s.config.Threshold)) * s.config.Unit
		last := now
		if len(streak) > 0 {
			last = streak[0].CreatedAt
		}
		nextAllowed := last.Add(wait)
		if !now.After(nextAllowed) {
			// Denied: the pending row is left unresolved on purpose.
			return &domain.RateLimitedError{NextAllowed: nextAllowed}
		}
	}

	verifyErr := s.credentialSvc.VerifyPassword(ctx, user, password)
	outcome := domain.AttemptSuccess
	if verifyErr != nil {
		outcome = domain.AttemptFailure
	}
	if err := s.attemptRepo.Resolve(ctx, attempt.ID, outcome); err != nil {
		return err
	}
	return verifyErr
}
