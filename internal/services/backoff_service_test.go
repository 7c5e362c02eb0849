package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/apparts-js/apparts-login-server/domain"
	"github.com/apparts-js/apparts-login-server/internal/mocks"
)

var backoffT0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type backoffFixture struct {
	repo        *mocks.MockLoginAttemptRepository
	creds       *mocks.MockCredentialService
	clock       *mocks.MockClock
	svc         domain.BackoffService
	verifyCalls int
}

func newBackoffFixture(correctPassword string) *backoffFixture {
	f := &backoffFixture{
		repo:  mocks.NewMockLoginAttemptRepository(),
		creds: mocks.NewMockCredentialService(),
		clock: mocks.NewMockClock(backoffT0),
	}
	f.creds.VerifyPasswordFunc = func(_ context.Context, _ *domain.User, password string) error {
		f.verifyCalls++
		if password == correctPassword {
			return nil
		}
		return domain.ErrUnauthorized
	}
	f.svc = NewBackoffService(f.repo, f.creds, f.clock, BackoffConfig{
		Threshold: 5,
		Window:    10,
		Unit:      time.Minute,
	})
	return f
}

func backoffTestUser() *domain.User {
	return &domain.User{
		ID:        "0191b8a0-0000-7abc-8def-000000000001",
		Email:     "test@example.com",
		CreatedAt: backoffT0.Add(-24 * time.Hour),
	}
}

func TestBackoffService_SevenConsecutiveFailures(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	var results []error
	for i := 0; i < 7; i++ {
		results = append(results, f.svc.CheckPassword(ctx, user, "wrong"))
	}

	for i := 0; i < 5; i++ {
		if !errors.Is(results[i], domain.ErrUnauthorized) {
			t.Errorf("attempt %d: expected ErrUnauthorized, got %v", i+1, results[i])
		}
	}
	for i := 5; i < 7; i++ {
		var rateErr *domain.RateLimitedError
		if !errors.As(results[i], &rateErr) {
			t.Fatalf("attempt %d: expected RateLimitedError, got %v", i+1, results[i])
		}
		// Five failures arm the base one-minute gate from the newest failure.
		expected := backoffT0.Add(time.Minute)
		if !rateErr.NextAllowed.Equal(expected) {
			t.Errorf("attempt %d: NextAllowed = %v, expected %v", i+1, rateErr.NextAllowed, expected)
		}
	}

	// Only the five attempts that actually ran touched the password check.
	if f.verifyCalls != 5 {
		t.Errorf("expected 5 password verifications, got %d", f.verifyCalls)
	}

	// Denied attempts stay pending forever.
	attempts := f.repo.All()
	if len(attempts) != 7 {
		t.Fatalf("expected 7 ledger rows, got %d", len(attempts))
	}
	var failures, pending int
	for _, a := range attempts {
		switch a.Outcome {
		case domain.AttemptFailure:
			failures++
		case domain.AttemptPending:
			pending++
		default:
			t.Errorf("unexpected outcome %q", a.Outcome)
		}
	}
	if failures != 5 || pending != 2 {
		t.Errorf("expected 5 failures and 2 pending, got %d failures and %d pending", failures, pending)
	}
}

func TestBackoffService_CorrectPasswordDuringGateIsDenied(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.CheckPassword(ctx, user, "wrong")
	}

	err := f.svc.CheckPassword(ctx, user, "correct horse")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	// The gate denied before the password was ever compared.
	if f.verifyCalls != 5 {
		t.Errorf("expected 5 password verifications, got %d", f.verifyCalls)
	}
}

func TestBackoffService_GateBoundary(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.CheckPassword(ctx, user, "wrong")
	}

	// Exactly at nextAllowed the attempt is still denied.
	f.clock.Set(backoffT0.Add(time.Minute))
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("at nextAllowed: expected rate limited, got %v", err)
	}

	// One tick later it runs.
	f.clock.Advance(time.Nanosecond)
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); err != nil {
		t.Fatalf("past nextAllowed: expected success, got %v", err)
	}
}

func TestBackoffService_DelayDoublesPerFailure(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.CheckPassword(ctx, user, "wrong")
	}

	// Sixth failure once the one-minute gate has passed.
	sixth := backoffT0.Add(time.Minute + time.Second)
	f.clock.Set(sixth)
	if err := f.svc.CheckPassword(ctx, user, "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Six failures arm a two-minute gate counted from the sixth failure.
	var rateErr *domain.RateLimitedError
	err := f.svc.CheckPassword(ctx, user, "wrong")
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if expected := sixth.Add(2 * time.Minute); !rateErr.NextAllowed.Equal(expected) {
		t.Errorf("NextAllowed = %v, expected %v", rateErr.NextAllowed, expected)
	}

	// Seventh failure arms a four-minute gate.
	seventh := sixth.Add(2*time.Minute + time.Second)
	f.clock.Set(seventh)
	if err := f.svc.CheckPassword(ctx, user, "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	err = f.svc.CheckPassword(ctx, user, "wrong")
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if expected := seventh.Add(4 * time.Minute); !rateErr.NextAllowed.Equal(expected) {
		t.Errorf("NextAllowed = %v, expected %v", rateErr.NextAllowed, expected)
	}
}

func TestBackoffService_SuccessResetsStreak(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.CheckPassword(ctx, user, "wrong")
	}

	f.clock.Set(backoffT0.Add(3 * time.Minute))
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	// Failures after a success start counting from zero: no gate.
	for i := 0; i < 4; i++ {
		err := f.svc.CheckPassword(ctx, user, "wrong")
		if errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("post-success attempt %d: unexpectedly rate limited", i+1)
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("post-success attempt %d: expected ErrUnauthorized, got %v", i+1, err)
		}
	}
}

func TestBackoffService_DeniedAttemptsDoNotExtendGate(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.CheckPassword(ctx, user, "wrong")
	}

	// Spamming denied attempts neither moves NextAllowed nor pushes the
	// failures out of the examined window.
	expected := backoffT0.Add(time.Minute)
	for i := 0; i < 20; i++ {
		var rateErr *domain.RateLimitedError
		err := f.svc.CheckPassword(ctx, user, "wrong")
		if !errors.As(err, &rateErr) {
			t.Fatalf("spam attempt %d: expected RateLimitedError, got %v", i+1, err)
		}
		if !rateErr.NextAllowed.Equal(expected) {
			t.Errorf("spam attempt %d: NextAllowed = %v, expected %v", i+1, rateErr.NextAllowed, expected)
		}
	}

	// After the gate passes, the user gets back in despite the spam.
	f.clock.Set(expected.Add(time.Second))
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); err != nil {
		t.Fatalf("expected success after waiting, got %v", err)
	}
}

func TestBackoffService_WindowBoundsFailureCount(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	// Twelve resolved failures, one per minute; only the newest ten count.
	for i := 12; i >= 1; i-- {
		f.repo.Create(ctx, &domain.LoginAttempt{
			ID:        fmt.Sprintf("preloaded-%02d", i),
			UserID:    user.ID,
			Outcome:   domain.AttemptFailure,
			CreatedAt: backoffT0.Add(-time.Duration(i) * time.Minute),
		})
	}

	var rateErr *domain.RateLimitedError
	err := f.svc.CheckPassword(ctx, user, "correct horse")
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	// failedCount clamps at 10: delay 2^5 minutes from the newest failure.
	expected := backoffT0.Add(-time.Minute).Add(32 * time.Minute)
	if !rateErr.NextAllowed.Equal(expected) {
		t.Errorf("NextAllowed = %v, expected %v", rateErr.NextAllowed, expected)
	}
}

func TestBackoffService_FirstAttemptSucceeds(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()

	if err := f.svc.CheckPassword(context.Background(), user, "correct horse"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	attempts := f.repo.All()
	if len(attempts) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(attempts))
	}
	if attempts[0].Outcome != domain.AttemptSuccess {
		t.Errorf("expected success outcome, got %q", attempts[0].Outcome)
	}
	if !attempts[0].CreatedAt.Equal(backoffT0) {
		t.Errorf("attempt timestamp = %v, expected %v", attempts[0].CreatedAt, backoffT0)
	}
}

func TestBackoffService_LedgerErrorsPropagate(t *testing.T) {
	f := newBackoffFixture("correct horse")
	user := backoffTestUser()
	ctx := context.Background()

	storageErr := errors.New("connection refused")

	f.repo.CreateFunc = func(context.Context, *domain.LoginAttempt) error {
		return storageErr
	}
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); !errors.Is(err, storageErr) {
		t.Errorf("expected storage error from Create, got %v", err)
	}

	f.repo.CreateFunc = nil
	f.repo.RecentResolvedFunc = func(context.Context, string, int) ([]*domain.LoginAttempt, error) {
		return nil, storageErr
	}
	if err := f.svc.CheckPassword(ctx, user, "correct horse"); !errors.Is(err, storageErr) {
		t.Errorf("expected storage error from RecentResolved, got %v", err)
	}
}
