package e2e

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apparts-js/apparts-login-server/domain"
	infraauth "github.com/apparts-js/apparts-login-server/internal/infrastructure/auth"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/database"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/repositories"
	"github.com/apparts-js/apparts-login-server/internal/mocks"
	"github.com/apparts-js/apparts-login-server/internal/services"
)

// Suite wires the full service stack over in-memory backends: SQLite for the
// relational store, miniredis for sessions. Only the clock and the mailer are
// test doubles, so flows run the production code paths end to end.
type Suite struct {
	Auth     domain.AuthService
	Users    domain.UserRepository
	Sessions domain.SessionService
	Clock    *mocks.MockClock
	Mailer   *mocks.MockNotificationService
}

func newSuite(t *testing.T, hooks services.Hooks) *Suite {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	mailer := &mocks.MockNotificationService{}
	passwords := infraauth.NewPasswordService(bcrypt.MinCost)
	tokens := infraauth.NewTokenGenerator()

	userRepo := repositories.NewUserRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)
	sessionRepo := repositories.NewSessionRepository(redisClient, 720*time.Hour)

	sessionSvc := services.NewSessionService(sessionRepo, tokens, clock, services.SessionConfig{
		TokenLength: 32,
	})
	credentialSvc := services.NewCredentialService(userRepo, sessionSvc, passwords, tokens, clock, services.CredentialConfig{
		ResetTokenLength: 32,
		ResetTokenTTL:    24 * time.Hour,
	}, hooks)
	backoffSvc := services.NewBackoffService(attemptRepo, credentialSvc, clock, services.BackoffConfig{
		Threshold: 5,
		Window:    10,
		Unit:      time.Minute,
	})
	tokenIssuer := infraauth.NewJWTService("e2e-secret", "login-server", time.Hour, clock, nil)
	authSvc := services.NewAuthService(userRepo, credentialSvc, sessionSvc, backoffSvc, tokenIssuer, mailer, clock, hooks)

	return &Suite{
		Auth:     authSvc,
		Users:    userRepo,
		Sessions: sessionSvc,
		Clock:    clock,
		Mailer:   mailer,
	}
}
