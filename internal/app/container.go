package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/apparts-js/apparts-login-server/domain"
	"github.com/apparts-js/apparts-login-server/internal/config"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/auth"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/database"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/notifications"
	"github.com/apparts-js/apparts-login-server/internal/infrastructure/repositories"
	"github.com/apparts-js/apparts-login-server/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Hooks  services.Hooks

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	AttemptRepo domain.LoginAttemptRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenGen        domain.TokenGenerator
	TokenIssuer     domain.TokenIssuer
	NotificationSvc domain.NotificationService
	SessionSvc      domain.SessionService
	CredentialSvc   domain.CredentialService
	BackoffSvc      domain.BackoffService
	AuthSvc         domain.AuthService
	Clock           domain.Clock
}

// NewContainer creates and initializes all dependencies. Hooks carry the
// embedding application's extension points (password policy, mail templates,
// extra claims); the zero value disables them all.
func NewContainer(cfg *config.Config, hooks services.Hooks) (*Container, error) {
	container := &Container{Config: cfg, Hooks: hooks}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
	c.AttemptRepo = repositories.NewLoginAttemptRepository(c.DB)
}

func (c *Container) initServices() {
	c.Clock = services.NewSystemClock()
	c.PasswordSvc = auth.NewPasswordService(c.Config.PasswordHashCost)
	c.TokenGen = auth.NewTokenGenerator()
	c.TokenIssuer = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.APITokenTTL,
		c.Clock,
		c.Hooks.ExtraClaims,
	)
	c.NotificationSvc = notifications.NewLogMailer()

	c.SessionSvc = services.NewSessionService(c.SessionRepo, c.TokenGen, c.Clock, services.SessionConfig{
		TokenLength: c.Config.SessionTokenLength,
	})
	c.CredentialSvc = services.NewCredentialService(
		c.UserRepo,
		c.SessionSvc,
		c.PasswordSvc,
		c.TokenGen,
		c.Clock,
		services.CredentialConfig{
			ResetTokenLength: c.Config.ResetTokenLength,
			ResetTokenTTL:    c.Config.ResetTokenTTL,
		},
		c.Hooks,
	)
	c.BackoffSvc = services.NewBackoffService(c.AttemptRepo, c.CredentialSvc, c.Clock, services.BackoffConfig{
		Threshold: c.Config.BackoffThreshold,
		Window:    c.Config.BackoffWindow,
		Unit:      c.Config.BackoffUnit,
	})

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.CredentialSvc,
		c.SessionSvc,
		c.BackoffSvc,
		c.TokenIssuer,
		c.NotificationSvc,
		c.Clock,
		c.Hooks,
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
