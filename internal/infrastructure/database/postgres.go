package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apparts-js/apparts-login-server/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all required tables. Email
// uniqueness holds only among non-deleted users, which needs a partial index
// rather than a column constraint.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBLoginAttempt{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active ON users (email) WHERE NOT deleted").Error
	if err != nil {
		return fmt.Errorf("failed to create partial unique index on users.email: %w", err)
	}

	return nil
}
