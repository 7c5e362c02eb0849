package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/apparts-js/apparts-login-server/domain"
)

// LoginAttemptRepositoryImpl implements domain.LoginAttemptRepository using
// GORM. The ledger is append-only: rows are created, resolved once, and never
// deleted.
type LoginAttemptRepositoryImpl struct {
	db *gorm.DB
}

// DBLoginAttempt represents the database model for LoginAttempt
type DBLoginAttempt struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36"`
	Outcome   string    `gorm:"size:16"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBLoginAttempt) TableName() string {
	return "login_attempts"
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db *gorm.DB) domain.LoginAttemptRepository {
	return &LoginAttemptRepositoryImpl{db: db}
}

// Create implements domain.LoginAttemptRepository
func (r *LoginAttemptRepositoryImpl) Create(ctx context.Context, attempt *domain.LoginAttempt) error {
	return r.db.WithContext(ctx).Create(&DBLoginAttempt{
		ID:        attempt.ID,
		UserID:    attempt.UserID,
		Outcome:   string(attempt.Outcome),
		CreatedAt: attempt.CreatedAt,
	}).Error
}

// RecentResolved implements domain.LoginAttemptRepository. Rows come back
// newest first; ids are UUIDv7 so they break timestamp ties in insert order.
// Pending rows are filtered in the query so they never occupy window slots.
func (r *LoginAttemptRepositoryImpl) RecentResolved(ctx context.Context, userID string, limit int) ([]*domain.LoginAttempt, error) {
	var rows []DBLoginAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND outcome <> ?", userID, string(domain.AttemptPending)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*domain.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, &domain.LoginAttempt{
			ID:        row.ID,
			UserID:    row.UserID,
			Outcome:   domain.AttemptOutcome(row.Outcome),
			CreatedAt: row.CreatedAt,
		})
	}
	return attempts, nil
}

// Resolve implements domain.LoginAttemptRepository
func (r *LoginAttemptRepositoryImpl) Resolve(ctx context.Context, id string, outcome domain.AttemptOutcome) error {
	return r.db.WithContext(ctx).
		Model(&DBLoginAttempt{}).
		Where("id = ?", id).
		Update("outcome", string(outcome)).Error
}
