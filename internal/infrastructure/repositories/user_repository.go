package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/apparts-js/apparts-login-server/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags). Email
// uniqueness among non-deleted users is enforced by a partial index created
// at migration time, not by a column tag.
type DBUser struct {
	ID               string `gorm:"primaryKey;size:36"`
	Email            string `gorm:"index;size:255"`
	PasswordHash     string `gorm:"column:password"`
	ResetToken       string
	ResetTokenExpiry *time.Time
	Deleted          bool      `gorm:"index"`
	CreatedAt        time.Time `gorm:"index"`
	Extra            string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail implements domain.UserRepository. Only non-deleted users are
// returned; the email is expected to be lower-cased by the caller.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ? AND deleted = ?", email, false).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) (*DBUser, error) {
	extra := ""
	if user.Extra != nil {
		data, err := json.Marshal(user.Extra)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal user extra payload: %w", err)
		}
		extra = string(data)
	}
	return &DBUser{
		ID:               user.ID,
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		ResetToken:       user.ResetToken,
		ResetTokenExpiry: user.ResetTokenExpiry,
		Deleted:          user.Deleted,
		CreatedAt:        user.CreatedAt,
		Extra:            extra,
	}, nil
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	var extra map[string]any
	if dbUser.Extra != "" {
		if err := json.Unmarshal([]byte(dbUser.Extra), &extra); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user extra payload: %w", err)
		}
	}
	return &domain.User{
		ID:               dbUser.ID,
		Email:            dbUser.Email,
		PasswordHash:     dbUser.PasswordHash,
		ResetToken:       dbUser.ResetToken,
		ResetTokenExpiry: dbUser.ResetTokenExpiry,
		Deleted:          dbUser.Deleted,
		CreatedAt:        dbUser.CreatedAt,
		Extra:            extra,
	}, nil
}
