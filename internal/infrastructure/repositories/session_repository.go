package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apparts-js/apparts-login-server/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Sessions are keyed by user and token; invalidated sessions are rewritten in
// place, not deleted, so a revoked token stays visibly revoked until the key
// expires.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *SessionRepositoryImpl) key(userID, token string) string {
	return r.prefix + userID + ":" + token
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(session.UserID, session.Token), data, r.ttl).Err()
}

// FindByToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, userID, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(userID, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save implements domain.SessionRepository. The remaining TTL of the key is
// preserved; last writer wins, no optimistic-concurrency guard.
func (r *SessionRepositoryImpl) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(session.UserID, session.Token), data, redis.KeepTTL).Err()
}

// ListByUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	pattern := r.prefix + userID + ":*"
	var sessions []*domain.Session
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan sessions: %w", err)
		}
		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				// Expired between SCAN and GET
				continue
			}
			if err != nil {
				return nil, err
			}
			var session domain.Session
			if err := json.Unmarshal([]byte(data), &session); err != nil {
				return nil, fmt.Errorf("failed to unmarshal session: %w", err)
			}
			sessions = append(sessions, &session)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return sessions, nil
}
