package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apparts-js/apparts-login-server/domain"
)

type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock
func NewSystemClock() domain.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time { return time.Now() }

// newID returns a UUIDv7, time-ordered so ledger rows sort by id within a
// timestamp.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
