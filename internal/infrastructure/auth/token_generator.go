package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/apparts-js/apparts-login-server/domain"
)

type tokenGenerator struct{}

// NewTokenGenerator creates a crypto/rand backed opaque-token generator
func NewTokenGenerator() domain.TokenGenerator {
	return tokenGenerator{}
}

func (tokenGenerator) Generate(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
