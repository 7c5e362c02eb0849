package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apparts-js/apparts-login-server/domain"
)

// ExtraClaimsFunc supplies delegate claims merged into every minted token.
// Call-site extras win key collisions against these.
type ExtraClaimsFunc func(user *domain.User) map[string]any

// JWTServiceImpl implements domain.TokenIssuer
type JWTServiceImpl struct {
	secretKey   []byte
	issuer      string
	ttl         time.Duration
	clock       domain.Clock
	extraClaims ExtraClaimsFunc
}

// NewJWTService creates a new JWT token issuer. extraClaims may be nil.
func NewJWTService(secretKey string, issuer string, ttl time.Duration, clock domain.Clock, extraClaims ExtraClaimsFunc) domain.TokenIssuer {
	return &JWTServiceImpl{
		secretKey:   []byte(secretKey),
		issuer:      issuer,
		ttl:         ttl,
		clock:       clock,
		extraClaims: extraClaims,
	}
}

// Mint implements domain.TokenIssuer. It refuses to sign for a structurally
// invalid user: that means the entity was never fully loaded, which is a bug
// in the caller, not a user-facing condition.
func (j *JWTServiceImpl) Mint(user *domain.User, extraClaims map[string]any, opts *domain.MintOptions) (string, error) {
	if !user.Complete() {
		return "", domain.ErrInvalidUserState
	}

	claims := jwt.MapClaims{
		"id":     user.ID,
		"action": "login",
		"email":  user.Email,
	}
	if j.extraClaims != nil {
		for k, v := range j.extraClaims(user) {
			claims[k] = v
		}
	}
	for k, v := range extraClaims {
		claims[k] = v
	}

	ttl := j.ttl
	if opts != nil && opts.ExpiresIn > 0 {
		ttl = opts.ExpiresIn
	}
	now := j.clock.Now()
	claims["iss"] = j.issuer
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}
