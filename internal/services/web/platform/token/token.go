// Package token issues and verifies bearer tokens for the JSON API.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
)

const issuer = "cosmichub"

// Claims captures validated bearer token claims.
type Claims struct {
	UserID    string
	Tier      string
	ExpiresAt time.Time
}

// apiClaims is the internal claims type used for JWT parsing.
type apiClaims struct {
	jwt.RegisteredClaims
	Tier string `json:"tier"`
}

// Issuer signs and verifies API bearer tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns a token issuer with the given secret and lifetime.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	return NewIssuerWithClock(secret, ttl, time.Now)
}

// NewIssuerWithClock returns a token issuer with an explicit clock for tests.
func NewIssuerWithClock(secret []byte, ttl time.Duration, now func() time.Time) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: secret, ttl: ttl, now: now}, nil
}

// Issue signs a bearer token for the given user and tier.
func (i *Issuer) Issue(userID string, tier string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := i.now().UTC()
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Tier: strings.TrimSpace(tier),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns its claims.
func (i *Issuer) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, apperrors.E(apperrors.KindUnauthorized, "bearer token is required")
	}

	var parsed apiClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.E(apperrors.KindUnauthorized, "token subject is missing")
	}

	claims := Claims{
		UserID: parsed.Subject,
		Tier:   parsed.Tier,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(header string) (string, bool) {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.E(apperrors.KindUnauthorized, "token is expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return apperrors.E(apperrors.KindUnauthorized, "token is not valid yet")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.E(apperrors.KindUnauthorized, "token signature is invalid")
	default:
		return apperrors.E(apperrors.KindUnauthorized, "token is invalid")
	}
}
