// Package auth issues and verifies the signed session tokens that identify a
// request's principal. Tokens are HS256 JWTs carrying the user ID as subject
// and the email as a claim; the core trusts the email as the record-owner key.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// TokenManager signs and verifies session tokens with a shared HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager. ttl bounds the lifetime of
// every token it issues.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue returns a signed token for the given principal.
func (m *TokenManager) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenManager.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the embedded principal.
// Any parse, signature, or expiry failure maps to domain.ErrInvalidCredentials
// so handlers can respond 401 without inspecting jwt internals.
func (m *TokenManager) Verify(tokenString string) (domain.Principal, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, fmt.Errorf("auth.TokenManager.Verify: %w", domain.ErrInvalidCredentials)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("auth.TokenManager.Verify: subject: %w", domain.ErrInvalidCredentials)
	}

	return domain.Principal{UserID: userID, Email: claims.Email}, nil
}
