// Package jwtmw provides JWT issuance, verification and the Gin
// authentication middleware.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when no override is given.
const DefaultTTL = 30 * time.Minute

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed structure, or past expiry. Callers get no
// finer distinction.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity assertions carried by a verified token.
type Claims struct {
	UserID uint
	Email  string
}

// TokenService issues and verifies signed session tokens. The signing
// secret and default expiry are injected at construction; nothing reads
// the environment at call time.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given symmetric secret
// and default token lifetime. A non-positive ttl falls back to DefaultTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a signed HS256 token for the given user with the
// service's default lifetime.
func (s *TokenService) GenerateToken(userID uint, email string) (string, error) {
	return s.GenerateTokenWithTTL(userID, email, s.ttl)
}

// GenerateTokenWithTTL creates a signed token with an explicit lifetime.
func (s *TokenService) GenerateTokenWithTTL(userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     email,
		"user_id": userID,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a token string. It returns
// ErrInvalidToken for any failure; the embedded identity must still be
// re-resolved against the store by the caller.
func (s *TokenService) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; rejects alg-substitution tokens.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	// JWT numbers are decoded as float64.
	id, ok := claims["user_id"].(float64)
	if !ok || email == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: uint(id), Email: email}, nil
}
