package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired indicates the token's signature is valid but its lifetime is over.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates the token could not be parsed or verified.
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenSigner issues and verifies the HS256-signed bearer tokens used for
// sessions. Access tokens are verified statelessly; refresh tokens are
// additionally checked against the digest stored on the user record by the
// identity service.
type TokenSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

// NewTokenSigner constructs a signer with independent secrets and lifetimes
// for the access and refresh halves of a session.
func NewTokenSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenSigner {
	return &TokenSigner{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SignAccess issues a short-lived access token for the user.
func (s *TokenSigner) SignAccess(userID string) (string, time.Time, error) {
	return s.sign(userID, s.accessSecret, s.accessTTL)
}

// SignRefresh issues a refresh token for the user. Every call embeds a fresh
// jti so two tokens for the same user never collide.
func (s *TokenSigner) SignRefresh(userID string) (string, time.Time, error) {
	return s.sign(userID, s.refreshSecret, s.refreshTTL)
}

func (s *TokenSigner) sign(userID string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// VerifyAccess checks an access token's signature and expiry and returns the
// user id it was issued to. No store lookup is performed.
func (s *TokenSigner) VerifyAccess(token string) (string, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh checks a refresh token's signature and expiry.
func (s *TokenSigner) VerifyRefresh(token string) (string, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenSigner) verify(token string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenMalformed
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
