package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndVerifyAccess(t *testing.T) {
	signer := NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	token, expires, err := signer.SignAccess("user-1")
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if !expires.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expires)
	}

	userID, err := signer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	signer := NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	refresh, _, err := signer.SignRefresh("user-1")
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}

	if _, err := signer.VerifyAccess(refresh); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerifyAccessExpired(t *testing.T) {
	signer := NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	issued := time.Now().UTC()
	signer.now = func() time.Time { return issued }

	token, _, err := signer.SignAccess("user-1")
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}

	signer.now = func() time.Time { return issued.Add(16 * time.Minute) }

	if _, err := signer.VerifyAccess(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	signer := NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	if _, err := signer.VerifyAccess("not-a-jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	signer := NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	first, _, err := signer.SignRefresh("user-1")
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}
	second, _, err := signer.SignRefresh("user-1")
	if err != nil {
		t.Fatalf("sign refresh: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct refresh tokens for the same user")
	}
}
