package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// UserStore captures the persistence operations the identity service needs.
// Only this service may write the refresh-token field.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, usernameOrEmail string) (models.User, error)
	SetRefreshTokenHash(ctx context.Context, userID, hash string) error
	SwapRefreshTokenHash(ctx context.Context, userID, current, next string) (bool, error)
	ClearRefreshTokenHash(ctx context.Context, userID string) error
}

// Identity authenticates users and manages the rotating access/refresh token
// pair. Each user has at most one live refresh token: logging in or rotating
// overwrites the stored digest, revoking whatever was issued before.
type Identity struct {
	users  UserStore
	signer *TokenSigner
}

// NewIdentity constructs the identity service.
func NewIdentity(users UserStore, signer *TokenSigner) *Identity {
	if users == nil || signer == nil {
		panic("auth: identity requires a user store and a token signer")
	}
	return &Identity{users: users, signer: signer}
}

// Authenticate verifies credentials and opens a fresh session, invalidating
// any previously issued refresh token for the user.
func (i *Identity) Authenticate(ctx context.Context, usernameOrEmail, password string) (models.SessionTokens, error) {
	if usernameOrEmail == "" || password == "" {
		return models.SessionTokens{}, fault.New(fault.InvalidArgument, "username or email and password are required")
	}

	user, err := i.users.FindByLogin(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, fault.New(fault.NotFound, "user does not exist")
		}
		return models.SessionTokens{}, fault.Store("look up user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.SessionTokens{}, fault.New(fault.Unauthenticated, "invalid credentials")
	}

	return i.openSession(ctx, user.ID)
}

// Rotate exchanges a refresh token for a new pair. The stored digest is
// swapped with a conditional update, so presenting a stale token, or losing
// a race against a concurrent rotation, fails with Revoked.
func (i *Identity) Rotate(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	userID, err := i.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return models.SessionTokens{}, classifyTokenErr(err, "refresh token")
	}

	newRefresh, refreshExpires, err := i.signer.SignRefresh(userID)
	if err != nil {
		return models.SessionTokens{}, fault.Wrap(fault.Unavailable, "issue refresh token", err)
	}

	swapped, err := i.users.SwapRefreshTokenHash(ctx, userID, hashToken(refreshToken), hashToken(newRefresh))
	if err != nil {
		return models.SessionTokens{}, fault.Store("rotate refresh token", err)
	}
	if !swapped {
		return models.SessionTokens{}, fault.New(fault.Revoked, "refresh token has been revoked")
	}

	access, accessExpires, err := i.signer.SignAccess(userID)
	if err != nil {
		return models.SessionTokens{}, fault.Wrap(fault.Unavailable, "issue access token", err)
	}

	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     newRefresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

// Revoke clears the stored refresh token, ending the user's session.
func (i *Identity) Revoke(ctx context.Context, userID string) error {
	if err := i.users.ClearRefreshTokenHash(ctx, userID); err != nil {
		return fault.Store("revoke session", err)
	}
	return nil
}

// VerifyAccessToken resolves a bearer access token to a user id. Pure
// signature and expiry check; the store is not consulted.
func (i *Identity) VerifyAccessToken(token string) (string, error) {
	userID, err := i.signer.VerifyAccess(token)
	if err != nil {
		return "", classifyTokenErr(err, "access token")
	}
	return userID, nil
}

// openSession issues a fresh token pair and persists the refresh digest,
// overwriting any prior session.
func (i *Identity) openSession(ctx context.Context, userID string) (models.SessionTokens, error) {
	access, accessExpires, err := i.signer.SignAccess(userID)
	if err != nil {
		return models.SessionTokens{}, fault.Wrap(fault.Unavailable, "issue access token", err)
	}

	refresh, refreshExpires, err := i.signer.SignRefresh(userID)
	if err != nil {
		return models.SessionTokens{}, fault.Wrap(fault.Unavailable, "issue refresh token", err)
	}

	if err := i.users.SetRefreshTokenHash(ctx, userID, hashToken(refresh)); err != nil {
		return models.SessionTokens{}, fault.Store("persist refresh token", err)
	}

	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

func classifyTokenErr(err error, what string) error {
	if errors.Is(err, ErrTokenExpired) {
		return fault.New(fault.Expired, what+" expired")
	}
	return fault.New(fault.Unauthenticated, "malformed "+what)
}

// hashToken derives the digest persisted on the user record. Only the digest
// is stored, never the token itself.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
