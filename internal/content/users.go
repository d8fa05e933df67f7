package content

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

const minPasswordLength = 8

// RegisterInput carries the fields of a new account. AvatarPath and
// CoverPath point at temp files the uploader consumes and removes; both
// are optional.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	AvatarPath string
	CoverPath  string
}

// Register creates an account. Usernames and emails are unique
// case-insensitively; the password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return models.User{}, fault.New(fault.InvalidArgument, "username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, fault.New(fault.InvalidArgument, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return models.User{}, fault.New(fault.InvalidArgument, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fault.Wrap(fault.Unavailable, "hash password", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:        s.newID(),
		Username:  username,
		Email:     email,
		FullName:  strings.TrimSpace(input.FullName),
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.AvatarPath != "" {
		upload, err := s.uploader.Upload(ctx, input.AvatarPath)
		if err != nil {
			return models.User{}, fault.Wrap(fault.Unavailable, "upload avatar", err)
		}
		user.AvatarURL = upload.URL
	}
	if input.CoverPath != "" {
		upload, err := s.uploader.Upload(ctx, input.CoverPath)
		if err != nil {
			return models.User{}, fault.Wrap(fault.Unavailable, "upload cover image", err)
		}
		user.CoverURL = upload.URL
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, fault.New(fault.Conflict, "username or email already taken")
		}
		return models.User{}, fault.Store("create user", err)
	}

	user.Password = ""
	return user, nil
}

// GetProfile returns a user's public profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, notFoundOr(err, "user not found")
	}
	user.Password = ""
	user.RefreshTokenHash = ""
	return user, nil
}

// UpdateProfile edits the actor's own full name and email.
func (s *Service) UpdateProfile(ctx context.Context, actor policy.Actor, fullName, email string) (models.User, error) {
	if actor.Anonymous() {
		return models.User{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return models.User{}, notFoundOr(err, "user not found")
	}

	if trimmed := strings.TrimSpace(fullName); trimmed != "" {
		user.FullName = trimmed
	}
	if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
		if !strings.Contains(trimmed, "@") {
			return models.User{}, fault.New(fault.InvalidArgument, "a valid email is required")
		}
		user.Email = trimmed
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, fault.New(fault.Conflict, "email already taken")
		}
		return models.User{}, fault.Store("update profile", err)
	}
	user.Password = ""
	user.RefreshTokenHash = ""
	return user, nil
}

// UpdateAvatar replaces the actor's avatar image.
func (s *Service) UpdateAvatar(ctx context.Context, actor policy.Actor, localPath string) (models.User, error) {
	return s.updateImage(ctx, actor, localPath, func(user *models.User, url string) {
		user.AvatarURL = url
	})
}

// UpdateCover replaces the actor's channel cover image.
func (s *Service) UpdateCover(ctx context.Context, actor policy.Actor, localPath string) (models.User, error) {
	return s.updateImage(ctx, actor, localPath, func(user *models.User, url string) {
		user.CoverURL = url
	})
}

func (s *Service) updateImage(ctx context.Context, actor policy.Actor, localPath string, apply func(*models.User, string)) (models.User, error) {
	if actor.Anonymous() {
		return models.User{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	if localPath == "" {
		return models.User{}, fault.New(fault.InvalidArgument, "image file is required")
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return models.User{}, notFoundOr(err, "user not found")
	}

	upload, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		return models.User{}, fault.Wrap(fault.Unavailable, "upload image", err)
	}
	apply(&user, upload.URL)
	user.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return models.User{}, fault.Store("update profile", err)
	}
	user.Password = ""
	user.RefreshTokenHash = ""
	return user, nil
}

// WatchHistory returns the visible videos the actor has watched, most
// recently watched first.
func (s *Service) WatchHistory(ctx context.Context, actor policy.Actor) ([]models.Video, error) {
	if actor.Anonymous() {
		return nil, fault.New(fault.Unauthenticated, "authentication required")
	}
	videos, err := s.users.ListWatchHistory(ctx, actor.ID)
	if err != nil {
		return nil, fault.Store("list watch history", err)
	}
	return videos, nil
}
