// Package content implements the application operations over the content
// graph: videos, comments, likes, subscriptions, tweets and playlists.
// Every operation takes the acting user as a policy.Actor, enforces
// visibility and ownership before touching storage, and returns errors from
// the fault taxonomy.
package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/integrity"
	"github.com/videotube/backend/internal/media"
	"github.com/videotube/backend/internal/repositories"
)

// Healer accepts video ids whose referencing records need scrubbing. It is
// how read paths report dangling references without blocking the request.
type Healer interface {
	Enqueue(ctx context.Context, videoID string) error
}

// Service wires the repositories, the integrity coordinator and the media
// uploader behind the operation surface exposed to transport handlers.
type Service struct {
	users         repositories.UserRepository
	videos        repositories.VideoRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	subscriptions repositories.SubscriptionRepository
	tweets        repositories.TweetRepository
	playlists     repositories.PlaylistRepository

	cascade  *integrity.Coordinator
	healer   Healer
	uploader media.Uploader

	now   func() time.Time
	newID func() string
}

// NewService constructs the content service.
func NewService(
	users repositories.UserRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	subscriptions repositories.SubscriptionRepository,
	tweets repositories.TweetRepository,
	playlists repositories.PlaylistRepository,
	cascade *integrity.Coordinator,
	healer Healer,
	uploader media.Uploader,
) *Service {
	return &Service{
		users:         users,
		videos:        videos,
		comments:      comments,
		likes:         likes,
		subscriptions: subscriptions,
		tweets:        tweets,
		playlists:     playlists,
		cascade:       cascade,
		healer:        healer,
		uploader:      uploader,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// notFoundOr maps the repository's missing-record sentinel to a NotFound
// fault and wraps anything else as a store failure.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fault.New(fault.NotFound, message)
	}
	return fault.Store(message, err)
}
