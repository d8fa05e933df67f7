package content

import (
	"context"
	"strings"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

// CreateTweet records a short text update for the actor.
func (s *Service) CreateTweet(ctx context.Context, actor policy.Actor, text string) (models.Tweet, error) {
	if actor.Anonymous() {
		return models.Tweet{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	content := strings.TrimSpace(text)
	if content == "" {
		return models.Tweet{}, fault.New(fault.InvalidArgument, "tweet content is required")
	}

	now := s.now().UTC()
	tweet := models.Tweet{
		ID:        s.newID(),
		OwnerID:   actor.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return models.Tweet{}, fault.Store("create tweet", err)
	}
	return tweet, nil
}

// ListUserTweets returns a user's tweets newest first.
func (s *Service) ListUserTweets(ctx context.Context, userID string) ([]models.Tweet, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	tweets, err := s.tweets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fault.Store("list tweets", err)
	}
	return tweets, nil
}

// UpdateTweet edits the content of the actor's own tweet.
func (s *Service) UpdateTweet(ctx context.Context, actor policy.Actor, tweetID, text string) (models.Tweet, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return models.Tweet{}, fault.New(fault.InvalidArgument, "tweet content is required")
	}

	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return models.Tweet{}, notFoundOr(err, "tweet not found")
	}
	if !policy.CanMutate(actor, tweet) {
		return models.Tweet{}, fault.New(fault.Forbidden, "only the author may edit this tweet")
	}

	if err := s.tweets.UpdateContent(ctx, tweetID, content); err != nil {
		return models.Tweet{}, notFoundOr(err, "tweet not found")
	}
	tweet.Content = content
	tweet.UpdatedAt = s.now().UTC()
	return tweet, nil
}

// DeleteTweet removes the actor's own tweet along with its likes.
func (s *Service) DeleteTweet(ctx context.Context, actor policy.Actor, tweetID string) error {
	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return notFoundOr(err, "tweet not found")
	}
	if !policy.CanMutate(actor, tweet) {
		return fault.New(fault.Forbidden, "only the author may delete this tweet")
	}
	if err := s.tweets.Delete(ctx, tweetID); err != nil {
		return notFoundOr(err, "tweet not found")
	}
	s.cascade.DeleteTweet(ctx, tweetID)
	return nil
}
