package content

import (
	"context"
	"errors"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

// ToggleSubscription flips the actor's subscription to a channel and
// reports the resulting state. Subscribing to oneself is rejected.
func (s *Service) ToggleSubscription(ctx context.Context, actor policy.Actor, channelID string) (bool, error) {
	if actor.Anonymous() {
		return false, fault.New(fault.Unauthenticated, "authentication required")
	}
	if actor.ID == channelID {
		return false, fault.New(fault.InvalidArgument, "cannot subscribe to your own channel")
	}
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return false, notFoundOr(err, "channel not found")
	}

	sub := models.Subscription{
		ID:           s.newID(),
		SubscriberID: actor.ID,
		ChannelID:    channelID,
		CreatedAt:    s.now().UTC(),
	}
	inserted, err := s.subscriptions.Insert(ctx, sub)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return false, fault.New(fault.InvalidArgument, "cannot subscribe to your own channel")
		}
		return false, fault.Store("insert subscription", err)
	}
	if inserted {
		return true, nil
	}

	if _, err := s.subscriptions.Delete(ctx, actor.ID, channelID); err != nil {
		return false, fault.Store("remove subscription", err)
	}
	return false, nil
}

// ListSubscribers returns the profiles subscribed to a channel.
func (s *Service) ListSubscribers(ctx context.Context, channelID string) ([]models.User, error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return nil, notFoundOr(err, "channel not found")
	}
	subscribers, err := s.subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, fault.Store("list subscribers", err)
	}
	return subscribers, nil
}

// ListSubscribedChannels returns the channels the actor subscribes to.
func (s *Service) ListSubscribedChannels(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if actor.Anonymous() {
		return nil, fault.New(fault.Unauthenticated, "authentication required")
	}
	channels, err := s.subscriptions.ListSubscribedChannels(ctx, actor.ID)
	if err != nil {
		return nil, fault.Store("list subscribed channels", err)
	}
	return channels, nil
}
