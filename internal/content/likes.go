package content

import (
	"context"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

// ToggleLike flips the actor's like on a subject and reports the resulting
// state. The unique (user, subject) pair in storage makes the flip
// race-safe: concurrent toggles land on exactly one insert.
func (s *Service) ToggleLike(ctx context.Context, actor policy.Actor, kind models.SubjectKind, subjectID string) (bool, error) {
	if actor.Anonymous() {
		return false, fault.New(fault.Unauthenticated, "authentication required")
	}
	if !kind.Valid() {
		return false, fault.New(fault.InvalidArgument, "unknown like subject")
	}
	if err := s.checkLikeSubject(ctx, actor, kind, subjectID); err != nil {
		return false, err
	}

	like := models.Like{
		ID:          s.newID(),
		UserID:      actor.ID,
		SubjectKind: kind,
		SubjectID:   subjectID,
		CreatedAt:   s.now().UTC(),
	}
	inserted, err := s.likes.Insert(ctx, like)
	if err != nil {
		return false, fault.Store("insert like", err)
	}
	if inserted {
		return true, nil
	}

	if _, err := s.likes.Delete(ctx, actor.ID, kind, subjectID); err != nil {
		return false, fault.Store("remove like", err)
	}
	return false, nil
}

// ListLikedVideos returns the published videos the actor has liked, most
// recently liked first.
func (s *Service) ListLikedVideos(ctx context.Context, actor policy.Actor) ([]models.Video, error) {
	if actor.Anonymous() {
		return nil, fault.New(fault.Unauthenticated, "authentication required")
	}
	videos, err := s.likes.ListLikedVideos(ctx, actor.ID)
	if err != nil {
		return nil, fault.Store("list liked videos", err)
	}
	return videos, nil
}

// checkLikeSubject verifies the liked subject exists and, for videos, that
// the actor may see it.
func (s *Service) checkLikeSubject(ctx context.Context, actor policy.Actor, kind models.SubjectKind, subjectID string) error {
	switch kind {
	case models.SubjectVideo:
		video, err := s.videos.FindByID(ctx, subjectID)
		if err != nil {
			return notFoundOr(err, "video not found")
		}
		if !policy.CanReadVideo(actor, video) {
			return fault.New(fault.NotFound, "video not found")
		}
	case models.SubjectComment:
		if _, err := s.comments.FindByID(ctx, subjectID); err != nil {
			return notFoundOr(err, "comment not found")
		}
	case models.SubjectTweet:
		if _, err := s.tweets.FindByID(ctx, subjectID); err != nil {
			return notFoundOr(err, "tweet not found")
		}
	}
	return nil
}
