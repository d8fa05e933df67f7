package content

import (
	"context"
	"errors"
	"strings"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

// CommentPage is one page of a video's comment thread.
type CommentPage struct {
	Comments   []models.CommentView
	Page       int
	PageSize   int
	Total      int64
	TotalPages int64
}

// ListComments returns the newest-first comment thread of a published
// video. When the video is gone its comments are orphans: a sweep is
// scheduled and the caller sees NotFound, never the dangling rows. An
// unpublished video keeps its thread offline for everyone, the owner
// included.
func (s *Service) ListComments(ctx context.Context, actor policy.Actor, videoID string, page, pageSize int) (CommentPage, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.scheduleSweep(ctx, videoID)
			return CommentPage{}, fault.New(fault.NotFound, "video not found")
		}
		return CommentPage{}, fault.Store("find video", err)
	}
	if !video.Published {
		return CommentPage{}, fault.New(fault.Unavailable, "comments are unavailable for this video")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	comments, total, err := s.comments.ListForVideo(ctx, videoID, actor.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return CommentPage{}, fault.Store("list comments", err)
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return CommentPage{
		Comments:   comments,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// AddComment appends a comment to a published video.
func (s *Service) AddComment(ctx context.Context, actor policy.Actor, videoID, text string) (models.Comment, error) {
	if actor.Anonymous() {
		return models.Comment{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	content := strings.TrimSpace(text)
	if content == "" {
		return models.Comment{}, fault.New(fault.InvalidArgument, "comment content is required")
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.scheduleSweep(ctx, videoID)
			return models.Comment{}, fault.New(fault.NotFound, "video not found")
		}
		return models.Comment{}, fault.Store("find video", err)
	}
	if !video.Published {
		return models.Comment{}, fault.New(fault.NotFound, "video not found")
	}

	now := s.now().UTC()
	comment := models.Comment{
		ID:        s.newID(),
		VideoID:   videoID,
		OwnerID:   actor.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return models.Comment{}, fault.Store("create comment", err)
	}
	return comment, nil
}

// UpdateComment edits the content of the actor's own comment. If the
// referenced video has been deleted, the comment is itself an orphan: a
// sweep is scheduled and the edit is rejected as NotFound.
func (s *Service) UpdateComment(ctx context.Context, actor policy.Actor, commentID, text string) (models.Comment, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return models.Comment{}, fault.New(fault.InvalidArgument, "comment content is required")
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return models.Comment{}, notFoundOr(err, "comment not found")
	}
	if !policy.CanMutate(actor, comment) {
		return models.Comment{}, fault.New(fault.Forbidden, "only the author may edit this comment")
	}

	if _, err := s.videos.FindByID(ctx, comment.VideoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.scheduleSweep(ctx, comment.VideoID)
			return models.Comment{}, fault.New(fault.NotFound, "comment not found")
		}
		return models.Comment{}, fault.Store("find video", err)
	}

	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return models.Comment{}, notFoundOr(err, "comment not found")
	}
	comment.Content = content
	comment.UpdatedAt = s.now().UTC()
	return comment, nil
}

// DeleteComment removes the actor's own comment along with its likes.
func (s *Service) DeleteComment(ctx context.Context, actor policy.Actor, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return notFoundOr(err, "comment not found")
	}
	if !policy.CanMutate(actor, comment) {
		return fault.New(fault.Forbidden, "only the author may delete this comment")
	}
	return s.cascade.DeleteComment(ctx, s.comments, commentID)
}

// scheduleSweep hands a dangling video reference to the background sweeper.
func (s *Service) scheduleSweep(ctx context.Context, videoID string) {
	if s.healer == nil {
		return
	}
	if err := s.healer.Enqueue(ctx, videoID); err != nil {
		logging.FromContext(ctx).Warn("schedule orphan sweep failed", "videoId", videoID, "error", err)
	}
}
