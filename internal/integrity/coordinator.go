// Package integrity maintains referential consistency across the content
// graph. Deleting a video fans out retraction of every record referencing
// it; the fan-out is explicitly best-effort and eventually consistent, with
// read paths enqueueing orphan sweeps when they notice dangling references.
package integrity

import (
	"context"
	"log/slog"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
)

// CommentPurger removes comments in bulk by video reference.
type CommentPurger interface {
	DeleteByVideo(ctx context.Context, videoID string) (int64, error)
}

// LikePurger removes likes pointing at deleted subjects.
type LikePurger interface {
	DeleteBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) (int64, error)
	DeleteForVideoComments(ctx context.Context, videoID string) (int64, error)
}

// PlaylistPruner pulls a video id out of every playlist.
type PlaylistPruner interface {
	RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error)
}

// VideoDeleter removes the video record itself.
type VideoDeleter interface {
	Delete(ctx context.Context, id string) error
}

// CommentDeleter removes a single comment record.
type CommentDeleter interface {
	Delete(ctx context.Context, id string) error
}

// Coordinator orchestrates cascading retraction. It holds no state beyond
// its collaborators and is safe for concurrent use.
type Coordinator struct {
	comments  CommentPurger
	likes     LikePurger
	playlists PlaylistPruner
	videos    VideoDeleter
}

// NewCoordinator constructs the integrity coordinator.
func NewCoordinator(comments CommentPurger, likes LikePurger, playlists PlaylistPruner, videos VideoDeleter) *Coordinator {
	return &Coordinator{comments: comments, likes: likes, playlists: playlists, videos: videos}
}

// DeleteVideo retracts everything referencing the video, then deletes the
// video row. Dependent-record failures are logged and skipped, never fatal:
// a video whose dependents could not all be cleaned is still gone from
// primary listings, and later sweeps pick up the leftovers. Only failure to
// delete the video row itself fails the operation. Authorization is the
// caller's responsibility.
func (c *Coordinator) DeleteVideo(ctx context.Context, videoID string) error {
	ctx, span := logging.StartSpan(ctx, "cascade.delete_video")
	defer span.End()
	logger := logging.FromContext(ctx)

	// Comment likes go first while the comment rows still exist to be
	// subqueried against.
	if _, err := c.likes.DeleteForVideoComments(ctx, videoID); err != nil {
		logger.Warn("cascade: purge comment likes failed", "videoId", videoID, "error", err)
	}
	if n, err := c.comments.DeleteByVideo(ctx, videoID); err != nil {
		logger.Warn("cascade: purge comments failed", "videoId", videoID, "error", err)
	} else if n > 0 {
		logger.Info("cascade: purged comments", "videoId", videoID, "count", n)
	}
	if _, err := c.likes.DeleteBySubject(ctx, models.SubjectVideo, videoID); err != nil {
		logger.Warn("cascade: purge video likes failed", "videoId", videoID, "error", err)
	}
	if n, err := c.playlists.RemoveVideoEverywhere(ctx, videoID); err != nil {
		logger.Warn("cascade: playlist pull failed", "videoId", videoID, "error", err)
	} else if n > 0 {
		logger.Info("cascade: pulled video from playlists", "videoId", videoID, "count", n)
	}

	if err := c.videos.Delete(ctx, videoID); err != nil {
		return fault.Store("delete video", err)
	}
	return nil
}

// DeleteComment removes the comment and, best-effort, any likes pointing at it.
func (c *Coordinator) DeleteComment(ctx context.Context, deleter CommentDeleter, commentID string) error {
	if err := deleter.Delete(ctx, commentID); err != nil {
		return fault.Store("delete comment", err)
	}
	if _, err := c.likes.DeleteBySubject(ctx, models.SubjectComment, commentID); err != nil {
		logging.FromContext(ctx).Warn("purge comment likes failed", "commentId", commentID, "error", err)
	}
	return nil
}

// DeleteTweet removes a tweet's likes best-effort after the caller has
// deleted the tweet itself.
func (c *Coordinator) DeleteTweet(ctx context.Context, tweetID string) {
	if _, err := c.likes.DeleteBySubject(ctx, models.SubjectTweet, tweetID); err != nil {
		logging.FromContext(ctx).Warn("purge tweet likes failed", "tweetId", tweetID, "error", err)
	}
}

// HealVideoOrphans scrubs every record still referencing a video that no
// longer exists. Invoked when a read path trips over a dangling reference.
func (c *Coordinator) HealVideoOrphans(ctx context.Context, videoID string) {
	ctx, span := logging.StartSpan(ctx, "cascade.heal_orphans")
	defer span.End()
	logger := logging.FromContext(ctx).With(slog.String("videoId", videoID))

	if _, err := c.likes.DeleteForVideoComments(ctx, videoID); err != nil {
		logger.Warn("heal: purge comment likes failed", "error", err)
	}
	if n, err := c.comments.DeleteByVideo(ctx, videoID); err != nil {
		logger.Warn("heal: purge orphaned comments failed", "error", err)
	} else if n > 0 {
		logger.Info("heal: purged orphaned comments", "count", n)
	}
	if _, err := c.likes.DeleteBySubject(ctx, models.SubjectVideo, videoID); err != nil {
		logger.Warn("heal: purge orphaned likes failed", "error", err)
	}
	if _, err := c.playlists.RemoveVideoEverywhere(ctx, videoID); err != nil {
		logger.Warn("heal: playlist pull failed", "error", err)
	}
}
