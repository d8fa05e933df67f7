package content

import (
	"context"
	"strings"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 20
)

// PublishVideoInput carries the fields of a new upload. MediaPath and
// ThumbnailPath point at temp files the uploader consumes and removes.
type PublishVideoInput struct {
	Title         string
	Description   string
	MediaPath     string
	ThumbnailPath string
}

// UpdateVideoInput carries the mutable metadata of a video. Empty fields
// are left unchanged.
type UpdateVideoInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// ListVideosInput selects and orders a page of the public catalogue.
type ListVideosInput struct {
	Page      int
	PageSize  int
	Query     string
	OwnerID   string
	SortBy    string
	Ascending bool
}

// VideoPage is one page of a video listing plus its pagination envelope.
type VideoPage struct {
	Videos     []models.Video
	Page       int
	PageSize   int
	Total      int64
	TotalPages int64
}

// PublishVideo uploads the media and thumbnail, then records the video as
// published.
func (s *Service) PublishVideo(ctx context.Context, actor policy.Actor, input PublishVideoInput) (models.Video, error) {
	if actor.Anonymous() {
		return models.Video{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.Video{}, fault.New(fault.InvalidArgument, "title is required")
	}
	if input.MediaPath == "" || input.ThumbnailPath == "" {
		return models.Video{}, fault.New(fault.InvalidArgument, "video file and thumbnail are required")
	}

	mediaUpload, err := s.uploader.Upload(ctx, input.MediaPath)
	if err != nil {
		return models.Video{}, fault.Wrap(fault.Unavailable, "upload video file", err)
	}
	thumbUpload, err := s.uploader.Upload(ctx, input.ThumbnailPath)
	if err != nil {
		return models.Video{}, fault.Wrap(fault.Unavailable, "upload thumbnail", err)
	}

	now := s.now().UTC()
	video := models.Video{
		ID:           s.newID(),
		OwnerID:      actor.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		MediaURL:     mediaUpload.URL,
		ThumbnailURL: thumbUpload.URL,
		Duration:     mediaUpload.Duration,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return models.Video{}, fault.Store("create video", err)
	}
	return video, nil
}

// GetVideo returns a single video the actor may see. A successful fetch
// counts one view and, for authenticated actors, lands in watch history;
// both side effects are best-effort.
func (s *Service) GetVideo(ctx context.Context, actor policy.Actor, id string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, notFoundOr(err, "video not found")
	}
	if !policy.CanReadVideo(actor, video) {
		return models.Video{}, fault.New(fault.NotFound, "video not found")
	}

	logger := logging.FromContext(ctx)
	if err := s.videos.IncrementViews(ctx, id); err != nil {
		logger.Warn("increment views failed", "videoId", id, "error", err)
	} else {
		video.Views++
	}
	if !actor.Anonymous() {
		entry := models.WatchEntry{UserID: actor.ID, VideoID: id, WatchedAt: s.now().UTC()}
		if err := s.users.RecordWatch(ctx, entry); err != nil {
			logger.Warn("record watch failed", "videoId", id, "userId", actor.ID, "error", err)
		}
	}
	return video, nil
}

// UpdateVideo edits title, description or thumbnail. Owner only.
func (s *Service) UpdateVideo(ctx context.Context, actor policy.Actor, id string, input UpdateVideoInput) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, notFoundOr(err, "video not found")
	}
	if !policy.CanMutate(actor, video) {
		return models.Video{}, fault.New(fault.Forbidden, "only the owner may edit this video")
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		video.Title = title
	}
	if input.Description != "" {
		video.Description = input.Description
	}
	if input.ThumbnailPath != "" {
		upload, err := s.uploader.Upload(ctx, input.ThumbnailPath)
		if err != nil {
			return models.Video{}, fault.Wrap(fault.Unavailable, "upload thumbnail", err)
		}
		video.ThumbnailURL = upload.URL
	}
	video.UpdatedAt = s.now().UTC()

	if err := s.videos.Update(ctx, video); err != nil {
		return models.Video{}, notFoundOr(err, "video not found")
	}
	return video, nil
}

// TogglePublish flips the publish state of the video. Owner only.
func (s *Service) TogglePublish(ctx context.Context, actor policy.Actor, id string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, notFoundOr(err, "video not found")
	}
	if !policy.CanMutate(actor, video) {
		return models.Video{}, fault.New(fault.Forbidden, "only the owner may publish this video")
	}

	video.Published = !video.Published
	video.UpdatedAt = s.now().UTC()
	if err := s.videos.SetPublished(ctx, id, video.Published); err != nil {
		return models.Video{}, notFoundOr(err, "video not found")
	}
	return video, nil
}

// DeleteVideo removes the video and cascades retraction of its comments,
// likes and playlist memberships. Owner only.
func (s *Service) DeleteVideo(ctx context.Context, actor policy.Actor, id string) error {
	video, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "video not found")
	}
	if !policy.CanMutate(actor, video) {
		return fault.New(fault.Forbidden, "only the owner may delete this video")
	}
	return s.cascade.DeleteVideo(ctx, id)
}

// ListVideos returns one page of the catalogue. Page numbers below 1 clamp
// to 1 and page sizes clamp into [1, 20]. An unspecified sort key falls
// back to creation time, newest first. Unpublished videos appear only when
// the actor owns them.
func (s *Service) ListVideos(ctx context.Context, actor policy.Actor, input ListVideosInput) (VideoPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	sortBy := input.SortBy
	ascending := input.Ascending
	if sortBy == "" {
		sortBy = "createdAt"
		ascending = false
	}

	filter := repositories.VideoListFilter{
		ViewerID:   actor.ID,
		OwnerID:    input.OwnerID,
		Query:      strings.TrimSpace(input.Query),
		SortColumn: sortBy,
		Ascending:  ascending,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	videos, total, err := s.videos.List(ctx, filter)
	if err != nil {
		return VideoPage{}, fault.Store("list videos", err)
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return VideoPage{
		Videos:     videos,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ListChannelVideos returns every video of the authenticated owner,
// published or not, for the channel dashboard.
func (s *Service) ListChannelVideos(ctx context.Context, actor policy.Actor) ([]models.Video, error) {
	if actor.Anonymous() {
		return nil, fault.New(fault.Unauthenticated, "authentication required")
	}
	videos, err := s.videos.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fault.Store("list channel videos", err)
	}
	return videos, nil
}

// ChannelStats aggregates the dashboard numbers for the authenticated owner.
func (s *Service) ChannelStats(ctx context.Context, actor policy.Actor) (repositories.ChannelStats, error) {
	if actor.Anonymous() {
		return repositories.ChannelStats{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	stats, err := s.videos.Stats(ctx, actor.ID)
	if err != nil {
		return repositories.ChannelStats{}, fault.Store("load channel stats", err)
	}
	return stats, nil
}
