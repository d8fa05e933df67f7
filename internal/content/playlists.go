package content

import (
	"context"
	"errors"
	"strings"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

// PlaylistDetail is a playlist together with the member videos the viewer
// is allowed to see, in playlist order.
type PlaylistDetail struct {
	Playlist models.Playlist
	Videos   []models.Video
}

// CreatePlaylist starts an empty playlist for the actor.
func (s *Service) CreatePlaylist(ctx context.Context, actor policy.Actor, name, description string) (models.Playlist, error) {
	if actor.Anonymous() {
		return models.Playlist{}, fault.New(fault.Unauthenticated, "authentication required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, fault.New(fault.InvalidArgument, "playlist name is required")
	}

	now := s.now().UTC()
	playlist := models.Playlist{
		ID:          s.newID(),
		OwnerID:     actor.ID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return models.Playlist{}, fault.Store("create playlist", err)
	}
	return playlist, nil
}

// GetPlaylist returns the playlist and its member videos. Non-owners see
// only the published members; the order is preserved either way.
func (s *Service) GetPlaylist(ctx context.Context, actor policy.Actor, id string) (PlaylistDetail, error) {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return PlaylistDetail{}, notFoundOr(err, "playlist not found")
	}

	videos, err := s.playlists.ListVideos(ctx, id)
	if err != nil {
		return PlaylistDetail{}, fault.Store("list playlist videos", err)
	}
	visible := policy.FilterPlaylistVideos(actor, playlist, videos)

	ids := make([]string, 0, len(visible))
	for _, video := range visible {
		ids = append(ids, video.ID)
	}
	playlist.VideoIDs = ids

	return PlaylistDetail{Playlist: playlist, Videos: visible}, nil
}

// ListUserPlaylists returns the playlists owned by a user.
func (s *Service) ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	playlists, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fault.Store("list playlists", err)
	}
	return playlists, nil
}

// UpdatePlaylist edits the name and description of the actor's playlist.
func (s *Service) UpdatePlaylist(ctx context.Context, actor policy.Actor, id, name, description string) (models.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, notFoundOr(err, "playlist not found")
	}
	if !policy.CanMutate(actor, playlist) {
		return models.Playlist{}, fault.New(fault.Forbidden, "only the owner may edit this playlist")
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		playlist.Name = trimmed
	}
	if description != "" {
		playlist.Description = description
	}
	if err := s.playlists.UpdateMeta(ctx, id, playlist.Name, playlist.Description); err != nil {
		return models.Playlist{}, notFoundOr(err, "playlist not found")
	}
	playlist.UpdatedAt = s.now().UTC()
	return playlist, nil
}

// DeletePlaylist removes the actor's playlist and its memberships. Member
// videos are untouched.
func (s *Service) DeletePlaylist(ctx context.Context, actor policy.Actor, id string) error {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "playlist not found")
	}
	if !policy.CanMutate(actor, playlist) {
		return fault.New(fault.Forbidden, "only the owner may delete this playlist")
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return notFoundOr(err, "playlist not found")
	}
	return nil
}

// AddVideoToPlaylist appends a video to the actor's playlist. The video
// must exist and be visible to the actor; adding a video that is already a
// member is a no-op.
func (s *Service) AddVideoToPlaylist(ctx context.Context, actor policy.Actor, playlistID, videoID string) error {
	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return notFoundOr(err, "playlist not found")
	}
	if !policy.CanMutate(actor, playlist) {
		return fault.New(fault.Forbidden, "only the owner may edit this playlist")
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.scheduleSweep(ctx, videoID)
			return fault.New(fault.NotFound, "video not found")
		}
		return fault.Store("find video", err)
	}
	if !policy.CanReadVideo(actor, video) {
		return fault.New(fault.NotFound, "video not found")
	}

	if _, err := s.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		return fault.Store("add video to playlist", err)
	}
	return nil
}

// RemoveVideoFromPlaylist pulls a video out of the actor's playlist.
// Removal is never visibility-gated: even a reference to a deleted or
// hidden video can always be taken out. Removing a non-member is NotFound.
func (s *Service) RemoveVideoFromPlaylist(ctx context.Context, actor policy.Actor, playlistID, videoID string) error {
	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return notFoundOr(err, "playlist not found")
	}
	if !policy.CanMutate(actor, playlist) {
		return fault.New(fault.Forbidden, "only the owner may edit this playlist")
	}

	removed, err := s.playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return fault.Store("remove video from playlist", err)
	}
	if !removed {
		return fault.New(fault.NotFound, "video is not in this playlist")
	}
	return nil
}
