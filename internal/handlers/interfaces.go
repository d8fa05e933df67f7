package handlers

import (
	"context"

	"github.com/videotube/backend/internal/content"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
	"github.com/videotube/backend/internal/repositories"
)

// SessionManager issues, rotates and revokes authentication tokens.
type SessionManager interface {
	Authenticate(ctx context.Context, usernameOrEmail, password string) (models.SessionTokens, error)
	Rotate(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, userID string) error
}

// AccountService captures the account operations required by user handlers.
type AccountService interface {
	Register(ctx context.Context, input content.RegisterInput) (models.User, error)
	GetProfile(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, actor policy.Actor, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, actor policy.Actor, localPath string) (models.User, error)
	UpdateCover(ctx context.Context, actor policy.Actor, localPath string) (models.User, error)
	WatchHistory(ctx context.Context, actor policy.Actor) ([]models.Video, error)
}

// VideoService captures the video operations required by video handlers.
type VideoService interface {
	PublishVideo(ctx context.Context, actor policy.Actor, input content.PublishVideoInput) (models.Video, error)
	GetVideo(ctx context.Context, actor policy.Actor, id string) (models.Video, error)
	UpdateVideo(ctx context.Context, actor policy.Actor, id string, input content.UpdateVideoInput) (models.Video, error)
	TogglePublish(ctx context.Context, actor policy.Actor, id string) (models.Video, error)
	DeleteVideo(ctx context.Context, actor policy.Actor, id string) error
	ListVideos(ctx context.Context, actor policy.Actor, input content.ListVideosInput) (content.VideoPage, error)
	ListChannelVideos(ctx context.Context, actor policy.Actor) ([]models.Video, error)
	ChannelStats(ctx context.Context, actor policy.Actor) (repositories.ChannelStats, error)
}

// CommentService captures the comment thread operations.
type CommentService interface {
	ListComments(ctx context.Context, actor policy.Actor, videoID string, page, pageSize int) (content.CommentPage, error)
	AddComment(ctx context.Context, actor policy.Actor, videoID, text string) (models.Comment, error)
	UpdateComment(ctx context.Context, actor policy.Actor, commentID, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, actor policy.Actor, commentID string) error
}

// LikeService captures like toggling and listing.
type LikeService interface {
	ToggleLike(ctx context.Context, actor policy.Actor, kind models.SubjectKind, subjectID string) (bool, error)
	ListLikedVideos(ctx context.Context, actor policy.Actor) ([]models.Video, error)
}

// SubscriptionService captures channel subscription operations.
type SubscriptionService interface {
	ToggleSubscription(ctx context.Context, actor policy.Actor, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.User, error)
	ListSubscribedChannels(ctx context.Context, actor policy.Actor) ([]models.User, error)
}

// TweetService captures tweet CRUD.
type TweetService interface {
	CreateTweet(ctx context.Context, actor policy.Actor, text string) (models.Tweet, error)
	ListUserTweets(ctx context.Context, userID string) ([]models.Tweet, error)
	UpdateTweet(ctx context.Context, actor policy.Actor, tweetID, text string) (models.Tweet, error)
	DeleteTweet(ctx context.Context, actor policy.Actor, tweetID string) error
}

// PlaylistService captures playlist curation.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, actor policy.Actor, name, description string) (models.Playlist, error)
	GetPlaylist(ctx context.Context, actor policy.Actor, id string) (content.PlaylistDetail, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)
	UpdatePlaylist(ctx context.Context, actor policy.Actor, id, name, description string) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, actor policy.Actor, id string) error
	AddVideoToPlaylist(ctx context.Context, actor policy.Actor, playlistID, videoID string) error
	RemoveVideoFromPlaylist(ctx context.Context, actor policy.Actor, playlistID, videoID string) error
}
