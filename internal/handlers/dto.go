package handlers

import (
	"time"

	"github.com/videotube/backend/internal/content"
	"github.com/videotube/backend/internal/models"
)

// Response DTOs keep the wire shape stable regardless of how the domain
// structs evolve.

type profileDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CoverURL  string    `json:"coverUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func userProfile(u models.User) profileDTO {
	return profileDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
	}
}

func userProfiles(users []models.User) []profileDTO {
	out := make([]profileDTO, 0, len(users))
	for _, u := range users {
		u.Email = ""
		out = append(out, userProfile(u))
	}
	return out
}

type videoDTO struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"ownerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	MediaURL        string    `json:"mediaUrl"`
	ThumbnailURL    string    `json:"thumbnailUrl,omitempty"`
	DurationSeconds int64     `json:"durationSeconds"`
	Views           int64     `json:"views"`
	Published       bool      `json:"isPublished"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func videoResponse(v models.Video) videoDTO {
	return videoDTO{
		ID:              v.ID,
		OwnerID:         v.OwnerID,
		Title:           v.Title,
		Description:     v.Description,
		MediaURL:        v.MediaURL,
		ThumbnailURL:    v.ThumbnailURL,
		DurationSeconds: int64(v.Duration / time.Second),
		Views:           v.Views,
		Published:       v.Published,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func videoResponses(videos []models.Video) []videoDTO {
	out := make([]videoDTO, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoResponse(v))
	}
	return out
}

type pageDTO struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type commentDTO struct {
	ID              string    `json:"id"`
	VideoID         string    `json:"videoId"`
	OwnerID         string    `json:"ownerId"`
	Content         string    `json:"content"`
	AuthorUsername  string    `json:"authorUsername,omitempty"`
	AuthorFullName  string    `json:"authorFullName,omitempty"`
	AuthorAvatarURL string    `json:"authorAvatarUrl,omitempty"`
	LikesCount      int64     `json:"likesCount"`
	LikedByViewer   bool      `json:"likedByViewer"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func commentResponse(c models.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		VideoID:   c.VideoID,
		OwnerID:   c.OwnerID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func commentViewResponses(views []models.CommentView) []commentDTO {
	out := make([]commentDTO, 0, len(views))
	for _, v := range views {
		dto := commentResponse(v.Comment)
		dto.AuthorUsername = v.AuthorUsername
		dto.AuthorFullName = v.AuthorFullName
		dto.AuthorAvatarURL = v.AuthorAvatarURL
		dto.LikesCount = v.LikesCount
		dto.LikedByViewer = v.LikedByViewer
		out = append(out, dto)
	}
	return out
}

type tweetDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func tweetResponse(t models.Tweet) tweetDTO {
	return tweetDTO{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func tweetResponses(tweets []models.Tweet) []tweetDTO {
	out := make([]tweetDTO, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, tweetResponse(t))
	}
	return out
}

type playlistDTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	VideoIDs    []string  `json:"videoIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func playlistResponse(p models.Playlist) playlistDTO {
	ids := p.VideoIDs
	if ids == nil {
		ids = []string{}
	}
	return playlistDTO{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		VideoIDs:    ids,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func playlistResponses(playlists []models.Playlist) []playlistDTO {
	out := make([]playlistDTO, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, playlistResponse(p))
	}
	return out
}

type playlistDetailDTO struct {
	Playlist playlistDTO `json:"playlist"`
	Videos   []videoDTO  `json:"videos"`
}

func playlistDetailResponse(detail content.PlaylistDetail) playlistDetailDTO {
	return playlistDetailDTO{
		Playlist: playlistResponse(detail.Playlist),
		Videos:   videoResponses(detail.Videos),
	}
}
