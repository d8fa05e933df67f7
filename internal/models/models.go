package models

import "time"

// User represents an account within the VideoTube platform. Usernames and
// emails are stored lowercase so uniqueness is case-insensitive.
type User struct {
	ID               string
	Username         string
	Email            string
	FullName         string
	Password         string
	AvatarURL        string
	CoverURL         string
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Video is an uploaded video owned by a single user. A video with
// Published=false is visible only to its owner.
type Video struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	MediaURL     string
	ThumbnailURL string
	Duration     time.Duration
	Views        int64
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports the mutating owner of the video.
func (v Video) OwnedBy() string { return v.OwnerID }

// Comment belongs to exactly one video and one author. Comments whose video
// no longer exists are orphans and must be purged, never rendered.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Comment) OwnedBy() string { return c.OwnerID }

// CommentView is a comment decorated for rendering: author profile fields
// plus like totals relative to the requesting viewer.
type CommentView struct {
	Comment
	AuthorUsername  string
	AuthorFullName  string
	AuthorAvatarURL string
	LikesCount      int64
	LikedByViewer   bool
}

// SubjectKind discriminates what a like points at.
type SubjectKind string

const (
	SubjectVideo   SubjectKind = "video"
	SubjectComment SubjectKind = "comment"
	SubjectTweet   SubjectKind = "tweet"
)

// Valid reports whether the kind is one of the known subject kinds.
func (k SubjectKind) Valid() bool {
	switch k {
	case SubjectVideo, SubjectComment, SubjectTweet:
		return true
	}
	return false
}

// Like records that a user liked a single subject. At most one like may
// exist per (user, subject) pair.
type Like struct {
	ID          string
	UserID      string
	SubjectKind SubjectKind
	SubjectID   string
	CreatedAt   time.Time
}

// Subscription links a subscriber to a channel (another user). At most one
// subscription may exist per (subscriber, channel) pair.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

func (s Subscription) OwnedBy() string { return s.SubscriberID }

// Tweet is a short text update owned by a user.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Tweet) OwnedBy() string { return t.OwnerID }

// Playlist is an owner-curated, ordered set of video ids without duplicates.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	VideoIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Playlist) OwnedBy() string { return p.OwnerID }

// WatchEntry records that a user watched a video.
type WatchEntry struct {
	UserID    string
	VideoID   string
	WatchedAt time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
