// Package policy centralises the authorization rules applied across the
// content graph. Everything here is a pure decision over already-loaded
// entities; the package never touches storage.
package policy

import "github.com/videotube/backend/internal/models"

// Actor identifies the user issuing a request. The zero value is the
// anonymous actor used for public reads.
type Actor struct {
	ID string
}

// Anonymous reports whether the actor carries no authenticated identity.
func (a Actor) Anonymous() bool { return a.ID == "" }

// Owned is implemented by every entity whose mutation rights belong to a
// single user (the subscriber, for subscriptions).
type Owned interface {
	OwnedBy() string
}

// CanReadVideo reports whether the actor may see the video: published videos
// are public, unpublished ones are visible only to their owner.
func CanReadVideo(actor Actor, video models.Video) bool {
	if video.Published {
		return true
	}
	return !actor.Anonymous() && actor.ID == video.OwnerID
}

// CanMutate reports whether the actor owns the entity.
func CanMutate(actor Actor, entity Owned) bool {
	return !actor.Anonymous() && actor.ID == entity.OwnedBy()
}

// FilterPlaylistVideos returns the videos of a playlist the actor may see,
// preserving playlist order: owners see everything, other viewers only the
// published subset.
func FilterPlaylistVideos(actor Actor, playlist models.Playlist, videos []models.Video) []models.Video {
	if CanMutate(actor, playlist) {
		return videos
	}

	visible := make([]models.Video, 0, len(videos))
	for _, video := range videos {
		if video.Published {
			visible = append(visible, video)
		}
	}
	return visible
}
