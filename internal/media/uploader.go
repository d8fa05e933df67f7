// Package media handles persistence of uploaded files (video assets,
// thumbnails, avatars) to an object store.
package media

import (
	"context"
	"time"
)

// Upload describes a stored media object.
type Upload struct {
	URL string
	// Duration is populated only for media formats the store can probe;
	// zero otherwise.
	Duration time.Duration
}

// Uploader persists a local temporary file to durable storage. The local
// file is removed on both the success and failure paths; callers must not
// rely on it existing afterwards.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (Upload, error)
}
