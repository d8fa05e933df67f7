package content

import (
	"context"
	"testing"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/policy"
)

func newPlaylistFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	f := newFixture(seedUsers(), seedVideos())
	playlist, err := f.service.CreatePlaylist(context.Background(), policy.Actor{ID: "alice"}, "favorites", "")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	return f, playlist.ID
}

func TestAddVideoToPlaylistIdempotent(t *testing.T) {
	f, playlistID := newPlaylistFixture(t)
	owner := policy.Actor{ID: "alice"}

	if err := f.service.AddVideoToPlaylist(context.Background(), owner, playlistID, "pub"); err != nil {
		t.Fatalf("add video: %v", err)
	}
	// Adding the same member again is a silent no-op.
	if err := f.service.AddVideoToPlaylist(context.Background(), owner, playlistID, "pub"); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}

	detail, err := f.service.GetPlaylist(context.Background(), owner, playlistID)
	if err != nil {
		t.Fatalf("get playlist: %v", err)
	}
	if len(detail.Videos) != 1 {
		t.Fatalf("expected 1 member, got %d", len(detail.Videos))
	}
}

func TestAddVideoToPlaylistGated(t *testing.T) {
	f, playlistID := newPlaylistFixture(t)

	// Only the playlist owner may curate it.
	if err := f.service.AddVideoToPlaylist(context.Background(), policy.Actor{ID: "bob"}, playlistID, "pub"); !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	// The video must exist.
	if err := f.service.AddVideoToPlaylist(context.Background(), policy.Actor{ID: "alice"}, playlistID, "missing"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	// The owner can add their own draft since they can see it.
	if err := f.service.AddVideoToPlaylist(context.Background(), policy.Actor{ID: "alice"}, playlistID, "draft"); err != nil {
		t.Fatalf("add own draft: %v", err)
	}
}

func TestRemoveVideoFromPlaylist(t *testing.T) {
	f, playlistID := newPlaylistFixture(t)
	owner := policy.Actor{ID: "alice"}

	if err := f.service.AddVideoToPlaylist(context.Background(), owner, playlistID, "pub"); err != nil {
		t.Fatalf("add video: %v", err)
	}

	// Removal works even after the video itself is gone.
	if err := f.videos.Delete(context.Background(), "pub"); err != nil {
		t.Fatalf("delete video row: %v", err)
	}
	if err := f.service.RemoveVideoFromPlaylist(context.Background(), owner, playlistID, "pub"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Removing a non-member is NotFound.
	if err := f.service.RemoveVideoFromPlaylist(context.Background(), owner, playlistID, "pub"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for non-member, got %v", err)
	}
}

func TestGetPlaylistFiltersForStrangers(t *testing.T) {
	f, playlistID := newPlaylistFixture(t)
	owner := policy.Actor{ID: "alice"}

	for _, id := range []string{"pub", "draft"} {
		if err := f.service.AddVideoToPlaylist(context.Background(), owner, playlistID, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	mine, err := f.service.GetPlaylist(context.Background(), owner, playlistID)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if len(mine.Videos) != 2 {
		t.Fatalf("owner should see 2 members, got %d", len(mine.Videos))
	}

	theirs, err := f.service.GetPlaylist(context.Background(), policy.Actor{ID: "bob"}, playlistID)
	if err != nil {
		t.Fatalf("get as stranger: %v", err)
	}
	if len(theirs.Videos) != 1 || theirs.Videos[0].ID != "pub" {
		t.Fatalf("stranger should see only pub, got %+v", theirs.Videos)
	}
	if len(theirs.Playlist.VideoIDs) != 1 {
		t.Fatalf("id list should match filtered view, got %v", theirs.Playlist.VideoIDs)
	}
}

func TestDeletePlaylistLeavesVideos(t *testing.T) {
	f, playlistID := newPlaylistFixture(t)
	owner := policy.Actor{ID: "alice"}

	if err := f.service.AddVideoToPlaylist(context.Background(), owner, playlistID, "pub"); err != nil {
		t.Fatalf("add video: %v", err)
	}
	if err := f.service.DeletePlaylist(context.Background(), owner, playlistID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}

	if _, err := f.service.GetPlaylist(context.Background(), owner, playlistID); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	// Member videos survive playlist deletion.
	if _, err := f.videos.FindByID(context.Background(), "pub"); err != nil {
		t.Fatalf("video should survive: %v", err)
	}
}
