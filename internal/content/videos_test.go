package content

import (
	"context"
	"testing"
	"time"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

func seedUsers() []models.User {
	return []models.User{
		{ID: "alice", Username: "alice", Email: "alice@example.com"},
		{ID: "bob", Username: "bob", Email: "bob@example.com"},
	}
}

func seedVideos() []models.Video {
	created := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []models.Video{
		{ID: "pub", OwnerID: "alice", Title: "published", Published: true, CreatedAt: created},
		{ID: "draft", OwnerID: "alice", Title: "draft", Published: false, CreatedAt: created.Add(time.Hour)},
	}
}

func TestPublishVideoUploadsBothFiles(t *testing.T) {
	f := newFixture(seedUsers(), nil)

	video, err := f.service.PublishVideo(context.Background(), policy.Actor{ID: "alice"}, PublishVideoInput{
		Title:         "  my first upload ",
		Description:   "hello",
		MediaPath:     "/tmp/video.mp4",
		ThumbnailPath: "/tmp/thumb.png",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !video.Published {
		t.Fatal("new uploads start published")
	}
	if video.Title != "my first upload" {
		t.Fatalf("expected trimmed title, got %q", video.Title)
	}
	if f.uploader.uploads != 2 {
		t.Fatalf("expected 2 uploads, got %d", f.uploader.uploads)
	}
	if _, err := f.videos.FindByID(context.Background(), video.ID); err != nil {
		t.Fatalf("video not stored: %v", err)
	}
}

func TestPublishVideoRequiresTitleAndFiles(t *testing.T) {
	f := newFixture(seedUsers(), nil)
	actor := policy.Actor{ID: "alice"}

	_, err := f.service.PublishVideo(context.Background(), actor, PublishVideoInput{MediaPath: "a", ThumbnailPath: "b"})
	if !fault.IsKind(err, fault.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for missing title, got %v", err)
	}

	_, err = f.service.PublishVideo(context.Background(), actor, PublishVideoInput{Title: "x"})
	if !fault.IsKind(err, fault.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for missing files, got %v", err)
	}

	_, err = f.service.PublishVideo(context.Background(), policy.Actor{}, PublishVideoInput{Title: "x", MediaPath: "a", ThumbnailPath: "b"})
	if !fault.IsKind(err, fault.Unauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestGetVideoVisibility(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	if _, err := f.service.GetVideo(context.Background(), policy.Actor{}, "pub"); err != nil {
		t.Fatalf("anonymous read of published video: %v", err)
	}

	if _, err := f.service.GetVideo(context.Background(), policy.Actor{ID: "bob"}, "draft"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for stranger reading draft, got %v", err)
	}

	if _, err := f.service.GetVideo(context.Background(), policy.Actor{ID: "alice"}, "draft"); err != nil {
		t.Fatalf("owner read of draft: %v", err)
	}
}

func TestGetVideoCountsViewAndRecordsWatch(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	video, err := f.service.GetVideo(context.Background(), policy.Actor{ID: "bob"}, "pub")
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video.Views != 1 {
		t.Fatalf("expected view count 1, got %d", video.Views)
	}
	if _, ok := f.users.watch["bob"]["pub"]; !ok {
		t.Fatal("expected watch history entry for bob")
	}
}

func TestTogglePublishFlipsState(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())
	owner := policy.Actor{ID: "alice"}

	video, err := f.service.TogglePublish(context.Background(), owner, "pub")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if video.Published {
		t.Fatal("expected first toggle to unpublish")
	}

	video, err = f.service.TogglePublish(context.Background(), owner, "pub")
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !video.Published {
		t.Fatal("expected second toggle to republish")
	}

	if _, err := f.service.TogglePublish(context.Background(), policy.Actor{ID: "bob"}, "pub"); !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
}

func TestListVideosClampsPagination(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	page, err := f.service.ListVideos(context.Background(), policy.Actor{}, ListVideosInput{Page: -3, PageSize: 500})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page clamp to 1, got %d", page.Page)
	}
	if page.PageSize != maxPageSize {
		t.Fatalf("expected page size clamp to %d, got %d", maxPageSize, page.PageSize)
	}
	if f.videos.lastFilter.Offset != 0 {
		t.Fatalf("expected zero offset, got %d", f.videos.lastFilter.Offset)
	}

	page, err = f.service.ListVideos(context.Background(), policy.Actor{}, ListVideosInput{})
	if err != nil {
		t.Fatalf("list defaults: %v", err)
	}
	if page.PageSize != defaultPageSize {
		t.Fatalf("expected default page size %d, got %d", defaultPageSize, page.PageSize)
	}
}

func TestListVideosDefaultsToNewestFirst(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	if _, err := f.service.ListVideos(context.Background(), policy.Actor{}, ListVideosInput{}); err != nil {
		t.Fatalf("list without sort: %v", err)
	}
	if f.videos.lastFilter.SortColumn != "createdAt" {
		t.Fatalf("expected createdAt sort, got %q", f.videos.lastFilter.SortColumn)
	}
	if f.videos.lastFilter.Ascending {
		t.Fatalf("expected descending order for the default sort")
	}

	if _, err := f.service.ListVideos(context.Background(), policy.Actor{}, ListVideosInput{SortBy: "views", Ascending: true}); err != nil {
		t.Fatalf("list by views: %v", err)
	}
	if f.videos.lastFilter.SortColumn != "views" || !f.videos.lastFilter.Ascending {
		t.Fatalf("expected explicit sort to pass through, got %q asc=%v",
			f.videos.lastFilter.SortColumn, f.videos.lastFilter.Ascending)
	}
}

func TestListVideosHidesDraftsFromStrangers(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	page, err := f.service.ListVideos(context.Background(), policy.Actor{ID: "bob"}, ListVideosInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("stranger should see 1 video, got %d", page.Total)
	}

	page, err = f.service.ListVideos(context.Background(), policy.Actor{ID: "alice"}, ListVideosInput{})
	if err != nil {
		t.Fatalf("list as owner: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("owner should see 2 videos, got %d", page.Total)
	}
}

func TestUpdateVideoOwnerOnly(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	_, err := f.service.UpdateVideo(context.Background(), policy.Actor{ID: "bob"}, "pub", UpdateVideoInput{Title: "hijacked"})
	if !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	video, err := f.service.UpdateVideo(context.Background(), policy.Actor{ID: "alice"}, "pub", UpdateVideoInput{Title: "renamed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if video.Title != "renamed" {
		t.Fatalf("expected renamed title, got %q", video.Title)
	}
}
