package content

import (
	"context"
	"testing"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/policy"
)

func TestToggleLikeAlternates(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())
	actor := policy.Actor{ID: "bob"}

	liked, err := f.service.ToggleLike(context.Background(), actor, models.SubjectVideo, "pub")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatal("first toggle should like")
	}

	liked, err = f.service.ToggleLike(context.Background(), actor, models.SubjectVideo, "pub")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatal("second toggle should unlike")
	}

	liked, err = f.service.ToggleLike(context.Background(), actor, models.SubjectVideo, "pub")
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if !liked {
		t.Fatal("third toggle should like again")
	}
}

func TestToggleLikeRequiresVisibleSubject(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	// A draft is invisible to strangers, so it cannot be liked by them.
	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{ID: "bob"}, models.SubjectVideo, "draft"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for hidden video, got %v", err)
	}

	// The owner can like their own draft.
	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{ID: "alice"}, models.SubjectVideo, "draft"); err != nil {
		t.Fatalf("owner like of draft: %v", err)
	}

	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{ID: "bob"}, models.SubjectVideo, "missing"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for absent video, got %v", err)
	}

	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{ID: "bob"}, models.SubjectComment, "missing"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for absent comment, got %v", err)
	}
}

func TestToggleLikeValidatesKindAndActor(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())

	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{}, models.SubjectVideo, "pub"); !fault.IsKind(err, fault.Unauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	if _, err := f.service.ToggleLike(context.Background(), policy.Actor{ID: "bob"}, models.SubjectKind("playlist"), "pub"); !fault.IsKind(err, fault.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for unknown kind, got %v", err)
	}
}

func TestToggleLikeAcrossSubjectKinds(t *testing.T) {
	f := newFixture(seedUsers(), seedVideos())
	actor := policy.Actor{ID: "bob"}

	tweet, err := f.service.CreateTweet(context.Background(), policy.Actor{ID: "alice"}, "hello world")
	if err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	comment, err := f.service.AddComment(context.Background(), actor, "pub", "great")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	for _, subject := range []struct {
		kind models.SubjectKind
		id   string
	}{
		{models.SubjectVideo, "pub"},
		{models.SubjectComment, comment.ID},
		{models.SubjectTweet, tweet.ID},
	} {
		liked, err := f.service.ToggleLike(context.Background(), actor, subject.kind, subject.id)
		if err != nil {
			t.Fatalf("toggle %s: %v", subject.kind, err)
		}
		if !liked {
			t.Fatalf("expected like on %s", subject.kind)
		}
	}

	if f.likes.count() != 3 {
		t.Fatalf("expected 3 likes, got %d", f.likes.count())
	}
}
