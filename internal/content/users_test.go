package content

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/videotube/backend/internal/fault"
	"github.com/videotube/backend/internal/policy"
)

func TestRegisterNormalizesAndHashes(t *testing.T) {
	f := newFixture(nil, nil)

	user, err := f.service.Register(context.Background(), RegisterInput{
		Username: "  Carol ",
		Email:    "Carol@Example.COM",
		FullName: " Carol Jones ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "carol" || user.Email != "carol@example.com" {
		t.Fatalf("expected lowercased identity, got %q / %q", user.Username, user.Email)
	}
	if user.FullName != "Carol Jones" {
		t.Fatalf("expected trimmed full name, got %q", user.FullName)
	}
	if user.Password != "" {
		t.Fatal("returned user must not carry the password hash")
	}

	stored, err := f.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load stored user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")) != nil {
		t.Fatal("stored password is not a bcrypt hash of the input")
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(nil, nil)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@b.com", Password: "secret123"}},
		{"bad email", RegisterInput{Username: "carol", Email: "not-an-email", Password: "secret123"}},
		{"short password", RegisterInput{Username: "carol", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		if _, err := f.service.Register(context.Background(), tc.input); !fault.IsKind(err, fault.InvalidArgument) {
			t.Errorf("%s: expected InvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	f := newFixture(seedUsers(), nil)

	_, err := f.service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "fresh@example.com",
		Password: "secret123",
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("expected Conflict for taken username, got %v", err)
	}
}

func TestRegisterUploadsOptionalImages(t *testing.T) {
	f := newFixture(nil, nil)

	user, err := f.service.Register(context.Background(), RegisterInput{
		Username:   "carol",
		Email:      "carol@example.com",
		Password:   "secret123",
		AvatarPath: "/tmp/avatar.png",
		CoverPath:  "/tmp/cover.png",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if f.uploader.uploads != 2 {
		t.Fatalf("expected 2 uploads, got %d", f.uploader.uploads)
	}
	if user.AvatarURL == "" || user.CoverURL == "" {
		t.Fatalf("expected uploaded image urls, got %+v", user)
	}
}

func TestGetProfileStripsSecrets(t *testing.T) {
	f := newFixture(seedUsers(), nil)
	if err := f.users.SetRefreshTokenHash(context.Background(), "alice", "digest"); err != nil {
		t.Fatalf("seed refresh digest: %v", err)
	}

	profile, err := f.service.GetProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Password != "" || profile.RefreshTokenHash != "" {
		t.Fatalf("expected secrets stripped, got %+v", profile)
	}

	if _, err := f.service.GetProfile(context.Background(), "ghost"); !fault.IsKind(err, fault.NotFound) {
		t.Fatalf("expected NotFound for unknown user, got %v", err)
	}
}

func TestUpdateProfileEditsOwnFields(t *testing.T) {
	f := newFixture(seedUsers(), nil)

	if _, err := f.service.UpdateProfile(context.Background(), policy.Actor{}, "Name", ""); !fault.IsKind(err, fault.Unauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	updated, err := f.service.UpdateProfile(context.Background(), policy.Actor{ID: "alice"}, "Alice A.", "NEW@Example.com")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Alice A." || updated.Email != "new@example.com" {
		t.Fatalf("unexpected profile after update: %+v", updated)
	}

	// Blank fields leave the stored values untouched.
	unchanged, err := f.service.UpdateProfile(context.Background(), policy.Actor{ID: "alice"}, "", "")
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if unchanged.FullName != "Alice A." || unchanged.Email != "new@example.com" {
		t.Fatalf("expected fields preserved, got %+v", unchanged)
	}

	if _, err := f.service.UpdateProfile(context.Background(), policy.Actor{ID: "alice"}, "", "broken-email"); !fault.IsKind(err, fault.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for bad email, got %v", err)
	}
}

func TestUpdateAvatarAndCover(t *testing.T) {
	f := newFixture(seedUsers(), nil)

	if _, err := f.service.UpdateAvatar(context.Background(), policy.Actor{ID: "alice"}, ""); !fault.IsKind(err, fault.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for missing file, got %v", err)
	}

	withAvatar, err := f.service.UpdateAvatar(context.Background(), policy.Actor{ID: "alice"}, "/tmp/avatar.png")
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if withAvatar.AvatarURL == "" {
		t.Fatal("expected avatar url set")
	}

	withCover, err := f.service.UpdateCover(context.Background(), policy.Actor{ID: "alice"}, "/tmp/cover.png")
	if err != nil {
		t.Fatalf("update cover: %v", err)
	}
	if withCover.CoverURL == "" {
		t.Fatal("expected cover url set")
	}
	if withCover.AvatarURL != withAvatar.AvatarURL {
		t.Fatal("cover update must not clobber the avatar")
	}
}
