package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
)

type engagementFixture struct {
	svc    *EngagementService
	photos *mockPhotoRepo
	users  *mockUserRepo
}

func newEngagementFixture(t *testing.T) (*engagementFixture, *model.Photo) {
	t.Helper()
	photos := newMockPhotoRepo()
	users := newMockUserRepo()
	f := &engagementFixture{
		svc:    NewEngagementService(photos, newMockLikeRepo(), newMockCommentRepo(), users, testLogger()),
		photos: photos,
		users:  users,
	}
	photo := &model.Photo{Title: "target", UserID: "owner"}
	if err := photos.Create(context.Background(), photo); err != nil {
		t.Fatalf("creating photo: %v", err)
	}
	return f, photo
}

func TestToggleLike(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	state, err := f.svc.ToggleLike(ctx, photo.ID, "u1", "10.0.0.1")
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !state.Liked || state.LikeCount != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", state)
	}

	state, err = f.svc.ToggleLike(ctx, photo.ID, "u1", "10.0.0.1")
	if err != nil {
		t.Fatalf("ToggleLike() second error = %v", err)
	}
	if state.Liked || state.LikeCount != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", state)
	}
}

func TestToggleLike_AnonymousUsesSentinel(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	// Same IP, empty userID twice: the same anonymous identity, so the
	// second call unlikes.
	if _, err := f.svc.ToggleLike(ctx, photo.ID, "", "10.0.0.9"); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	state, err := f.svc.ToggleLike(ctx, photo.ID, "", "10.0.0.9")
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if state.Liked {
		t.Error("same anonymous identity did not toggle off")
	}
}

func TestToggleLike_MissingPhoto(t *testing.T) {
	f, _ := newEngagementFixture(t)

	_, err := f.svc.ToggleLike(context.Background(), "ghost", "u1", "10.0.0.1")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleLike() error = %v, want ErrNotFound", err)
	}
}

func TestAddComment(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	user := &model.User{Username: "alice", Email: "alice@example.com"}
	if err := f.users.Create(ctx, user); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	comment, err := f.svc.AddComment(ctx, photo.ID, user.ID, "10.0.0.1", "nice shot")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.Username != "alice" {
		t.Errorf("Username = %q, want %q", comment.Username, "alice")
	}

	// Anonymous comments fall back to the default display name.
	anon, err := f.svc.AddComment(ctx, photo.ID, "", "10.0.0.2", "me too")
	if err != nil {
		t.Fatalf("AddComment(anonymous) error = %v", err)
	}
	if anon.Username != "Anonymous" {
		t.Errorf("anonymous Username = %q, want %q", anon.Username, "Anonymous")
	}

	comments, err := f.svc.Comments(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Comments() error = %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("Comments() returned %d, want 2", len(comments))
	}
}

func TestAddComment_Validation(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AddComment(ctx, photo.ID, "", "ip", "   "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddComment(blank) error = %v, want ErrValidation", err)
	}

	long := strings.Repeat("x", MaxCommentLength+1)
	if _, err := f.svc.AddComment(ctx, photo.ID, "", "ip", long); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddComment(too long) error = %v, want ErrValidation", err)
	}
}

func TestAddComment_MissingPhoto(t *testing.T) {
	f, _ := newEngagementFixture(t)

	_, err := f.svc.AddComment(context.Background(), "ghost", "", "ip", "hello")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AddComment() error = %v, want ErrNotFound", err)
	}
}

func TestLikeStatus(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ToggleLike(ctx, photo.ID, "u1", "10.0.0.1"); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	state, err := f.svc.LikeStatus(ctx, photo.ID, "u1", "10.0.0.1")
	if err != nil {
		t.Fatalf("LikeStatus() error = %v", err)
	}
	if !state.Liked || state.LikeCount != 1 {
		t.Errorf("LikeStatus for liker = %+v, want liked with count 1", state)
	}

	// A different identity sees the count but not a like of its own.
	state, err = f.svc.LikeStatus(ctx, photo.ID, "u2", "10.0.0.2")
	if err != nil {
		t.Fatalf("LikeStatus() error = %v", err)
	}
	if state.Liked || state.LikeCount != 1 {
		t.Errorf("LikeStatus for stranger = %+v, want not liked with count 1", state)
	}

	if _, err := f.svc.LikeStatus(ctx, "missing", "u1", "10.0.0.1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("LikeStatus on missing photo error = %v, want ErrNotFound", err)
	}
}

func TestCommentCount(t *testing.T) {
	f, photo := newEngagementFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.AddComment(ctx, photo.ID, "", "10.0.0.1", "nice one"); err != nil {
			t.Fatalf("AddComment() error = %v", err)
		}
	}

	count, err := f.svc.CommentCount(ctx, photo.ID)
	if err != nil {
		t.Fatalf("CommentCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CommentCount() = %d, want 3", count)
	}

	if _, err := f.svc.CommentCount(ctx, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("CommentCount on missing photo error = %v, want ErrNotFound", err)
	}
}
