package sqlite

import (
	"context"
	"testing"

	"github.com/lenb209/PhotoApp/internal/model"
)

// =========================================================================
// LIKE TESTS
// =========================================================================

func TestLikeToggle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "liker")
	photo := createTestPhoto(t, db, user.ID, "likeable")

	// First toggle: like appears.
	liked, err := db.Likes().Toggle(ctx, photo.ID, user.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Toggle() first error = %v", err)
	}
	if !liked {
		t.Error("Toggle() first = false, want true (liked)")
	}

	count, err := db.Likes().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	// Second toggle with the same identity: like disappears.
	liked, err = db.Likes().Toggle(ctx, photo.ID, user.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Toggle() second error = %v", err)
	}
	if liked {
		t.Error("Toggle() second = true, want false (unliked)")
	}

	count, err = db.Likes().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after unlike = %d, want 0", count)
	}
}

// Anonymous likes are keyed by (sentinel user, IP): different IPs are
// different identities, the same IP toggles its own like.
func TestLikeToggle_AnonymousByIP(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "anon_photo_owner")
	photo := createTestPhoto(t, db, user.ID, "anon_target")

	if _, err := db.Likes().Toggle(ctx, photo.ID, model.AnonymousUserID, "10.0.0.1"); err != nil {
		t.Fatalf("Toggle() ip1: %v", err)
	}
	if _, err := db.Likes().Toggle(ctx, photo.ID, model.AnonymousUserID, "10.0.0.2"); err != nil {
		t.Fatalf("Toggle() ip2: %v", err)
	}

	count, err := db.Likes().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2 (one per IP)", count)
	}

	exists, err := db.Likes().Exists(ctx, photo.ID, model.AnonymousUserID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for a liked identity")
	}

	exists, err = db.Likes().Exists(ctx, photo.ID, model.AnonymousUserID, "10.0.0.3")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for an identity that never liked")
	}
}

// =========================================================================
// COMMENT TESTS
// =========================================================================

func TestCommentCreateAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "commenter")
	photo := createTestPhoto(t, db, user.ID, "discussed")

	first := &model.Comment{
		PhotoID:  photo.ID,
		Username: "commenter",
		Comment:  "great light",
		UserIP:   "10.0.0.1",
	}
	if err := db.Comments().Create(ctx, first); err != nil {
		t.Fatalf("Create() first error = %v", err)
	}
	if first.ID == "" {
		t.Error("Create() did not set comment.ID")
	}

	second := &model.Comment{
		PhotoID:  photo.ID,
		Username: "Anonymous",
		Comment:  "agreed",
	}
	if err := db.Comments().Create(ctx, second); err != nil {
		t.Fatalf("Create() second error = %v", err)
	}

	comments, err := db.Comments().ListByPhoto(ctx, photo.ID)
	if err != nil {
		t.Fatalf("ListByPhoto() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListByPhoto() returned %d comments, want 2", len(comments))
	}
	// Oldest first.
	if comments[0].Comment != "great light" {
		t.Errorf("comments[0].Comment = %q, want %q", comments[0].Comment, "great light")
	}

	count, err := db.Comments().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

// Deleting the photo cascades its likes and comments away.
func TestEngagementCascadeOnPhotoDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "cascade_user")
	photo := createTestPhoto(t, db, user.ID, "cascade_photo")

	if _, err := db.Likes().Toggle(ctx, photo.ID, user.ID, "10.0.0.1"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	c := &model.Comment{PhotoID: photo.ID, Username: "cascade_user", Comment: "gone soon"}
	if err := db.Comments().Create(ctx, c); err != nil {
		t.Fatalf("Create() comment error = %v", err)
	}

	if err := db.Photos().Delete(ctx, photo.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	likeCount, err := db.Likes().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Likes Count() error = %v", err)
	}
	if likeCount != 0 {
		t.Errorf("like count after photo delete = %d, want 0", likeCount)
	}
	commentCount, err := db.Comments().Count(ctx, photo.ID)
	if err != nil {
		t.Fatalf("Comments Count() error = %v", err)
	}
	if commentCount != 0 {
		t.Errorf("comment count after photo delete = %d, want 0", commentCount)
	}
}
