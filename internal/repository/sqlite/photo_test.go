package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

func TestPhotoCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "photographer")
	created := createTestPhoto(t, db, user.ID, "first")

	found, err := db.Photos().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "first" {
		t.Errorf("Title = %q, want %q", found.Title, "first")
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
	if found.UploadDate.IsZero() {
		t.Error("UploadDate not set")
	}
}

func TestPhotoGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Photos().GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestPhotoListFeatured(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "stream_user")
	createTestPhoto(t, db, user.ID, "featured_one")

	hidden := &model.Photo{
		Title:             "hidden",
		Filename:          "hidden.jpg",
		ThumbnailFilename: "thumb_hidden.jpg",
		OriginalName:      "hidden.jpg",
		FileSize:          512,
		MimeType:          "image/jpeg",
		UserID:            user.ID,
		FeaturedStream:    false,
	}
	if err := db.Photos().Create(ctx, hidden); err != nil {
		t.Fatalf("Create() hidden photo: %v", err)
	}

	all, err := db.Photos().List(ctx, repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() returned %d photos, want 2", len(all))
	}

	featured, err := db.Photos().ListFeatured(ctx, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListFeatured() error = %v", err)
	}
	if len(featured) != 1 || featured[0].Title != "featured_one" {
		t.Errorf("ListFeatured() = %d photos, want just featured_one", len(featured))
	}
}

func TestPhotoListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice_photos")
	bob := createTestUser(t, db, "bob_photos")
	createTestPhoto(t, db, alice.ID, "alice_shot")
	createTestPhoto(t, db, bob.ID, "bob_shot")

	photos, err := db.Photos().ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(photos) != 1 || photos[0].Title != "alice_shot" {
		t.Errorf("ListByUser() = %d photos, want just alice_shot", len(photos))
	}
}

func TestPhotoUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "editor")
	photo := createTestPhoto(t, db, user.ID, "draft")

	photo.Title = "final"
	photo.Description = "edited"
	if err := db.Photos().Update(ctx, photo); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Photos().GetByID(ctx, photo.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "final" || found.Description != "edited" {
		t.Errorf("after update Title=%q Description=%q", found.Title, found.Description)
	}
}

func TestPhotoDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Photos().Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
