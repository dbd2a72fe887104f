package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/media"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

const (
	MaxPhotoTitleLength       = 100
	MaxPhotoDescriptionLength = 1000
)

// ImageStore is the slice of the media pipeline the photo service needs.
// An interface so tests can substitute an in-memory fake instead of
// writing real files.
type ImageStore interface {
	Store(r io.Reader, declaredType string) (*media.StoredImage, error)
	Remove(filenames ...string)
}

// PhotoService handles uploads and the photo streams.
type PhotoService struct {
	photos   repository.PhotoRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	images   ImageStore
	logger   *slog.Logger
}

func NewPhotoService(
	photos repository.PhotoRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	images ImageStore,
	logger *slog.Logger,
) *PhotoService {
	return &PhotoService{
		photos:   photos,
		likes:    likes,
		comments: comments,
		images:   images,
		logger:   logger,
	}
}

// UploadInput carries everything the handler parsed out of the multipart
// form.
type UploadInput struct {
	Title          string
	Description    string
	Tags           string
	FeaturedStream bool
	OriginalName   string
	ContentType    string
	File           io.Reader
	UserID         string
}

// Upload validates and stores a new photo: files first, then the database
// row. If the row insert fails the files are removed so the upload
// directory never accumulates orphans.
func (s *PhotoService) Upload(ctx context.Context, in UploadInput) (*model.Photo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "photo title is required")
	}
	if len(title) > MaxPhotoTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxPhotoTitleLength))
	}
	if len(in.Description) > MaxPhotoDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or fewer", MaxPhotoDescriptionLength))
	}

	stored, err := s.images.Store(in.File, in.ContentType)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		Tags:              strings.TrimSpace(in.Tags),
		FeaturedStream:    in.FeaturedStream,
		Filename:          stored.Filename,
		ThumbnailFilename: stored.ThumbnailFilename,
		OriginalName:      in.OriginalName,
		FileSize:          stored.Size,
		MimeType:          stored.MimeType,
		UserID:            in.UserID,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		s.images.Remove(stored.Filename, stored.ThumbnailFilename)
		return nil, err
	}

	s.logger.Info("photo uploaded",
		slog.String("photoID", photo.ID),
		slog.String("userID", in.UserID),
		slog.Int64("size", photo.FileSize),
	)

	return photo, nil
}

// PhotoDetail is the single-photo page payload: the photo, its engagement
// counts, and whether the current viewer has liked it.
type PhotoDetail struct {
	model.Photo
	LikeCount    int  `json:"likeCount"`
	CommentCount int  `json:"commentCount"`
	LikedByMe    bool `json:"likedByMe"`
}

// Get returns one photo with its engagement state for the given viewer.
// viewerID is empty for logged-out visitors; their like identity is the
// anonymous sentinel plus IP, the same identity ToggleLike stores.
func (s *PhotoService) Get(ctx context.Context, photoID, viewerID, viewerIP string) (*PhotoDetail, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if viewerID == "" {
		viewerID = model.AnonymousUserID
	}

	likeCount, err := s.likes.Count(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("service/photo: counting likes: %w", err)
	}
	commentCount, err := s.comments.Count(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("service/photo: counting comments: %w", err)
	}
	liked, err := s.likes.Exists(ctx, photoID, viewerID, viewerIP)
	if err != nil {
		return nil, fmt.Errorf("service/photo: checking like: %w", err)
	}

	return &PhotoDetail{
		Photo:        *photo,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		LikedByMe:    liked,
	}, nil
}

// List returns the main photo stream, newest first.
func (s *PhotoService) List(ctx context.Context, opts repository.ListOptions) ([]model.Photo, error) {
	return s.photos.List(ctx, opts)
}

// ListFeatured returns the home page stream: only photos whose uploader
// opted into the featured stream.
func (s *PhotoService) ListFeatured(ctx context.Context, opts repository.ListOptions) ([]model.Photo, error) {
	return s.photos.ListFeatured(ctx, opts)
}

// ListByUser returns a user's photo roll.
func (s *PhotoService) ListByUser(ctx context.Context, userID string) ([]model.Photo, error) {
	return s.photos.ListByUser(ctx, userID)
}

// Update edits a photo's title and description. Only the uploader may
// edit.
func (s *PhotoService) Update(ctx context.Context, photoID, userID, title, description string) (*model.Photo, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, apperror.Forbidden("only the uploader can edit this photo")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "photo title is required")
	}
	if len(title) > MaxPhotoTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxPhotoTitleLength))
	}

	photo.Title = title
	photo.Description = strings.TrimSpace(description)
	if err := s.photos.Update(ctx, photo); err != nil {
		return nil, err
	}

	return photo, nil
}

// Delete removes a photo and its files. Only the uploader may delete. The
// row goes first; file removal afterwards is best-effort since the row is
// what the rest of the app navigates by.
func (s *PhotoService) Delete(ctx context.Context, photoID, userID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return apperror.Forbidden("only the uploader can delete this photo")
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return err
	}

	s.images.Remove(photo.Filename, photo.ThumbnailFilename)

	s.logger.Info("photo deleted",
		slog.String("photoID", photoID),
		slog.String("userID", userID),
	)

	return nil
}
