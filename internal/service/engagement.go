package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

const MaxCommentLength = 500

// EngagementService handles likes and comments. Both work for anonymous
// visitors: likes key on (anonymous sentinel, IP), comments fall back to
// the "Anonymous" display name.
type EngagementService struct {
	photos   repository.PhotoRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewEngagementService(
	photos repository.PhotoRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		photos:   photos,
		likes:    likes,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// LikeState is the response to a like toggle: the new state and the new
// total.
type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// ToggleLike flips the like for the given identity on a photo. userID is
// empty for anonymous visitors; the stored identity then becomes the
// anonymous sentinel plus the caller's IP.
func (s *EngagementService) ToggleLike(ctx context.Context, photoID, userID, userIP string) (*LikeState, error) {
	// Verify the photo exists so a like on a deleted photo 404s instead
	// of inserting an orphan (the FK would reject it anyway, less kindly).
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	if userID == "" {
		userID = model.AnonymousUserID
	}

	liked, err := s.likes.Toggle(ctx, photoID, userID, userIP)
	if err != nil {
		return nil, err
	}

	count, err := s.likes.Count(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("service/engagement: counting likes: %w", err)
	}

	return &LikeState{Liked: liked, LikeCount: count}, nil
}

// LikeStatus reports whether the given identity has liked the photo,
// plus the total like count.
func (s *EngagementService) LikeStatus(ctx context.Context, photoID, userID, userIP string) (*LikeState, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	if userID == "" {
		userID = model.AnonymousUserID
	}

	liked, err := s.likes.Exists(ctx, photoID, userID, userIP)
	if err != nil {
		return nil, fmt.Errorf("service/engagement: checking like for %s: %w", photoID, err)
	}
	count, err := s.likes.Count(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("service/engagement: counting likes for %s: %w", photoID, err)
	}

	return &LikeState{Liked: liked, LikeCount: count}, nil
}

// CommentCount returns the number of comments on a photo.
func (s *EngagementService) CommentCount(ctx context.Context, photoID string) (int, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return 0, err
	}
	return s.comments.Count(ctx, photoID)
}

// AddComment appends a comment to a photo. Logged-in users comment under
// their username; anonymous visitors under "Anonymous".
func (s *EngagementService) AddComment(ctx context.Context, photoID, userID, userIP, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("comment", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or fewer", MaxCommentLength))
	}

	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	username := "Anonymous"
	if userID != "" {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		username = user.Username
	}

	comment := &model.Comment{
		PhotoID:  photoID,
		Username: username,
		Comment:  text,
		UserIP:   userIP,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("photoID", photoID),
		slog.String("username", username),
	)

	return comment, nil
}

// Comments returns a photo's comments, oldest first.
func (s *EngagementService) Comments(ctx context.Context, photoID string) ([]model.Comment, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}
	return s.comments.ListByPhoto(ctx, photoID)
}
