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

const (
	MaxDisplayNameLength = 50
	MaxBioLength         = 500
)

// UserService handles public profiles and profile editing.
type UserService struct {
	users  repository.UserRepository
	photos repository.PhotoRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, photos repository.PhotoRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, photos: photos, logger: logger}
}

// Profile is a user's public page: their profile plus their photos.
type Profile struct {
	User   model.PublicProfile `json:"user"`
	Photos []model.Photo       `json:"photos"`
}

// GetProfile returns the public view of a user and their photo roll.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: listing photos for %s: %w", user.ID, err)
	}

	return &Profile{User: user.Public(), Photos: photos}, nil
}

// Count returns the total number of registered accounts.
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

// List returns public profiles for the member directory.
func (s *UserService) List(ctx context.Context, opts repository.ListOptions) ([]model.PublicProfile, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, nil
}

// UpdateProfile updates the caller's own display name, bio, and profile
// image. Users can only edit themselves; there is no admin override.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName, bio, profileImage string) (*model.User, error) {
	displayName = strings.TrimSpace(displayName)
	bio = strings.TrimSpace(bio)

	if displayName == "" {
		return nil, apperror.ValidationFailed("displayName", "display name is required")
	}
	if len(displayName) > MaxDisplayNameLength {
		return nil, apperror.ValidationFailed("displayName",
			fmt.Sprintf("display name must be %d characters or fewer", MaxDisplayNameLength))
	}
	if len(bio) > MaxBioLength {
		return nil, apperror.ValidationFailed("bio",
			fmt.Sprintf("bio must be %d characters or fewer", MaxBioLength))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	user.Bio = bio
	if profileImage != "" {
		user.ProfileImage = profileImage
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	return user, nil
}
