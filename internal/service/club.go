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
	MaxClubNameLength        = 100
	MaxClubDescriptionLength = 1000
)

// ClubService handles clubs, membership, and the club photo feed.
//
// Every method follows the same shape: load the caller's membership
// status, ask the policy functions whether the action is allowed, then
// hand the mutation to the repository. The repository's transactions and
// constraints settle races; the policy layer settles permissions.
type ClubService struct {
	clubs  repository.ClubRepository
	photos repository.PhotoRepository
	logger *slog.Logger
}

func NewClubService(clubs repository.ClubRepository, photos repository.PhotoRepository, logger *slog.Logger) *ClubService {
	return &ClubService{clubs: clubs, photos: photos, logger: logger}
}

// Create validates and creates a club with the caller as owner.
func (s *ClubService) Create(ctx context.Context, creatorID, name, description, coverImage string, isPrivate bool) (*model.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "club name is required")
	}
	if len(name) > MaxClubNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("club name must be %d characters or fewer", MaxClubNameLength))
	}
	if len(description) > MaxClubDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or fewer", MaxClubDescriptionLength))
	}

	club := &model.Club{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
		CoverImage:  coverImage,
		IsPrivate:   isPrivate,
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, err
	}

	s.logger.Info("club created",
		slog.String("clubID", club.ID),
		slog.String("creatorID", creatorID),
		slog.Bool("private", isPrivate),
	)

	return club, nil
}

// ClubView is the club page payload: the club plus the viewer's own
// membership status, so the UI knows which actions to offer.
type ClubView struct {
	model.Club
	Membership model.MembershipStatus `json:"membership"`
}

// Get returns one club for the given viewer. Private clubs are visible
// only to members; everyone else gets a forbidden error whether they are
// logged in or not.
func (s *ClubService) Get(ctx context.Context, clubID, viewerID string) (*ClubView, error) {
	club, status, err := s.loadWithMembership(ctx, clubID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := canViewClub(club, status); err != nil {
		return nil, err
	}
	return &ClubView{Club: *club, Membership: status}, nil
}

// List returns the public club directory.
func (s *ClubService) List(ctx context.Context, opts repository.ListOptions) ([]model.Club, error) {
	return s.clubs.List(ctx, opts)
}

// ListByUser returns the clubs a user belongs to, with their role in
// each. Private clubs are included: membership is itself the access grant.
func (s *ClubService) ListByUser(ctx context.Context, userID string) ([]model.UserClub, error) {
	return s.clubs.ListByUser(ctx, userID)
}

// Update edits club settings. Owner or admin only.
func (s *ClubService) Update(ctx context.Context, clubID, userID, name, description, coverImage string, isPrivate bool) (*model.Club, error) {
	club, status, err := s.loadWithMembership(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	if err := canUpdateClub(status); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "club name is required")
	}
	if len(name) > MaxClubNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("club name must be %d characters or fewer", MaxClubNameLength))
	}

	club.Name = name
	club.Description = strings.TrimSpace(description)
	club.IsPrivate = isPrivate
	if coverImage != "" {
		club.CoverImage = coverImage
	}
	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, err
	}

	return club, nil
}

// Delete removes a club. Owner only; memberships and photo associations
// cascade away with it.
func (s *ClubService) Delete(ctx context.Context, clubID, userID string) error {
	_, status, err := s.loadWithMembership(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if err := canDeleteClub(status); err != nil {
		return err
	}

	if err := s.clubs.Delete(ctx, clubID); err != nil {
		return err
	}

	s.logger.Info("club deleted",
		slog.String("clubID", clubID),
		slog.String("userID", userID),
	)

	return nil
}

// Join adds the caller to a club as a regular member.
//
// The policy check rejects the common case of an existing membership, but
// the authoritative duplicate detection is the repository's UNIQUE
// constraint: two racing joins both pass the check here, and the
// constraint turns the loser into the same ErrConflict.
func (s *ClubService) Join(ctx context.Context, clubID, userID string) error {
	_, status, err := s.loadWithMembership(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if err := canJoinClub(status); err != nil {
		return err
	}

	if err := s.clubs.Join(ctx, clubID, userID); err != nil {
		return err
	}

	s.logger.Info("member joined club",
		slog.String("clubID", clubID),
		slog.String("userID", userID),
	)

	return nil
}

// Leave removes the caller from a club. Owners cannot leave; admins and
// members can.
func (s *ClubService) Leave(ctx context.Context, clubID, userID string) error {
	_, status, err := s.loadWithMembership(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if err := canLeaveClub(status); err != nil {
		return err
	}

	if err := s.clubs.Leave(ctx, clubID, userID); err != nil {
		return err
	}

	s.logger.Info("member left club",
		slog.String("clubID", clubID),
		slog.String("userID", userID),
	)

	return nil
}

// Members lists a club's members, owner first. Private clubs show their
// member list only to members.
func (s *ClubService) Members(ctx context.Context, clubID, viewerID string) ([]model.ClubMember, error) {
	club, status, err := s.loadWithMembership(ctx, clubID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := canViewClub(club, status); err != nil {
		return nil, err
	}
	return s.clubs.Members(ctx, clubID)
}

// Promote raises a member to admin. Owner only; the target must currently
// hold the member role.
func (s *ClubService) Promote(ctx context.Context, clubID, ownerID, targetID string) error {
	_, status, err := s.loadWithMembership(ctx, clubID, ownerID)
	if err != nil {
		return err
	}
	if err := canPromoteMember(status); err != nil {
		return err
	}

	targetStatus, err := s.clubs.Membership(ctx, clubID, targetID)
	if err != nil {
		return fmt.Errorf("service/club: checking target membership: %w", err)
	}
	if !targetStatus.IsMember {
		return apperror.NotFound("membership", targetID)
	}
	if targetStatus.Role != model.RoleMember {
		return apperror.ValidationFailed("role", "only regular members can be promoted")
	}

	if err := s.clubs.Promote(ctx, clubID, targetID); err != nil {
		return err
	}

	s.logger.Info("member promoted to admin",
		slog.String("clubID", clubID),
		slog.String("targetID", targetID),
		slog.String("byUserID", ownerID),
	)

	return nil
}

// PostPhoto shares one of the caller's photos to the club feed. Members
// only, own photos only, and each photo at most once per club.
func (s *ClubService) PostPhoto(ctx context.Context, clubID, userID, photoID string) error {
	_, status, err := s.loadWithMembership(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if err := canPostPhoto(status); err != nil {
		return err
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return apperror.Forbidden("you can only post your own photos")
	}

	if err := s.clubs.AddPhoto(ctx, clubID, photoID, userID); err != nil {
		return err
	}

	s.logger.Info("photo posted to club",
		slog.String("clubID", clubID),
		slog.String("photoID", photoID),
		slog.String("userID", userID),
	)

	return nil
}

// Photos returns the club feed, newest post first. Private clubs show
// their feed only to members.
func (s *ClubService) Photos(ctx context.Context, clubID, viewerID string, opts repository.ListOptions) ([]model.ClubFeedPhoto, error) {
	club, status, err := s.loadWithMembership(ctx, clubID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := canViewClub(club, status); err != nil {
		return nil, err
	}
	return s.clubs.Photos(ctx, clubID, opts)
}

// loadWithMembership fetches the club and the viewer's membership in it.
// An empty viewerID (anonymous) skips the membership lookup.
func (s *ClubService) loadWithMembership(ctx context.Context, clubID, viewerID string) (*model.Club, model.MembershipStatus, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, model.MembershipStatus{}, err
	}

	var status model.MembershipStatus
	if viewerID != "" {
		status, err = s.clubs.Membership(ctx, clubID, viewerID)
		if err != nil {
			return nil, model.MembershipStatus{}, fmt.Errorf("service/club: checking membership: %w", err)
		}
	}

	return club, status, nil
}
