package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

const (
	MaxContestTitleLength = 100
	DefaultMaxEntries     = 3
)

// ContestService handles photo contests and their entries.
type ContestService struct {
	contests repository.ContestRepository
	clubs    repository.ClubRepository
	images   ImageStore
	logger   *slog.Logger
}

func NewContestService(
	contests repository.ContestRepository,
	clubs repository.ClubRepository,
	images ImageStore,
	logger *slog.Logger,
) *ContestService {
	return &ContestService{
		contests: contests,
		clubs:    clubs,
		images:   images,
		logger:   logger,
	}
}

// ContestInput is the parsed create-contest request.
type ContestInput struct {
	Title       string
	Description string
	Category    string
	StartDate   time.Time
	EndDate     time.Time
	EntryFee    int
	MaxEntries  int
	Prizes      []string
	ClubID      string
	IsPublic    bool
}

// Create validates and creates a contest. Site-wide contests can be
// created by any logged-in user; club contests only by that club's owner
// or an admin.
func (s *ContestService) Create(ctx context.Context, creatorID string, in ContestInput) (*model.Contest, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "contest title is required")
	}
	if len(title) > MaxContestTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxContestTitleLength))
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperror.ValidationFailed("dates", "start and end dates are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, apperror.ValidationFailed("dates", "end date must be after the start date")
	}
	if in.MaxEntries <= 0 {
		in.MaxEntries = DefaultMaxEntries
	}
	if in.Category == "" {
		in.Category = "General"
	}

	if in.ClubID != "" {
		status, err := s.clubs.Membership(ctx, in.ClubID, creatorID)
		if err != nil {
			return nil, fmt.Errorf("service/contest: checking membership: %w", err)
		}
		if err := canUpdateClub(status); err != nil {
			return nil, apperror.Forbidden("only the club owner or an admin can create club contests")
		}
	}

	contest := &model.Contest{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		EntryFee:    in.EntryFee,
		MaxEntries:  in.MaxEntries,
		Prizes:      in.Prizes,
		ClubID:      in.ClubID,
		IsPublic:    in.IsPublic,
		CreatedBy:   creatorID,
	}
	if contest.Prizes == nil {
		contest.Prizes = []string{}
	}
	if err := s.contests.Create(ctx, contest); err != nil {
		return nil, err
	}

	s.logger.Info("contest created",
		slog.String("contestID", contest.ID),
		slog.String("creatorID", creatorID),
		slog.String("clubID", contest.ClubID),
	)

	return contest, nil
}

// Get returns one contest, enforcing club membership for private club
// contests.
func (s *ContestService) Get(ctx context.Context, contestID, viewerID string) (*model.Contest, error) {
	contest, err := s.contests.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkContestVisible(ctx, contest, viewerID); err != nil {
		return nil, err
	}
	return contest, nil
}

// List returns public contests filtered by status and category.
func (s *ContestService) List(ctx context.Context, status, category string) ([]model.Contest, error) {
	if status != "" && status != model.ContestUpcoming && status != model.ContestActive && status != model.ContestEnded {
		return nil, apperror.ValidationFailed("status", "status must be upcoming, active, or ended")
	}
	return s.contests.List(ctx, status, category)
}

// ListByClub returns a club's contests; members see private ones too.
func (s *ContestService) ListByClub(ctx context.Context, clubID, viewerID string) ([]model.Contest, error) {
	if _, err := s.clubs.GetByID(ctx, clubID); err != nil {
		return nil, err
	}

	includePrivate := false
	if viewerID != "" {
		status, err := s.clubs.Membership(ctx, clubID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("service/contest: checking membership: %w", err)
		}
		includePrivate = status.IsMember
	}

	return s.contests.ListByClub(ctx, clubID, includePrivate)
}

// EntryInput is the parsed contest entry submission.
type EntryInput struct {
	Title       string
	Description string
	ContentType string
	File        io.Reader
}

// Enter submits a photo to a contest. The contest must be in its active
// window, the caller under the per-user entry limit, and for private club
// contests a member of the club.
func (s *ContestService) Enter(ctx context.Context, contestID, userID string, in EntryInput) (*model.ContestEntry, error) {
	contest, err := s.contests.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkContestVisible(ctx, contest, userID); err != nil {
		return nil, err
	}

	switch contest.Status {
	case model.ContestUpcoming:
		return nil, apperror.ValidationFailed("contest", "this contest has not started yet")
	case model.ContestEnded:
		return nil, apperror.ValidationFailed("contest", "this contest has ended")
	}

	count, err := s.contests.EntryCount(ctx, contestID, userID)
	if err != nil {
		return nil, fmt.Errorf("service/contest: counting entries: %w", err)
	}
	if count >= contest.MaxEntries {
		return nil, apperror.ValidationFailed("contest",
			fmt.Sprintf("you have reached the limit of %d entries", contest.MaxEntries))
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "entry title is required")
	}

	stored, err := s.images.Store(in.File, in.ContentType)
	if err != nil {
		return nil, err
	}

	entry := &model.ContestEntry{
		ContestID:         contestID,
		UserID:            userID,
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		Filename:          stored.Filename,
		ThumbnailFilename: stored.ThumbnailFilename,
	}
	if err := s.contests.AddEntry(ctx, entry); err != nil {
		s.images.Remove(stored.Filename, stored.ThumbnailFilename)
		return nil, err
	}

	s.logger.Info("contest entry submitted",
		slog.String("contestID", contestID),
		slog.String("userID", userID),
		slog.String("entryID", entry.ID),
	)

	return entry, nil
}

// Entries lists a contest's submissions, newest first.
func (s *ContestService) Entries(ctx context.Context, contestID, viewerID string) ([]model.ContestEntry, error) {
	contest, err := s.contests.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkContestVisible(ctx, contest, viewerID); err != nil {
		return nil, err
	}
	return s.contests.Entries(ctx, contestID)
}

// MyEntries lists the caller's submissions across all contests.
func (s *ContestService) MyEntries(ctx context.Context, userID string) ([]model.ContestEntry, error) {
	return s.contests.EntriesByUser(ctx, userID)
}

// checkContestVisible enforces membership for private club contests.
// Public contests (club-scoped or not) are visible to everyone.
func (s *ContestService) checkContestVisible(ctx context.Context, contest *model.Contest, viewerID string) error {
	if contest.IsPublic || contest.ClubID == "" {
		return nil
	}

	if viewerID != "" {
		status, err := s.clubs.Membership(ctx, contest.ClubID, viewerID)
		if err != nil {
			return fmt.Errorf("service/contest: checking membership: %w", err)
		}
		if status.IsMember {
			return nil
		}
	}

	return apperror.Forbidden("this contest is private to club members")
}
