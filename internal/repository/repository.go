// Package repository defines the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/lenb209/PhotoApp/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	List(ctx context.Context, opts ListOptions) ([]model.Photo, error)
	ListFeatured(ctx context.Context, opts ListOptions) ([]model.Photo, error)
	ListByUser(ctx context.Context, userID string) ([]model.Photo, error)
	Update(ctx context.Context, photo *model.Photo) error
	Delete(ctx context.Context, id string) error
}

// ClubRepository covers clubs, memberships, and club-photo associations.
//
// The lifecycle methods (Create, Join, Leave, AddPhoto, Delete) are each a
// single atomic unit: membership/association row changes and the club's
// denormalized counters commit together or not at all.
type ClubRepository interface {
	// Create inserts the club and the creator's role=owner membership row
	// in one transaction. MemberCount starts at 1.
	Create(ctx context.Context, club *model.Club) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	// List returns public clubs, newest first.
	List(ctx context.Context, opts ListOptions) ([]model.Club, error)
	// ListByUser returns the clubs a user belongs to, with their role.
	ListByUser(ctx context.Context, userID string) ([]model.UserClub, error)
	Update(ctx context.Context, club *model.Club) error
	// Delete removes the club; memberships and photo associations cascade.
	Delete(ctx context.Context, id string) error

	// Membership reports whether userID is a member of clubID and with
	// which role. It never returns ErrNotFound for a missing row — absence
	// is a valid answer.
	Membership(ctx context.Context, clubID, userID string) (model.MembershipStatus, error)
	Members(ctx context.Context, clubID string) ([]model.ClubMember, error)
	// Join inserts a role=member row and increments memberCount atomically.
	// Returns ErrConflict if the user already has a membership row.
	Join(ctx context.Context, clubID, userID string) error
	// Leave deletes the membership row and decrements memberCount
	// atomically. Returns ErrNotFound if no row exists.
	Leave(ctx context.Context, clubID, userID string) error
	// Promote flips a role=member row to role=admin.
	Promote(ctx context.Context, clubID, userID string) error

	// AddPhoto associates an existing photo with the club and increments
	// photoCount atomically. Returns ErrConflict on a duplicate pair.
	AddPhoto(ctx context.Context, clubID, photoID, posterID string) error
	Photos(ctx context.Context, clubID string, opts ListOptions) ([]model.ClubFeedPhoto, error)
}

type LikeRepository interface {
	// Toggle flips the like state for (photoID, userID, userIP) and reports
	// the resulting state: true if the like now exists.
	Toggle(ctx context.Context, photoID, userID, userIP string) (bool, error)
	Count(ctx context.Context, photoID string) (int, error)
	Exists(ctx context.Context, photoID, userID, userIP string) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPhoto(ctx context.Context, photoID string) ([]model.Comment, error)
	Count(ctx context.Context, photoID string) (int, error)
}

type ContestRepository interface {
	Create(ctx context.Context, contest *model.Contest) error
	GetByID(ctx context.Context, id string) (*model.Contest, error)
	List(ctx context.Context, status, category string) ([]model.Contest, error)
	ListByClub(ctx context.Context, clubID string, includePrivate bool) ([]model.Contest, error)
	AddEntry(ctx context.Context, entry *model.ContestEntry) error
	Entries(ctx context.Context, contestID string) ([]model.ContestEntry, error)
	EntriesByUser(ctx context.Context, userID string) ([]model.ContestEntry, error)
	EntryCount(ctx context.Context, contestID, userID string) (int, error)
}
