package model

import "time"

// Role is a club membership role. It governs what a member may do inside
// the club: owners can do everything including deleting the club, admins
// can edit club settings, members can post photos.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Rank orders roles for member listings: owner first, then admins, then
// members. Lower is more privileged.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 3
	}
}

// Club is a named group that aggregates members and shared photos.
//
// MemberCount and PhotoCount are denormalized counters kept consistent with
// the club_members and club_photos rows — every mutation of those rows
// updates the counter inside the same transaction. CreatorID is retained
// for display/attribution only; the authoritative ownership record is the
// role=owner membership row.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creatorId"`
	CoverImage  string    `json:"coverImage"`
	IsPrivate   bool      `json:"isPrivate"`
	MemberCount int       `json:"memberCount"`
	PhotoCount  int       `json:"photoCount"`
	CreatedAt   time.Time `json:"createdAt"`

	// Display-only join columns, populated by list/get queries.
	CreatorUsername    string `json:"creatorUsername,omitempty"`
	CreatorDisplayName string `json:"creatorDisplayName,omitempty"`
}

// MembershipStatus is the result of looking up a caller's membership in a
// club. Role is empty when IsMember is false.
type MembershipStatus struct {
	IsMember bool `json:"isMember"`
	Role     Role `json:"role,omitempty"`
}

// ClubMembership is one (club, user) membership row.
// At most one row exists per (ClubID, UserID) pair.
type ClubMembership struct {
	ID       string    `json:"id"`
	ClubID   string    `json:"clubId"`
	UserID   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ClubMember is a membership row joined with the member's profile, as
// returned by the member listing.
type ClubMember struct {
	ClubMembership
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
}

// ClubPhoto is the association of an existing photo with a club.
// A photo can be posted to a given club at most once.
type ClubPhoto struct {
	ID       string    `json:"id"`
	ClubID   string    `json:"clubId"`
	PhotoID  string    `json:"photoId"`
	PostedBy string    `json:"postedBy"`
	PostedAt time.Time `json:"postedAt"`
}

// ClubFeedPhoto is a photo in a club's feed, joined with posting metadata.
type ClubFeedPhoto struct {
	Photo
	PostedAt            time.Time `json:"postedAt"`
	PostedByUsername    string    `json:"postedByUsername"`
	PostedByDisplayName string    `json:"postedByDisplayName"`
}

// UserClub is a club joined with the role the user holds in it, as
// returned by the per-user club listing.
type UserClub struct {
	Club
	Role Role `json:"role"`
}
