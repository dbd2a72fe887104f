// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce
// permissions, and orchestrate repositories; repositories talk to the
// database. Services accept primitives and return domain errors, never
// HTTP types — the handler maps apperror sentinels to status codes.
package service

import (
	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
)

// Club permission rules, as pure functions over a membership status.
//
// Keeping them here (instead of scattered through the club service
// methods) gives one place to read the whole permission model:
//
//	view private club   member
//	join                non-member
//	leave               member, except the owner
//	post photo          member
//	edit club           owner or admin
//	promote member      owner
//	delete club         owner
//
// Each function returns nil when the action is allowed and a domain error
// describing the refusal otherwise.

// canViewClub: public clubs are visible to everyone; private clubs only to
// members. Non-members are told "forbidden" rather than "not found" — the
// club's existence is not a secret, its contents are.
func canViewClub(club *model.Club, status model.MembershipStatus) error {
	if !club.IsPrivate || status.IsMember {
		return nil
	}
	return apperror.Forbidden("this club is private")
}

// canJoinClub: joining twice is a conflict, not a validation error — the
// membership row already exists.
func canJoinClub(status model.MembershipStatus) error {
	if status.IsMember {
		return apperror.Conflict("you are already a member of this club")
	}
	return nil
}

// canLeaveClub: the owner cannot leave their own club. A club without an
// owner would have nobody able to administer or delete it, so the owner's
// exit path is deleting the club instead.
func canLeaveClub(status model.MembershipStatus) error {
	if !status.IsMember {
		return apperror.Forbidden("you are not a member of this club")
	}
	if status.Role == model.RoleOwner {
		return apperror.Forbidden("the owner cannot leave the club; delete it instead")
	}
	return nil
}

// canPostPhoto: any member may post to the club's feed.
func canPostPhoto(status model.MembershipStatus) error {
	if !status.IsMember {
		return apperror.Forbidden("only members can post photos to this club")
	}
	return nil
}

// canUpdateClub: owners and admins may edit club settings.
func canUpdateClub(status model.MembershipStatus) error {
	if status.IsMember && (status.Role == model.RoleOwner || status.Role == model.RoleAdmin) {
		return nil
	}
	return apperror.Forbidden("only the owner or an admin can edit this club")
}

// canPromoteMember: only the owner hands out admin.
func canPromoteMember(status model.MembershipStatus) error {
	if status.IsMember && status.Role == model.RoleOwner {
		return nil
	}
	return apperror.Forbidden("only the owner can promote members")
}

// canDeleteClub: only the owner.
func canDeleteClub(status model.MembershipStatus) error {
	if status.IsMember && status.Role == model.RoleOwner {
		return nil
	}
	return apperror.Forbidden("only the owner can delete this club")
}
