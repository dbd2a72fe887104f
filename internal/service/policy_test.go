package service

import (
	"errors"
	"testing"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
)

func member(role model.Role) model.MembershipStatus {
	return model.MembershipStatus{IsMember: true, Role: role}
}

var nonMember = model.MembershipStatus{}

// One table per rule keeps the whole permission model readable in tests.
func TestClubPolicies(t *testing.T) {
	privateClub := &model.Club{ID: "c1", IsPrivate: true}
	publicClub := &model.Club{ID: "c2"}

	tests := []struct {
		name    string
		err     error
		wantErr error // nil means allowed
	}{
		{"anyone views public club", canViewClub(publicClub, nonMember), nil},
		{"non-member denied private club", canViewClub(privateClub, nonMember), apperror.ErrForbidden},
		{"member views private club", canViewClub(privateClub, member(model.RoleMember)), nil},

		{"non-member may join", canJoinClub(nonMember), nil},
		{"member joining again conflicts", canJoinClub(member(model.RoleMember)), apperror.ErrConflict},
		{"owner joining again conflicts", canJoinClub(member(model.RoleOwner)), apperror.ErrConflict},

		{"member may leave", canLeaveClub(member(model.RoleMember)), nil},
		{"admin may leave", canLeaveClub(member(model.RoleAdmin)), nil},
		{"owner cannot leave", canLeaveClub(member(model.RoleOwner)), apperror.ErrForbidden},
		{"non-member cannot leave", canLeaveClub(nonMember), apperror.ErrForbidden},

		{"member may post", canPostPhoto(member(model.RoleMember)), nil},
		{"non-member cannot post", canPostPhoto(nonMember), apperror.ErrForbidden},

		{"owner may edit", canUpdateClub(member(model.RoleOwner)), nil},
		{"admin may edit", canUpdateClub(member(model.RoleAdmin)), nil},
		{"member cannot edit", canUpdateClub(member(model.RoleMember)), apperror.ErrForbidden},

		{"owner may promote", canPromoteMember(member(model.RoleOwner)), nil},
		{"admin cannot promote", canPromoteMember(member(model.RoleAdmin)), apperror.ErrForbidden},

		{"owner may delete", canDeleteClub(member(model.RoleOwner)), nil},
		{"admin cannot delete", canDeleteClub(member(model.RoleAdmin)), apperror.ErrForbidden},
		{"member cannot delete", canDeleteClub(member(model.RoleMember)), apperror.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				if tt.err != nil {
					t.Errorf("got %v, want allowed", tt.err)
				}
				return
			}
			if !errors.Is(tt.err, tt.wantErr) {
				t.Errorf("got %v, want %v", tt.err, tt.wantErr)
			}
		})
	}
}
