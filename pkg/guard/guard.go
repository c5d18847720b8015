// Package guard holds the capability checks shared by every council operation.
// Each check is a pure predicate; a nil argument never grants access.
package guard

import (
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/models"
)

// IsAdmin reports whether user holds the admin role
func IsAdmin(user *database.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// IsCouncilMember reports whether user is flagged as a council member
func IsCouncilMember(user *database.User) bool {
	return user != nil && user.IsCouncilMember
}

// OwnsDuty reports whether duty is assigned to user
func OwnsDuty(user *database.User, duty *database.Duty) bool {
	return user != nil && duty != nil && duty.StudentID == user.ID
}

// OwnsRequestViaDuty reports whether request belongs to user through its parent duty.
// duty must be the row request points at.
func OwnsRequestViaDuty(user *database.User, request *database.DutyRequest, duty *database.Duty) bool {
	if request == nil || duty == nil || request.DutyID != duty.ID {
		return false
	}
	return OwnsDuty(user, duty)
}

// OwnsParticipation reports whether the attendance record belongs to user
func OwnsParticipation(user *database.User, p *database.Participation) bool {
	return user != nil && p != nil && p.CouncilMemberID == user.ID
}

// CanTransitionDuty reports whether user may change the status of duty
func CanTransitionDuty(user *database.User, duty *database.Duty) bool {
	return OwnsDuty(user, duty) || IsAdmin(user)
}

// CanViewRequest reports whether user may read request
func CanViewRequest(user *database.User, request *database.DutyRequest, duty *database.Duty) bool {
	return IsAdmin(user) || OwnsRequestViaDuty(user, request, duty)
}

// CanDeleteRequest reports whether user may hard-delete request
func CanDeleteRequest(user *database.User, request *database.DutyRequest, duty *database.Duty) bool {
	return IsAdmin(user) || OwnsRequestViaDuty(user, request, duty)
}

// OwnsProposal reports whether user proposed p
func OwnsProposal(user *database.User, p *database.EventProposal) bool {
	return user != nil && p != nil && p.ProposerID == user.ID
}

// CanViewProposal reports whether user may read p
func CanViewProposal(user *database.User, p *database.EventProposal) bool {
	return IsAdmin(user) || OwnsProposal(user, p)
}
