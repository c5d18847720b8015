package models

// UserRole is the directory role of a user
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether r is a known user role
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Valid reports whether s is a known event status
func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// DutyRole is the job a student performs at an event
type DutyRole string

const (
	DutyCoordinator  DutyRole = "coordinator"
	DutyVolunteer    DutyRole = "volunteer"
	DutyRegistration DutyRole = "registration"
	DutyPublicity    DutyRole = "publicity"
	DutyTechnical    DutyRole = "technical"
	DutyDecoration   DutyRole = "decoration"
)

// Valid reports whether r is a known duty role
func (r DutyRole) Valid() bool {
	switch r {
	case DutyCoordinator, DutyVolunteer, DutyRegistration, DutyPublicity, DutyTechnical, DutyDecoration:
		return true
	}
	return false
}

// DutyStatus is the status of a single duty assignment.
// DutyCancelled is only ever written by an approved cancellation request.
type DutyStatus string

const (
	DutyPending   DutyStatus = "pending"
	DutyConfirmed DutyStatus = "confirmed"
	DutyDeclined  DutyStatus = "declined"
	DutyCompleted DutyStatus = "completed"
	DutyCancelled DutyStatus = "cancelled"
)

// Settable reports whether s may be assigned through a direct status update
func (s DutyStatus) Settable() bool {
	switch s {
	case DutyPending, DutyConfirmed, DutyDeclined, DutyCompleted:
		return true
	}
	return false
}

// RequestType is the kind of change a student asks for
type RequestType string

const (
	RequestRoleChange   RequestType = "role_change"
	RequestCancellation RequestType = "cancellation"
)

// Valid reports whether t is a known request type
func (t RequestType) Valid() bool {
	return t == RequestRoleChange || t == RequestCancellation
}

// RequestStatus is the status of a duty request
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

// ParticipationStatus is the attendance status of a council member at an event
type ParticipationStatus string

const (
	ParticipationAssigned  ParticipationStatus = "assigned"
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationCompleted ParticipationStatus = "completed"
	ParticipationNoShow    ParticipationStatus = "no_show"
	ParticipationCancelled ParticipationStatus = "cancelled"
)

// ParticipationStatuses lists every participation status in display order
var ParticipationStatuses = []ParticipationStatus{
	ParticipationAssigned,
	ParticipationConfirmed,
	ParticipationCompleted,
	ParticipationNoShow,
	ParticipationCancelled,
}

// Valid reports whether s is a known participation status
func (s ParticipationStatus) Valid() bool {
	for _, known := range ParticipationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ApplicationStatus is the status of a council membership application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// CouncilPosition is the seat an applicant is applying for
type CouncilPosition string

const (
	PositionPresident     CouncilPosition = "president"
	PositionVicePresident CouncilPosition = "vice-president"
	PositionSecretary     CouncilPosition = "secretary"
	PositionTreasurer     CouncilPosition = "treasurer"
	PositionMember        CouncilPosition = "member"
)

// Valid reports whether p is a known council position
func (p CouncilPosition) Valid() bool {
	switch p {
	case PositionPresident, PositionVicePresident, PositionSecretary, PositionTreasurer, PositionMember:
		return true
	}
	return false
}

// ProposalStatus is the review status of an event proposal.
// Approved and rejected are final; under_review is an optional stop on the way.
type ProposalStatus string

const (
	ProposalPending     ProposalStatus = "pending"
	ProposalUnderReview ProposalStatus = "under_review"
	ProposalApproved    ProposalStatus = "approved"
	ProposalRejected    ProposalStatus = "rejected"
)

// Open reports whether a proposal in status s can still be reviewed
func (s ProposalStatus) Open() bool {
	return s == ProposalPending || s == ProposalUnderReview
}
