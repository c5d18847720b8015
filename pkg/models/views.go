package models

import "time"

// UserSummary is the public projection of a directory user
type UserSummary struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            UserRole `json:"role"`
	IsCouncilMember bool     `json:"isCouncilMember"`
	StudentID       string   `json:"studentId,omitempty"`
	Department      string   `json:"department,omitempty"`
	Year            string   `json:"year,omitempty"`
}

// EventSummary is the projection of an event embedded in other records
type EventSummary struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Date      time.Time   `json:"date"`
	Location  string      `json:"location"`
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Status    EventStatus `json:"status"`
}

// DutyView is a duty with its references resolved. Any reference may be nil
// when the row it points at no longer exists.
type DutyView struct {
	ID         uint          `json:"id"`
	Event      *EventSummary `json:"event"`
	Student    *UserSummary  `json:"student"`
	Role       DutyRole      `json:"role"`
	Status     DutyStatus    `json:"status"`
	AssignedBy *UserSummary  `json:"assignedBy"`
	Feedback   string        `json:"feedback"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// DutyRequestView is a duty request with its duty and responder resolved
type DutyRequestView struct {
	ID             uint          `json:"id"`
	Duty           *DutyView     `json:"duty"`
	RequestType    RequestType   `json:"requestType"`
	CurrentRole    DutyRole      `json:"currentRole"`
	RequestedRole  DutyRole      `json:"requestedRole,omitempty"`
	Reason         string        `json:"reason"`
	Status         RequestStatus `json:"status"`
	AdminResponse  string        `json:"adminResponse"`
	AdminResponder *UserSummary  `json:"adminResponder"`
	ResponseDate   *time.Time    `json:"responseDate"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// DutySummary is the projection of a duty embedded in participation records
type DutySummary struct {
	ID   uint     `json:"id"`
	Role DutyRole `json:"role"`
}

// ParticipationView is a participation record with its references resolved
type ParticipationView struct {
	ID                uint                `json:"id"`
	CouncilMember     *UserSummary        `json:"councilMember"`
	Event             *EventSummary       `json:"event"`
	Duty              *DutySummary        `json:"duty"`
	Status            ParticipationStatus `json:"status"`
	CheckInTime       *time.Time          `json:"checkInTime"`
	CheckOutTime      *time.Time          `json:"checkOutTime"`
	PerformanceRating *int                `json:"performanceRating"`
	Feedback          string              `json:"feedback"`
	AdminNotes        string              `json:"adminNotes"`
}

// ParticipationStats aggregates participation records by status
type ParticipationStats struct {
	StatusBreakdown        map[ParticipationStatus]int64 `json:"statusBreakdown"`
	TotalParticipation     int64                         `json:"totalParticipation"`
	CompletedParticipation int64                         `json:"completedParticipation"`
	NoShowParticipation    int64                         `json:"noShowParticipation"`
	CompletionRate         float64                       `json:"completionRate"`
}

// ApplicationView is a membership application with its student and reviewer resolved
type ApplicationView struct {
	ID             uint              `json:"id"`
	Student        *UserSummary      `json:"student"`
	Motivation     string            `json:"motivation"`
	Experience     string            `json:"experience"`
	Skills         []string          `json:"skills"`
	Position       CouncilPosition   `json:"position"`
	Interests      []string          `json:"interests"`
	Status         ApplicationStatus `json:"status"`
	ReviewedBy     *UserSummary      `json:"reviewedBy"`
	ReviewComments string            `json:"reviewComments"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ProposalView is an event proposal with its people resolved. Event is set once
// an approved proposal has produced its event and that event still exists.
type ProposalView struct {
	ID                uint           `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Location          string         `json:"location"`
	ProposedDate      time.Time      `json:"proposedDate"`
	StartTime         string         `json:"startTime"`
	EndTime           string         `json:"endTime"`
	ExpectedAttendees int            `json:"expectedAttendees"`
	Budget            string         `json:"budget"`
	Resources         string         `json:"resources"`
	Proposer          *UserSummary   `json:"proposer"`
	Status            ProposalStatus `json:"status"`
	AdminFeedback     string         `json:"adminFeedback"`
	AdminResponseDate *time.Time     `json:"adminResponseDate"`
	AdminResponder    *UserSummary   `json:"adminResponder"`
	RejectionReason   string         `json:"rejectionReason"`
	Event             *EventSummary  `json:"event"`
	CreatedAt         time.Time      `json:"createdAt"`
}
