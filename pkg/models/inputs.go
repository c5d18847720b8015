package models

// LoginInput is the body of POST /api/auth/login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInput is the body of POST /api/users
type UserInput struct {
	Name            string   `json:"name" binding:"required,max=50"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=6"`
	Role            UserRole `json:"role" binding:"omitempty,oneof=student admin"`
	IsCouncilMember bool     `json:"isCouncilMember"`
	StudentID       string   `json:"studentId" binding:"required"`
	Department      string   `json:"department"`
	Year            string   `json:"year"`
}

// EventInput is the body of POST /api/events
type EventInput struct {
	Title       string      `json:"title" binding:"required,max=100"`
	Description string      `json:"description" binding:"required,max=1000"`
	Location    string      `json:"location" binding:"required"`
	Date        Date        `json:"date"`
	StartTime   string      `json:"startTime" binding:"required"`
	EndTime     string      `json:"endTime" binding:"required"`
	Image       string      `json:"image"`
	Status      EventStatus `json:"status"`
}

// EventUpdate is the body of PUT /api/events/:id; nil fields are left alone
type EventUpdate struct {
	Title       *string      `json:"title" binding:"omitempty,max=100"`
	Description *string      `json:"description" binding:"omitempty,max=1000"`
	Location    *string      `json:"location"`
	Date        *Date        `json:"date"`
	StartTime   *string      `json:"startTime"`
	EndTime     *string      `json:"endTime"`
	Image       *string      `json:"image"`
	Status      *EventStatus `json:"status"`
}

// DutyInput is the body of POST /api/duties
type DutyInput struct {
	EventID   uint     `json:"eventId" binding:"required"`
	StudentID uint     `json:"studentId" binding:"required"`
	Role      DutyRole `json:"role"`
}

// DutyStatusInput is the body of PUT /api/duties/:id
type DutyStatusInput struct {
	Status   DutyStatus `json:"status" binding:"required"`
	Feedback *string    `json:"feedback"`
}

// DutyRequestInput is the body of POST /api/duty-requests
type DutyRequestInput struct {
	DutyID        uint        `json:"dutyId" binding:"required"`
	RequestType   RequestType `json:"requestType" binding:"required"`
	CurrentRole   DutyRole    `json:"currentRole" binding:"required"`
	RequestedRole DutyRole    `json:"requestedRole"`
	Reason        string      `json:"reason"`
}

// ReviewInput is the body of PATCH /api/duty-requests/:id/review
type ReviewInput struct {
	Status        RequestStatus `json:"status" binding:"required"`
	AdminResponse string        `json:"adminResponse"`
}

// ReasonInput is the body of PUT /api/duty-requests/:id
type ReasonInput struct {
	Reason string `json:"reason"`
}

// TrackInput is the body of POST /api/participation
type TrackInput struct {
	DutyID uint `json:"dutyId" binding:"required"`
}

// ParticipationUpdate is the body of PATCH /api/participation/:id
type ParticipationUpdate struct {
	Status            Optional[ParticipationStatus] `json:"status"`
	PerformanceRating Optional[int]                 `json:"performanceRating"`
	AdminNotes        Optional[string]              `json:"adminNotes"`
}

// ApplicationInput is the body of POST /api/applications
type ApplicationInput struct {
	Motivation string          `json:"motivation"`
	Experience string          `json:"experience"`
	Skills     []string        `json:"skills"`
	Position   CouncilPosition `json:"position"`
	Interests  []string        `json:"interests"`
}

// ApplicationReview is the body of PUT /api/applications/:id
type ApplicationReview struct {
	Status         ApplicationStatus `json:"status" binding:"required"`
	ReviewComments string            `json:"reviewComments"`
}

// ProposalInput is the body of POST /api/event-proposals
type ProposalInput struct {
	Title             string `json:"title" binding:"required,max=100"`
	Description       string `json:"description" binding:"required,max=1000"`
	Location          string `json:"location" binding:"required"`
	ProposedDate      Date   `json:"proposedDate"`
	StartTime         string `json:"startTime" binding:"required"`
	EndTime           string `json:"endTime" binding:"required"`
	ExpectedAttendees int    `json:"expectedAttendees"`
	Budget            string `json:"budget"`
	Resources         string `json:"resources"`
}

// ProposalUpdate is the body of PUT /api/event-proposals/:id; nil fields are left alone
type ProposalUpdate struct {
	Title             *string `json:"title" binding:"omitempty,max=100"`
	Description       *string `json:"description" binding:"omitempty,max=1000"`
	Location          *string `json:"location"`
	ProposedDate      *Date   `json:"proposedDate"`
	StartTime         *string `json:"startTime"`
	EndTime           *string `json:"endTime"`
	ExpectedAttendees *int    `json:"expectedAttendees"`
	Budget            *string `json:"budget"`
	Resources         *string `json:"resources"`
}

// ProposalReview is the body of PATCH /api/event-proposals/:id/review
type ProposalReview struct {
	Status          ProposalStatus `json:"status" binding:"required"`
	AdminFeedback   string         `json:"adminFeedback"`
	RejectionReason string         `json:"rejectionReason"`
}
