package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/arnavshah/council-api-go/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// User represents the users table. Approving a membership application sets
// IsCouncilMember, which puts the user on the duty roster.
type User struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:50;not null" json:"name"`
	Email           string          `gorm:"unique;not null" json:"email"`
	PasswordHash    string          `gorm:"not null" json:"-"`
	Role            models.UserRole `gorm:"size:16;not null;default:student" json:"role"`
	IsCouncilMember bool            `gorm:"not null;default:false" json:"isCouncilMember"`
	StudentID       string          `gorm:"size:64" json:"studentId"`
	Department      string          `json:"department"`
	Year            string          `json:"year"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Event represents the events table
type Event struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"size:100;not null" json:"title"`
	Description string             `gorm:"size:1000;not null" json:"description"`
	Location    string             `gorm:"not null" json:"location"`
	Date        time.Time          `gorm:"not null" json:"date"`
	StartTime   string             `gorm:"size:16;not null" json:"startTime"`
	EndTime     string             `gorm:"size:16;not null" json:"endTime"`
	OrganizerID uint               `gorm:"not null" json:"organizer"`
	Status      models.EventStatus `gorm:"size:16;not null;default:upcoming" json:"status"`
	Image       string             `json:"image"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Duty represents the duties table. References are plain ids; there are no
// foreign key constraints, so a reference can dangle after a delete elsewhere.
type Duty struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	EventID      uint              `gorm:"not null;uniqueIndex:idx_duty_event_student" json:"event"`
	StudentID    uint              `gorm:"not null;uniqueIndex:idx_duty_event_student" json:"student"`
	Role         models.DutyRole   `gorm:"size:16;not null;default:volunteer" json:"role"`
	Status       models.DutyStatus `gorm:"size:16;not null;default:pending" json:"status"`
	AssignedByID uint              `gorm:"not null" json:"assignedBy"`
	Feedback     string            `json:"feedback"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// DutyRequest represents the duty_requests table
type DutyRequest struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	DutyID           uint                 `gorm:"not null;index" json:"duty"`
	RequestType      models.RequestType   `gorm:"size:16;not null" json:"requestType"`
	CurrentRole      models.DutyRole      `gorm:"size:16;not null" json:"currentRole"`
	RequestedRole    models.DutyRole      `gorm:"size:16" json:"requestedRole,omitempty"`
	Reason           string               `gorm:"size:500;not null" json:"reason"`
	Status           models.RequestStatus `gorm:"size:16;not null;default:pending" json:"status"`
	AdminResponse    string               `gorm:"size:500" json:"adminResponse"`
	AdminResponderID *uint                `json:"adminResponder"`
	ResponseDate     *time.Time           `json:"responseDate"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// Participation represents the participations table
type Participation struct {
	ID                uint                       `gorm:"primaryKey" json:"id"`
	CouncilMemberID   uint                       `gorm:"not null;uniqueIndex:idx_participation_member_event" json:"councilMember"`
	EventID           uint                       `gorm:"not null;uniqueIndex:idx_participation_member_event" json:"event"`
	DutyID            uint                       `gorm:"not null;index" json:"duty"`
	Status            models.ParticipationStatus `gorm:"size:16;not null;default:assigned" json:"status"`
	CheckInTime       *time.Time                 `json:"checkInTime"`
	CheckOutTime      *time.Time                 `json:"checkOutTime"`
	PerformanceRating *int                       `json:"performanceRating"`
	Feedback          string                     `gorm:"size:1000" json:"feedback"`
	AdminNotes        string                     `gorm:"size:1000" json:"adminNotes"`
	CreatedAt         time.Time                  `json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
}

// Application represents the applications table. A student holds at most one application.
type Application struct {
	ID             uint                     `gorm:"primaryKey" json:"id"`
	StudentID      uint                     `gorm:"not null;uniqueIndex:idx_application_student" json:"student"`
	Motivation     string                   `gorm:"size:1000;not null" json:"motivation"`
	Experience     string                   `gorm:"size:1000" json:"experience"`
	Skills         []string                 `gorm:"type:text;serializer:json" json:"skills"`
	Position       models.CouncilPosition   `gorm:"size:32;not null;default:member" json:"position"`
	Interests      []string                 `gorm:"type:text;serializer:json" json:"interests"`
	Status         models.ApplicationStatus `gorm:"size:16;not null;default:pending" json:"status"`
	ReviewedByID   *uint                    `json:"reviewedBy"`
	ReviewComments string                   `json:"reviewComments"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// EventProposal represents the event_proposals table. EventID is set when an
// approved proposal has been turned into an event.
type EventProposal struct {
	ID                uint                  `gorm:"primaryKey" json:"id"`
	Title             string                `gorm:"size:100;not null" json:"title"`
	Description       string                `gorm:"size:1000;not null" json:"description"`
	Location          string                `gorm:"not null" json:"location"`
	ProposedDate      time.Time             `gorm:"not null" json:"proposedDate"`
	StartTime         string                `gorm:"size:16;not null" json:"startTime"`
	EndTime           string                `gorm:"size:16;not null" json:"endTime"`
	ExpectedAttendees int                   `gorm:"not null" json:"expectedAttendees"`
	Budget            string                `json:"budget"`
	Resources         string                `json:"resources"`
	ProposerID        uint                  `gorm:"not null;index" json:"proposer"`
	Status            models.ProposalStatus `gorm:"size:16;not null;default:pending" json:"status"`
	AdminFeedback     string                `json:"adminFeedback"`
	AdminResponseDate *time.Time            `json:"adminResponseDate"`
	AdminResponderID  *uint                 `json:"adminResponder"`
	RejectionReason   string                `json:"rejectionReason"`
	EventID           *uint                 `json:"event"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// onePendingRequestIndex enforces at most one pending request per duty.
// Partial indexes are understood by both PostgreSQL and SQLite.
const onePendingRequestIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_duty_requests_one_pending
	ON duty_requests (duty_id) WHERE status = 'pending'`

// InitDB opens PostgreSQL when dsn is set, otherwise SQLite at dataPath, and migrates the schema
func InitDB(dsn, dataPath string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	} else {
		if dataPath == "" {
			dataPath = "council.db"
		}
		dialector = sqlite.Open(dataPath)
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects with the settings every caller shares
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table and the indexes AutoMigrate cannot express
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Event{}, &Duty{}, &DutyRequest{}, &Participation{}, &Application{}, &EventProposal{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := db.Exec(onePendingRequestIndex).Error; err != nil {
		return fmt.Errorf("failed to create pending request index: %w", err)
	}
	return nil
}
