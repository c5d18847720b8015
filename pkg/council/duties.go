package council

import (
	"context"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateDuty assigns a student to an event. The new duty starts pending.
func (s *Service) CreateDuty(ctx context.Context, assigner *database.User, in models.DutyInput) (*models.DutyView, error) {
	if !guard.IsAdmin(assigner) {
		return nil, forbidden("Not authorized as admin")
	}

	role := in.Role
	if role == "" {
		role = models.DutyVolunteer
	}
	if !role.Valid() {
		return nil, validationf("invalid duty role %q", role)
	}

	var duty *database.Duty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		duty, err = createDuty(tx, in.EventID, in.StudentID, role, assigner.ID)
		return err
	})
	if err != nil {
		return nil, passThrough("failed to assign duty", err)
	}

	s.logger.Info("Duty assigned",
		zap.Uint("duty_id", duty.ID),
		zap.Uint("event_id", duty.EventID),
		zap.Uint("student_id", duty.StudentID),
		zap.String("role", string(duty.Role)))

	return s.dutyView(ctx, duty)
}

// createDuty checks both references and the (event, student) pair, then inserts.
// A lost race past the pair check is caught by idx_duty_event_student.
func createDuty(tx *gorm.DB, eventID, studentID uint, role models.DutyRole, assignerID uint) (*database.Duty, error) {
	var event database.Event
	if err := tx.Select("id").First(&event, eventID).Error; err != nil {
		return nil, lookupErr("Event", err)
	}

	var student database.User
	if err := tx.Select("id").First(&student, studentID).Error; err != nil {
		return nil, lookupErr("Student", err)
	}

	var existing int64
	if err := tx.Model(&database.Duty{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&existing).Error; err != nil {
		return nil, internal("failed to check existing duty", err)
	}
	if existing > 0 {
		return nil, conflict("Duty already assigned to this student for this event")
	}

	duty := &database.Duty{
		EventID:      eventID,
		StudentID:    studentID,
		Role:         role,
		Status:       models.DutyPending,
		AssignedByID: assignerID,
	}
	if err := tx.Create(duty).Error; err != nil {
		if isDuplicate(err) {
			return nil, conflict("Duty already assigned to this student for this event")
		}
		return nil, internal("failed to create duty", err)
	}
	return duty, nil
}

// councilRoster returns every council member in a stable order: earliest joined first
func councilRoster(db *gorm.DB) ([]database.User, error) {
	var members []database.User
	err := db.Where("is_council_member = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// autoAssign gives every council member a duty on event, cycling through Roles
// in roster order. It runs inside the caller's transaction and returns the duties it created.
func (s *Service) autoAssign(tx *gorm.DB, eventID, assignerID uint) ([]database.Duty, error) {
	members, err := councilRoster(tx)
	if err != nil {
		return nil, internal("failed to load council members", err)
	}

	duties := make([]database.Duty, 0, len(members))
	for i, member := range members {
		duty := database.Duty{
			EventID:      eventID,
			StudentID:    member.ID,
			Role:         RoleAt(i),
			Status:       models.DutyPending,
			AssignedByID: assignerID,
		}
		if err := tx.Create(&duty).Error; err != nil {
			if isDuplicate(err) {
				return nil, conflict("Duty already assigned to this student for this event")
			}
			return nil, internal("failed to create duty", err)
		}
		duties = append(duties, duty)
	}

	s.logger.Debug("Auto-assigned duties",
		zap.Uint("event_id", eventID),
		zap.Int("council_members", len(members)))

	return duties, nil
}

// deleteDutiesForEvent removes every duty that references eventID
func deleteDutiesForEvent(tx *gorm.DB, eventID uint) (int64, error) {
	res := tx.Where("event_id = ?", eventID).Delete(&database.Duty{})
	if res.Error != nil {
		return 0, internal("failed to delete event duties", res.Error)
	}
	return res.RowsAffected, nil
}

// CleanupOrphans deletes duties whose event, student or assigner no longer exists
func (s *Service) CleanupOrphans(ctx context.Context, actor *database.User) (int64, error) {
	if !guard.IsAdmin(actor) {
		return 0, forbidden("Not authorized as admin")
	}

	db := s.db.WithContext(ctx)
	res := db.Where("event_id NOT IN (?)", db.Model(&database.Event{}).Select("id")).
		Or("student_id NOT IN (?)", db.Model(&database.User{}).Select("id")).
		Or("assigned_by_id NOT IN (?)", db.Model(&database.User{}).Select("id")).
		Delete(&database.Duty{})
	if res.Error != nil {
		return 0, internal("failed to cleanup orphaned duties", res.Error)
	}

	s.logger.Info("Cleaned up orphaned duties", zap.Int64("count", res.RowsAffected))
	return res.RowsAffected, nil
}

// ListDuties returns every duty whose references all resolve, newest first
func (s *Service) ListDuties(ctx context.Context, actor *database.User) ([]models.DutyView, error) {
	if !guard.IsAdmin(actor) {
		return nil, forbidden("Not authorized as admin")
	}

	db := s.db.WithContext(ctx)
	var duties []database.Duty
	if err := db.Order("created_at DESC").Order("id DESC").Find(&duties).Error; err != nil {
		return nil, internal("Failed to fetch duties", err)
	}

	views, err := dutyViews(db, duties)
	if err != nil {
		return nil, internal("Failed to fetch duties", err)
	}

	valid := views[:0]
	for _, v := range views {
		if v.Event != nil && v.Student != nil && v.AssignedBy != nil {
			valid = append(valid, v)
		}
	}
	return valid, nil
}

// MyDuties returns the acting student's duties whose event and assigner still exist
func (s *Service) MyDuties(ctx context.Context, actor *database.User) ([]models.DutyView, error) {
	if actor == nil {
		return nil, forbidden("Authentication required")
	}

	db := s.db.WithContext(ctx)
	var duties []database.Duty
	if err := db.Where("student_id = ?", actor.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&duties).Error; err != nil {
		return nil, internal("Failed to fetch duties", err)
	}

	views, err := dutyViews(db, duties)
	if err != nil {
		return nil, internal("Failed to fetch duties", err)
	}

	valid := views[:0]
	for _, v := range views {
		if v.Event != nil && v.AssignedBy != nil {
			valid = append(valid, v)
		}
	}
	return valid, nil
}

// DutiesByEvent returns every duty on an event; references that no longer resolve are nil
func (s *Service) DutiesByEvent(ctx context.Context, actor *database.User, eventID uint) ([]models.DutyView, error) {
	if !guard.IsAdmin(actor) {
		return nil, forbidden("Not authorized as admin")
	}

	db := s.db.WithContext(ctx)
	var duties []database.Duty
	if err := db.Where("event_id = ?", eventID).Order("id ASC").Find(&duties).Error; err != nil {
		return nil, internal("Failed to fetch duties by event", err)
	}

	views, err := dutyViews(db, duties)
	if err != nil {
		return nil, internal("Failed to fetch duties by event", err)
	}
	return views, nil
}

// TransitionDuty sets a duty's status. Only the assigned student or an admin may do so.
// Any settable status is accepted from any other, including regressions such as
// completed back to pending. feedback is written only when non-nil.
func (s *Service) TransitionDuty(ctx context.Context, actor *database.User, dutyID uint, status models.DutyStatus, feedback *string) (*models.DutyView, error) {
	db := s.db.WithContext(ctx)

	var duty database.Duty
	if err := db.First(&duty, dutyID).Error; err != nil {
		return nil, lookupErr("Duty", err)
	}

	if !guard.CanTransitionDuty(actor, &duty) {
		return nil, forbidden("Not authorized to update this duty")
	}

	if !status.Settable() {
		return nil, validationf("invalid duty status %q", status)
	}

	updates := map[string]any{"status": status}
	if feedback != nil {
		updates["feedback"] = *feedback
	}
	if err := db.Model(&duty).Updates(updates).Error; err != nil {
		return nil, internal("Failed to update duty status", err)
	}

	s.logger.Info("Duty status updated",
		zap.Uint("duty_id", duty.ID),
		zap.Uint("actor_id", actor.ID),
		zap.String("status", string(status)))

	return s.dutyView(ctx, &duty)
}

// DeleteDuty removes a single duty. Requests and participation records that
// reference it are left in place.
func (s *Service) DeleteDuty(ctx context.Context, actor *database.User, dutyID uint) error {
	if !guard.IsAdmin(actor) {
		return forbidden("Not authorized as admin")
	}

	res := s.db.WithContext(ctx).Delete(&database.Duty{}, dutyID)
	if res.Error != nil {
		return internal("Failed to delete duty", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Duty")
	}

	s.logger.Info("Duty deleted", zap.Uint("duty_id", dutyID))
	return nil
}

// dutyView reloads duty and resolves its references
func (s *Service) dutyView(ctx context.Context, duty *database.Duty) (*models.DutyView, error) {
	db := s.db.WithContext(ctx)

	var fresh database.Duty
	if err := db.First(&fresh, duty.ID).Error; err != nil {
		return nil, lookupErr("Duty", err)
	}

	views, err := dutyViews(db, []database.Duty{fresh})
	if err != nil {
		return nil, internal("failed to load duty references", err)
	}
	return &views[0], nil
}
