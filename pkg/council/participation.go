package council

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNotesLength = 1000

// TrackParticipation opens an attendance record for the student and event of a duty.
// A member has at most one record per event; idx_participation_member_event backs that.
func (s *Service) TrackParticipation(ctx context.Context, admin *database.User, dutyID uint) (*models.ParticipationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	var record database.Participation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var duty database.Duty
		if err := tx.First(&duty, dutyID).Error; err != nil {
			return lookupErr("Duty", err)
		}

		var member database.User
		if err := tx.First(&member, duty.StudentID).Error; err != nil {
			return lookupErr("Council member", err)
		}
		if !guard.IsCouncilMember(&member) {
			return validationf("Only council members have participation records")
		}

		var existing int64
		if err := tx.Model(&database.Participation{}).
			Where("council_member_id = ? AND event_id = ?", member.ID, duty.EventID).
			Count(&existing).Error; err != nil {
			return internal("failed to check participation", err)
		}
		if existing > 0 {
			return conflict("Participation already recorded for this member and event")
		}

		record = database.Participation{
			CouncilMemberID: member.ID,
			EventID:         duty.EventID,
			DutyID:          duty.ID,
			Status:          models.ParticipationAssigned,
		}
		if err := tx.Create(&record).Error; err != nil {
			if isDuplicate(err) {
				return conflict("Participation already recorded for this member and event")
			}
			return internal("failed to create participation", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Error creating participation record", err)
	}

	s.logger.Info("Participation tracked",
		zap.Uint("participation_id", record.ID),
		zap.Uint("council_member_id", record.CouncilMemberID),
		zap.Uint("event_id", record.EventID))

	return s.participationView(ctx, record.ID)
}

// loadOwnedParticipation checks that actor is a council member who owns the record
func (s *Service) loadOwnedParticipation(db *gorm.DB, actor *database.User, id uint, action string) (*database.Participation, error) {
	if !guard.IsCouncilMember(actor) {
		return nil, forbidden("Only council members can " + action)
	}

	var p database.Participation
	if err := db.First(&p, id).Error; err != nil {
		return nil, lookupErr("Participation record", err)
	}
	if !guard.OwnsParticipation(actor, &p) {
		return nil, forbidden("You can only " + action + " for your own duties")
	}
	return &p, nil
}

// CheckIn stamps the check-in time and confirms attendance. The write only
// lands while check_in_time is still unset, so a double submit gets Conflict.
func (s *Service) CheckIn(ctx context.Context, actor *database.User, id uint) (*models.ParticipationView, error) {
	db := s.db.WithContext(ctx)

	p, err := s.loadOwnedParticipation(db, actor, id, "check in")
	if err != nil {
		return nil, err
	}
	if p.CheckInTime != nil {
		return nil, conflict("Already checked in for this event")
	}

	res := db.Model(&database.Participation{}).
		Where("id = ? AND check_in_time IS NULL", p.ID).
		Updates(map[string]any{
			"check_in_time": s.now(),
			"status":        models.ParticipationConfirmed,
		})
	if res.Error != nil {
		return nil, internal("Error during check-in", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("Already checked in for this event")
	}

	s.logger.Info("Checked in", zap.Uint("participation_id", p.ID), zap.Uint("council_member_id", actor.ID))
	return s.participationView(ctx, p.ID)
}

// CheckOut stamps the check-out time and completes attendance. It needs a prior
// check-in and, like CheckIn, only writes while check_out_time is unset.
func (s *Service) CheckOut(ctx context.Context, actor *database.User, id uint) (*models.ParticipationView, error) {
	db := s.db.WithContext(ctx)

	p, err := s.loadOwnedParticipation(db, actor, id, "check out")
	if err != nil {
		return nil, err
	}
	if p.CheckOutTime != nil {
		return nil, conflict("Already checked out from this event")
	}
	if p.CheckInTime == nil {
		return nil, validationf("Must check in before checking out")
	}

	res := db.Model(&database.Participation{}).
		Where("id = ? AND check_out_time IS NULL AND check_in_time IS NOT NULL", p.ID).
		Updates(map[string]any{
			"check_out_time": s.now(),
			"status":         models.ParticipationCompleted,
		})
	if res.Error != nil {
		return nil, internal("Error during check-out", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("Already checked out from this event")
	}

	s.logger.Info("Checked out", zap.Uint("participation_id", p.ID), zap.Uint("council_member_id", actor.ID))
	return s.participationView(ctx, p.ID)
}

// AdminUpdate overwrites only the fields present in in. An explicit null clears
// the rating and the notes; status cannot be null.
func (s *Service) AdminUpdate(ctx context.Context, admin *database.User, id uint, in models.ParticipationUpdate) (*models.ParticipationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	updates := map[string]any{}
	if in.Status.Set {
		if in.Status.Value == nil || !in.Status.Value.Valid() {
			return nil, validationf("invalid participation status")
		}
		updates["status"] = *in.Status.Value
	}
	if in.PerformanceRating.Set {
		if in.PerformanceRating.Value == nil {
			updates["performance_rating"] = nil
		} else {
			rating := *in.PerformanceRating.Value
			if rating < 1 || rating > 5 {
				return nil, validationf("Performance rating must be between 1 and 5")
			}
			updates["performance_rating"] = rating
		}
	}
	if in.AdminNotes.Set {
		notes := ""
		if in.AdminNotes.Value != nil {
			notes = *in.AdminNotes.Value
		}
		if utf8.RuneCountInString(notes) > maxNotesLength {
			return nil, validationf("Admin notes cannot be more than %d characters", maxNotesLength)
		}
		updates["admin_notes"] = notes
	}

	db := s.db.WithContext(ctx)
	var p database.Participation
	if err := db.First(&p, id).Error; err != nil {
		return nil, lookupErr("Participation record", err)
	}

	if len(updates) > 0 {
		if err := db.Model(&p).Updates(updates).Error; err != nil {
			return nil, internal("Error updating participation", err)
		}
	}

	s.logger.Info("Participation updated", zap.Uint("participation_id", p.ID), zap.Int("fields", len(updates)))
	return s.participationView(ctx, p.ID)
}

// MarkNoShow sets status to no_show whatever the record's current state
func (s *Service) MarkNoShow(ctx context.Context, admin *database.User, id uint) (*models.ParticipationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	db := s.db.WithContext(ctx)
	var p database.Participation
	if err := db.First(&p, id).Error; err != nil {
		return nil, lookupErr("Participation record", err)
	}

	if err := db.Model(&p).Update("status", models.ParticipationNoShow).Error; err != nil {
		return nil, internal("Error marking participation as no-show", err)
	}

	s.logger.Info("Participation marked as no-show", zap.Uint("participation_id", p.ID))
	return s.participationView(ctx, p.ID)
}

// Stats counts participation records by status
func (s *Service) Stats(ctx context.Context, admin *database.User) (*models.ParticipationStats, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	var rows []struct {
		Status models.ParticipationStatus
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&database.Participation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, internal("Error fetching participation statistics", err)
	}

	stats := &models.ParticipationStats{
		StatusBreakdown: make(map[models.ParticipationStatus]int64, len(models.ParticipationStatuses)),
	}
	for _, status := range models.ParticipationStatuses {
		stats.StatusBreakdown[status] = 0
	}
	for _, row := range rows {
		stats.StatusBreakdown[row.Status] = row.Count
		stats.TotalParticipation += row.Count
	}
	stats.CompletedParticipation = stats.StatusBreakdown[models.ParticipationCompleted]
	stats.NoShowParticipation = stats.StatusBreakdown[models.ParticipationNoShow]
	stats.CompletionRate = completionRate(stats.CompletedParticipation, stats.TotalParticipation)

	return stats, nil
}

// completionRate is completed/total as a percentage rounded to two decimals
func completionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// MyParticipation returns the acting council member's records, newest first
func (s *Service) MyParticipation(ctx context.Context, actor *database.User) ([]models.ParticipationView, error) {
	if !guard.IsCouncilMember(actor) {
		return nil, forbidden("Only council members can view participation records")
	}
	return s.listParticipation(ctx, "council_member_id = ?", actor.ID)
}

// ListParticipation returns every record, newest first
func (s *Service) ListParticipation(ctx context.Context, admin *database.User) ([]models.ParticipationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}
	return s.listParticipation(ctx, "1 = 1")
}

func (s *Service) listParticipation(ctx context.Context, query string, args ...any) ([]models.ParticipationView, error) {
	db := s.db.WithContext(ctx)

	var records []database.Participation
	if err := db.Where(query, args...).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, internal("Error fetching participation records", err)
	}

	views, err := participationViews(db, records)
	if err != nil {
		return nil, internal("Error fetching participation records", err)
	}
	return views, nil
}

func (s *Service) participationView(ctx context.Context, id uint) (*models.ParticipationView, error) {
	db := s.db.WithContext(ctx)

	var p database.Participation
	if err := db.First(&p, id).Error; err != nil {
		return nil, lookupErr("Participation record", err)
	}

	views, err := participationViews(db, []database.Participation{p})
	if err != nil {
		return nil, internal("failed to load participation references", err)
	}
	return &views[0], nil
}
