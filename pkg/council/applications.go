package council

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxApplicationText = 1000

var errNoApplication = &Error{Kind: KindNotFound, Message: "No application found for this student"}

func validateApplication(in models.ApplicationInput) (models.ApplicationInput, error) {
	in.Motivation = strings.TrimSpace(in.Motivation)
	in.Experience = strings.TrimSpace(in.Experience)

	switch {
	case in.Motivation == "":
		return in, validationf("Please provide a motivation")
	case utf8.RuneCountInString(in.Motivation) > maxApplicationText:
		return in, validationf("Motivation cannot be more than %d characters", maxApplicationText)
	case utf8.RuneCountInString(in.Experience) > maxApplicationText:
		return in, validationf("Experience cannot be more than %d characters", maxApplicationText)
	}

	if in.Position == "" {
		in.Position = models.PositionMember
	}
	if !in.Position.Valid() {
		return in, validationf("invalid position %q", in.Position)
	}

	in.Skills = cleanList(in.Skills)
	in.Interests = cleanList(in.Interests)
	return in, nil
}

// cleanList trims every item and drops the blank ones
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SubmitApplication files the actor's council membership application.
// A student holds at most one; idx_application_student backs the pre-check.
func (s *Service) SubmitApplication(ctx context.Context, actor *database.User, in models.ApplicationInput) (*models.ApplicationView, error) {
	if actor == nil {
		return nil, forbidden("Authentication required")
	}

	valid, err := validateApplication(in)
	if err != nil {
		return nil, err
	}

	var created database.Application
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&database.Application{}).
			Where("student_id = ?", actor.ID).
			Count(&existing).Error; err != nil {
			return internal("failed to check existing application", err)
		}
		if existing > 0 {
			return conflict("You have already submitted an application")
		}

		created = database.Application{
			StudentID:  actor.ID,
			Motivation: valid.Motivation,
			Experience: valid.Experience,
			Skills:     valid.Skills,
			Position:   valid.Position,
			Interests:  valid.Interests,
			Status:     models.ApplicationPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			if isDuplicate(err) {
				return conflict("You have already submitted an application")
			}
			return internal("failed to save application", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to submit application", err)
	}

	s.logger.Info("Application submitted",
		zap.Uint("application_id", created.ID),
		zap.Uint("student_id", actor.ID),
		zap.String("position", string(created.Position)))

	return s.applicationView(ctx, created.ID)
}

// MyApplication returns the actor's application
func (s *Service) MyApplication(ctx context.Context, actor *database.User) (*models.ApplicationView, error) {
	if actor == nil {
		return nil, forbidden("Authentication required")
	}

	var app database.Application
	err := s.db.WithContext(ctx).Where("student_id = ?", actor.ID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoApplication
	}
	if err != nil {
		return nil, internal("Failed to fetch application", err)
	}
	return s.applicationView(ctx, app.ID)
}

// WithdrawApplication deletes the actor's application whatever its status.
// Membership granted by an earlier approval is kept.
func (s *Service) WithdrawApplication(ctx context.Context, actor *database.User) error {
	if actor == nil {
		return forbidden("Authentication required")
	}

	res := s.db.WithContext(ctx).Where("student_id = ?", actor.ID).Delete(&database.Application{})
	if res.Error != nil {
		return internal("Failed to delete application", res.Error)
	}
	if res.RowsAffected == 0 {
		return errNoApplication
	}

	s.logger.Info("Application withdrawn", zap.Uint("student_id", actor.ID))
	return nil
}

// ListApplications returns every application, newest first
func (s *Service) ListApplications(ctx context.Context, admin *database.User) ([]models.ApplicationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	db := s.db.WithContext(ctx)
	var apps []database.Application
	if err := db.Order("created_at DESC").Order("id DESC").Find(&apps).Error; err != nil {
		return nil, internal("Failed to fetch applications", err)
	}

	views, err := applicationViews(db, apps)
	if err != nil {
		return nil, internal("Failed to fetch applications", err)
	}
	return views, nil
}

// ReviewApplication resolves a pending application. Approval flags the student
// as a council member in the same transaction, which puts them on the roster for
// the next event's duty fan-out.
func (s *Service) ReviewApplication(ctx context.Context, admin *database.User, id uint, in models.ApplicationReview) (*models.ApplicationView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}
	if in.Status != models.ApplicationApproved && in.Status != models.ApplicationRejected {
		return nil, validationf("Invalid status. Must be approved or rejected.")
	}
	comments := strings.TrimSpace(in.ReviewComments)
	if utf8.RuneCountInString(comments) > maxApplicationText {
		return nil, validationf("Review comments cannot be more than %d characters", maxApplicationText)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app database.Application
		if err := tx.First(&app, id).Error; err != nil {
			return lookupErr("Application", err)
		}
		if app.Status != models.ApplicationPending {
			return conflict("Application has already been reviewed")
		}

		updates := map[string]any{
			"status":         in.Status,
			"reviewed_by_id": admin.ID,
		}
		if comments != "" {
			updates["review_comments"] = comments
		}
		res := tx.Model(&database.Application{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationPending).
			Updates(updates)
		if res.Error != nil {
			return internal("failed to update application", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Application has already been reviewed")
		}

		if in.Status != models.ApplicationApproved {
			return nil
		}
		res = tx.Model(&database.User{}).Where("id = ?", app.StudentID).Update("is_council_member", true)
		if res.Error != nil {
			return internal("failed to grant council membership", res.Error)
		}
		if res.RowsAffected == 0 {
			s.logger.Warn("Approved application references a missing student",
				zap.Uint("application_id", app.ID),
				zap.Uint("student_id", app.StudentID))
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to update application status", err)
	}

	s.logger.Info("Application reviewed",
		zap.Uint("application_id", id),
		zap.Uint("admin_id", admin.ID),
		zap.String("decision", string(in.Status)))

	return s.applicationView(ctx, id)
}

func (s *Service) applicationView(ctx context.Context, id uint) (*models.ApplicationView, error) {
	db := s.db.WithContext(ctx)

	var app database.Application
	if err := db.First(&app, id).Error; err != nil {
		return nil, lookupErr("Application", err)
	}

	views, err := applicationViews(db, []database.Application{app})
	if err != nil {
		return nil, internal("failed to load application references", err)
	}
	return &views[0], nil
}
