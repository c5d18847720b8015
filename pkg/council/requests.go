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

const maxReasonLength = 500

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", validationf("Please provide a reason for the request")
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return "", validationf("Reason cannot be more than %d characters", maxReasonLength)
	}
	return reason, nil
}

func validateRequest(in models.DutyRequestInput) (models.DutyRequestInput, error) {
	if !in.RequestType.Valid() {
		return in, validationf("invalid request type %q", in.RequestType)
	}
	if !in.CurrentRole.Valid() {
		return in, validationf("invalid current role %q", in.CurrentRole)
	}

	switch in.RequestType {
	case models.RequestRoleChange:
		if in.RequestedRole == "" {
			return in, validationf("Requested role is required for role change requests")
		}
		if in.RequestedRole == in.CurrentRole {
			return in, validationf("Current role and requested role cannot be the same")
		}
		if !in.RequestedRole.Valid() {
			return in, validationf("invalid requested role %q", in.RequestedRole)
		}
	case models.RequestCancellation:
		in.RequestedRole = ""
	}

	reason, err := validateReason(in.Reason)
	if err != nil {
		return in, err
	}
	in.Reason = reason
	return in, nil
}

// CreateRequest opens a change request against one of the requester's own duties.
// The pending check and the insert share a transaction; idx_duty_requests_one_pending
// rejects whichever concurrent insert loses.
func (s *Service) CreateRequest(ctx context.Context, requester *database.User, in models.DutyRequestInput) (*models.DutyRequestView, error) {
	var created database.DutyRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var duty database.Duty
		if err := tx.First(&duty, in.DutyID).Error; err != nil {
			return lookupErr("Duty", err)
		}

		if !guard.OwnsDuty(requester, &duty) {
			return forbidden("You can only request changes for your own duties")
		}

		valid, err := validateRequest(in)
		if err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&database.DutyRequest{}).
			Where("duty_id = ? AND status = ?", duty.ID, models.RequestPending).
			Count(&pending).Error; err != nil {
			return internal("failed to check pending requests", err)
		}
		if pending > 0 {
			return conflict("You already have a pending request for this duty")
		}

		created = database.DutyRequest{
			DutyID:        duty.ID,
			RequestType:   valid.RequestType,
			CurrentRole:   valid.CurrentRole,
			RequestedRole: valid.RequestedRole,
			Reason:        valid.Reason,
			Status:        models.RequestPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			if isDuplicate(err) {
				return conflict("You already have a pending request for this duty")
			}
			return internal("failed to create duty request", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to create duty request", err)
	}

	s.logger.Info("Duty request created",
		zap.Uint("request_id", created.ID),
		zap.Uint("duty_id", created.DutyID),
		zap.String("type", string(created.RequestType)))

	return s.requestView(ctx, created.ID)
}

// ReviewRequest resolves a pending request. Approving a role change rewrites the
// duty's role; approving a cancellation moves the duty to cancelled. Both writes
// commit together.
func (s *Service) ReviewRequest(ctx context.Context, admin *database.User, requestID uint, in models.ReviewInput) (*models.DutyRequestView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}
	if in.Status != models.RequestApproved && in.Status != models.RequestRejected {
		return nil, validationf("Invalid status. Must be approved or rejected.")
	}
	response := strings.TrimSpace(in.AdminResponse)
	if utf8.RuneCountInString(response) > maxReasonLength {
		return nil, validationf("Admin response cannot be more than %d characters", maxReasonLength)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req database.DutyRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return lookupErr("Duty request", err)
		}
		if req.Status != models.RequestPending {
			return conflict("Can only review pending requests")
		}

		now := s.now()
		res := tx.Model(&database.DutyRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RequestPending).
			Updates(map[string]any{
				"status":             in.Status,
				"admin_response":     response,
				"admin_responder_id": admin.ID,
				"response_date":      now,
			})
		if res.Error != nil {
			return internal("failed to update duty request", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Can only review pending requests")
		}

		if in.Status == models.RequestApproved {
			return s.applyApproval(tx, &req)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to review duty request", err)
	}

	s.logger.Info("Duty request reviewed",
		zap.Uint("request_id", requestID),
		zap.Uint("admin_id", admin.ID),
		zap.String("decision", string(in.Status)))

	return s.requestView(ctx, requestID)
}

// applyApproval carries an approved request through to its duty
func (s *Service) applyApproval(tx *gorm.DB, req *database.DutyRequest) error {
	var column string
	var value any
	switch req.RequestType {
	case models.RequestRoleChange:
		column, value = "role", req.RequestedRole
	case models.RequestCancellation:
		column, value = "status", models.DutyCancelled
	default:
		return nil
	}

	res := tx.Model(&database.Duty{}).Where("id = ?", req.DutyID).Update(column, value)
	if res.Error != nil {
		return internal("failed to apply approved request", res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Warn("Approved request references a missing duty",
			zap.Uint("request_id", req.ID),
			zap.Uint("duty_id", req.DutyID))
	}
	return nil
}

// loadOwnedPending loads a request and its duty and checks that requester owns it
// and that it is still pending
func loadOwnedPending(tx *gorm.DB, requester *database.User, requestID uint, action string) (*database.DutyRequest, error) {
	var req database.DutyRequest
	if err := tx.First(&req, requestID).Error; err != nil {
		return nil, lookupErr("Duty request", err)
	}

	duty, err := parentDuty(tx, &req)
	if err != nil {
		return nil, err
	}
	if !guard.OwnsRequestViaDuty(requester, &req, duty) {
		return nil, forbidden("Access denied")
	}

	if req.Status != models.RequestPending {
		return nil, conflict("Can only " + action + " pending requests")
	}
	return &req, nil
}

// parentDuty returns the duty req points at, or nil if it no longer exists
func parentDuty(tx *gorm.DB, req *database.DutyRequest) (*database.Duty, error) {
	var duty database.Duty
	err := tx.First(&duty, req.DutyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("failed to load duty", err)
	}
	return &duty, nil
}

// UpdateRequest rewrites the reason of a pending request owned by requester
func (s *Service) UpdateRequest(ctx context.Context, requester *database.User, requestID uint, reason string) (*models.DutyRequestView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadOwnedPending(tx, requester, requestID, "update")
		if err != nil {
			return err
		}

		cleaned, err := validateReason(reason)
		if err != nil {
			return err
		}

		res := tx.Model(&database.DutyRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RequestPending).
			Update("reason", cleaned)
		if res.Error != nil {
			return internal("failed to update duty request", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Can only update pending requests")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Failed to update duty request", err)
	}

	s.logger.Info("Duty request updated", zap.Uint("request_id", requestID))
	return s.requestView(ctx, requestID)
}

// CancelRequest withdraws a pending request owned by requester
func (s *Service) CancelRequest(ctx context.Context, requester *database.User, requestID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadOwnedPending(tx, requester, requestID, "cancel")
		if err != nil {
			return err
		}

		res := tx.Model(&database.DutyRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RequestPending).
			Update("status", models.RequestCancelled)
		if res.Error != nil {
			return internal("failed to cancel duty request", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Can only cancel pending requests")
		}
		return nil
	})
	if err != nil {
		return passThrough("Failed to cancel duty request", err)
	}

	s.logger.Info("Duty request cancelled", zap.Uint("request_id", requestID))
	return nil
}

// DeleteRequest removes a request outright, whatever its status
func (s *Service) DeleteRequest(ctx context.Context, actor *database.User, requestID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req database.DutyRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return lookupErr("Duty request", err)
		}

		duty, err := parentDuty(tx, &req)
		if err != nil {
			return err
		}
		if !guard.CanDeleteRequest(actor, &req, duty) {
			return forbidden("Access denied")
		}

		if err := tx.Delete(&database.DutyRequest{}, req.ID).Error; err != nil {
			return internal("failed to delete duty request", err)
		}
		return nil
	})
	if err != nil {
		return passThrough("Failed to delete duty request", err)
	}

	s.logger.Info("Duty request deleted", zap.Uint("request_id", requestID))
	return nil
}

// GetRequest returns one request to its owner or an admin
func (s *Service) GetRequest(ctx context.Context, actor *database.User, requestID uint) (*models.DutyRequestView, error) {
	db := s.db.WithContext(ctx)

	var req database.DutyRequest
	if err := db.First(&req, requestID).Error; err != nil {
		return nil, lookupErr("Duty request", err)
	}
	duty, err := parentDuty(db, &req)
	if err != nil {
		return nil, err
	}
	if !guard.CanViewRequest(actor, &req, duty) {
		return nil, forbidden("Access denied")
	}

	views, err := requestViews(db, []database.DutyRequest{req})
	if err != nil {
		return nil, internal("failed to load request references", err)
	}
	return &views[0], nil
}

// ListRequests returns every request, newest first
func (s *Service) ListRequests(ctx context.Context, admin *database.User) ([]models.DutyRequestView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}

	db := s.db.WithContext(ctx)
	var reqs []database.DutyRequest
	if err := db.Order("created_at DESC").Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, internal("failed to fetch duty requests", err)
	}

	views, err := requestViews(db, reqs)
	if err != nil {
		return nil, internal("failed to fetch duty requests", err)
	}
	return views, nil
}

// MyRequests returns the requests raised against the actor's own duties, newest first
func (s *Service) MyRequests(ctx context.Context, actor *database.User) ([]models.DutyRequestView, error) {
	if actor == nil {
		return nil, forbidden("Authentication required")
	}

	db := s.db.WithContext(ctx)
	owned := db.Model(&database.Duty{}).Select("id").Where("student_id = ?", actor.ID)

	var reqs []database.DutyRequest
	if err := db.Where("duty_id IN (?)", owned).
		Order("created_at DESC").Order("id DESC").
		Find(&reqs).Error; err != nil {
		return nil, internal("failed to fetch duty requests", err)
	}

	views, err := requestViews(db, reqs)
	if err != nil {
		return nil, internal("failed to fetch duty requests", err)
	}
	return views, nil
}

func (s *Service) requestView(ctx context.Context, requestID uint) (*models.DutyRequestView, error) {
	db := s.db.WithContext(ctx)

	var req database.DutyRequest
	if err := db.First(&req, requestID).Error; err != nil {
		return nil, lookupErr("Duty request", err)
	}

	views, err := requestViews(db, []database.DutyRequest{req})
	if err != nil {
		return nil, internal("failed to load request references", err)
	}
	return &views[0], nil
}
