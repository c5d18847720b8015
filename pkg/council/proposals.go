package council

import (
	"context"
	"strings"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notSpecified = "Not specified"

// proposalEvent is the event p turns into when approved. The proposer organizes it.
func proposalEvent(p *database.EventProposal) database.Event {
	return database.Event{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Date:        p.ProposedDate,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		OrganizerID: p.ProposerID,
		Status:      models.EventUpcoming,
	}
}

// normalizeProposal trims the free-text fields, fills the defaults and checks
// that p would make a valid event
func normalizeProposal(p *database.EventProposal) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Location = strings.TrimSpace(p.Location)
	p.Budget = strings.TrimSpace(p.Budget)
	p.Resources = strings.TrimSpace(p.Resources)
	if p.Budget == "" {
		p.Budget = notSpecified
	}
	if p.Resources == "" {
		p.Resources = notSpecified
	}

	event := proposalEvent(p)
	if err := validateEvent(&event); err != nil {
		return err
	}
	if p.ExpectedAttendees < 1 {
		return validationf("Please provide expected number of attendees")
	}
	return nil
}

// ProposeEvent records a council member's proposal for a new event
func (s *Service) ProposeEvent(ctx context.Context, actor *database.User, in models.ProposalInput) (*models.ProposalView, error) {
	if !guard.IsCouncilMember(actor) {
		return nil, forbidden("Only council members can propose events")
	}

	p := database.EventProposal{
		Title:             in.Title,
		Description:       in.Description,
		Location:          in.Location,
		ProposedDate:      in.ProposedDate.Time,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		ExpectedAttendees: in.ExpectedAttendees,
		Budget:            in.Budget,
		Resources:         in.Resources,
		ProposerID:        actor.ID,
		Status:            models.ProposalPending,
	}
	if err := normalizeProposal(&p); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, internal("Error creating event proposal", err)
	}

	s.logger.Info("Event proposed",
		zap.Uint("proposal_id", p.ID),
		zap.Uint("proposer_id", actor.ID),
		zap.String("title", p.Title))

	return s.proposalView(ctx, p.ID)
}

// MyProposals returns the acting council member's proposals, newest first
func (s *Service) MyProposals(ctx context.Context, actor *database.User) ([]models.ProposalView, error) {
	if !guard.IsCouncilMember(actor) {
		return nil, forbidden("Only council members can view their proposals")
	}
	return s.listProposals(ctx, "proposer_id = ?", actor.ID)
}

// ListProposals returns every proposal, newest first
func (s *Service) ListProposals(ctx context.Context, admin *database.User) ([]models.ProposalView, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}
	return s.listProposals(ctx, "1 = 1")
}

func (s *Service) listProposals(ctx context.Context, query string, args ...any) ([]models.ProposalView, error) {
	db := s.db.WithContext(ctx)

	var proposals []database.EventProposal
	if err := db.Where(query, args...).
		Order("created_at DESC").Order("id DESC").
		Find(&proposals).Error; err != nil {
		return nil, internal("Error fetching event proposals", err)
	}

	views, err := proposalViews(db, proposals)
	if err != nil {
		return nil, internal("Error fetching event proposals", err)
	}
	return views, nil
}

// GetProposal returns one proposal to its proposer or an admin
func (s *Service) GetProposal(ctx context.Context, actor *database.User, id uint) (*models.ProposalView, error) {
	var p database.EventProposal
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr("Event proposal", err)
	}
	if !guard.CanViewProposal(actor, &p) {
		return nil, forbidden("Access denied")
	}
	return s.proposalView(ctx, p.ID)
}

// UpdateProposal lets the proposer edit a proposal that is still pending
func (s *Service) UpdateProposal(ctx context.Context, actor *database.User, id uint, in models.ProposalUpdate) (*models.ProposalView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p database.EventProposal
		if err := tx.First(&p, id).Error; err != nil {
			return lookupErr("Event proposal", err)
		}
		if !guard.OwnsProposal(actor, &p) {
			return forbidden("You can only edit your own proposals")
		}
		if p.Status != models.ProposalPending {
			return conflict("Cannot edit proposals that are not pending")
		}

		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.ProposedDate != nil {
			p.ProposedDate = in.ProposedDate.Time
		}
		if in.StartTime != nil {
			p.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			p.EndTime = *in.EndTime
		}
		if in.ExpectedAttendees != nil {
			p.ExpectedAttendees = *in.ExpectedAttendees
		}
		if in.Budget != nil {
			p.Budget = *in.Budget
		}
		if in.Resources != nil {
			p.Resources = *in.Resources
		}
		if err := normalizeProposal(&p); err != nil {
			return err
		}

		res := tx.Model(&database.EventProposal{}).
			Where("id = ? AND status = ?", p.ID, models.ProposalPending).
			Updates(map[string]any{
				"title":              p.Title,
				"description":        p.Description,
				"location":           p.Location,
				"proposed_date":      p.ProposedDate,
				"start_time":         p.StartTime,
				"end_time":           p.EndTime,
				"expected_attendees": p.ExpectedAttendees,
				"budget":             p.Budget,
				"resources":          p.Resources,
			})
		if res.Error != nil {
			return internal("Error updating event proposal", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Cannot edit proposals that are not pending")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Error updating event proposal", err)
	}

	s.logger.Info("Event proposal updated", zap.Uint("proposal_id", id))
	return s.proposalView(ctx, id)
}

// DeleteProposal lets the proposer withdraw a proposal that is still pending
func (s *Service) DeleteProposal(ctx context.Context, actor *database.User, id uint) error {
	db := s.db.WithContext(ctx)

	var p database.EventProposal
	if err := db.First(&p, id).Error; err != nil {
		return lookupErr("Event proposal", err)
	}
	if !guard.OwnsProposal(actor, &p) {
		return forbidden("You can only delete your own proposals")
	}
	if p.Status != models.ProposalPending {
		return conflict("Cannot delete proposals that are not pending")
	}

	res := db.Where("id = ? AND status = ?", p.ID, models.ProposalPending).Delete(&database.EventProposal{})
	if res.Error != nil {
		return internal("Error deleting event proposal", res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict("Cannot delete proposals that are not pending")
	}

	s.logger.Info("Event proposal deleted", zap.Uint("proposal_id", id))
	return nil
}

// ReviewProposal records an admin decision on an open proposal. Approving it
// creates the event, fans duties out to the council and links the event to the
// proposal, all in one transaction. Approved and rejected proposals are final.
func (s *Service) ReviewProposal(ctx context.Context, admin *database.User, id uint, in models.ProposalReview) (*ProposalResult, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Access denied. Admin only.")
	}
	switch in.Status {
	case models.ProposalApproved, models.ProposalRejected, models.ProposalUnderReview:
	default:
		return nil, validationf("Invalid status. Must be approved, rejected or under_review.")
	}

	var duties []database.Duty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p database.EventProposal
		if err := tx.First(&p, id).Error; err != nil {
			return lookupErr("Event proposal", err)
		}
		if !p.Status.Open() {
			return conflict("Event proposal has already been reviewed")
		}

		updates := map[string]any{
			"status":              in.Status,
			"admin_feedback":      strings.TrimSpace(in.AdminFeedback),
			"admin_response_date": s.now(),
			"admin_responder_id":  admin.ID,
		}
		if reason := strings.TrimSpace(in.RejectionReason); in.Status == models.ProposalRejected && reason != "" {
			updates["rejection_reason"] = reason
		}
		res := tx.Model(&database.EventProposal{}).
			Where("id = ? AND status IN (?, ?)", p.ID, models.ProposalPending, models.ProposalUnderReview).
			Updates(updates)
		if res.Error != nil {
			return internal("Error reviewing event proposal", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflict("Event proposal has already been reviewed")
		}

		if in.Status != models.ProposalApproved {
			return nil
		}

		event := proposalEvent(&p)
		if err := validateEvent(&event); err != nil {
			return err
		}
		var err error
		if duties, err = s.createEvent(tx, &event, admin.ID); err != nil {
			return err
		}
		if err := tx.Model(&database.EventProposal{}).Where("id = ?", p.ID).Update("event_id", event.ID).Error; err != nil {
			return internal("failed to link proposal to its event", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Error reviewing event proposal", err)
	}

	s.logger.Info("Event proposal reviewed",
		zap.Uint("proposal_id", id),
		zap.Uint("admin_id", admin.ID),
		zap.String("decision", string(in.Status)),
		zap.Int("duties_assigned", len(duties)))

	view, err := s.proposalView(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProposalResult{Proposal: *view, DutiesAssigned: len(duties)}, nil
}

func (s *Service) proposalView(ctx context.Context, id uint) (*models.ProposalView, error) {
	db := s.db.WithContext(ctx)

	var p database.EventProposal
	if err := db.First(&p, id).Error; err != nil {
		return nil, lookupErr("Event proposal", err)
	}

	views, err := proposalViews(db, []database.EventProposal{p})
	if err != nil {
		return nil, internal("failed to load proposal references", err)
	}
	return &views[0], nil
}
