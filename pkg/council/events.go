package council

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func validateEvent(e *database.Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return validationf("Please provide an event title")
	case utf8.RuneCountInString(e.Title) > 100:
		return validationf("Event title cannot be more than 100 characters")
	case strings.TrimSpace(e.Description) == "":
		return validationf("Please provide an event description")
	case utf8.RuneCountInString(e.Description) > 1000:
		return validationf("Event description cannot be more than 1000 characters")
	case strings.TrimSpace(e.Location) == "":
		return validationf("Please provide an event location")
	case e.Date.IsZero():
		return validationf("Please provide an event date")
	case e.StartTime == "":
		return validationf("Please provide a start time")
	case e.EndTime == "":
		return validationf("Please provide an end time")
	case !e.Status.Valid():
		return validationf("invalid event status %q", e.Status)
	}
	return nil
}

// CreateEvent stores a new event organized by actor and, in the same
// transaction, gives every council member a duty on it.
func (s *Service) CreateEvent(ctx context.Context, actor *database.User, in models.EventInput) (*EventResult, error) {
	if !guard.IsAdmin(actor) {
		return nil, forbidden("Not authorized as admin")
	}

	event := database.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Date:        in.Date.Time,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		OrganizerID: actor.ID,
		Status:      in.Status,
		Image:       in.Image,
	}
	if event.Status == "" {
		event.Status = models.EventUpcoming
	}
	if err := validateEvent(&event); err != nil {
		return nil, err
	}

	var duties []database.Duty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		duties, err = s.createEvent(tx, &event, actor.ID)
		return err
	})
	if err != nil {
		return nil, passThrough("Failed to create event", err)
	}

	s.logger.Info("Event created",
		zap.Uint("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Int("duties_assigned", len(duties)))

	view, err := s.eventView(ctx, &event)
	if err != nil {
		return nil, err
	}
	return &EventResult{Event: *view, DutiesAssigned: len(duties)}, nil
}

// createEvent inserts event and fans a duty out to every council member,
// recorded as assigned by assignerID
func (s *Service) createEvent(tx *gorm.DB, event *database.Event, assignerID uint) ([]database.Duty, error) {
	if err := tx.Create(event).Error; err != nil {
		return nil, internal("Failed to create event", err)
	}
	return s.autoAssign(tx, event.ID, assignerID)
}

// UpdateEvent overwrites the fields present in in. Status may be set to any
// known value; no ordering between statuses is enforced.
func (s *Service) UpdateEvent(ctx context.Context, actor *database.User, eventID uint, in models.EventUpdate) (*EventView, error) {
	if !guard.IsAdmin(actor) {
		return nil, forbidden("Not authorized as admin")
	}

	db := s.db.WithContext(ctx)
	var event database.Event
	if err := db.First(&event, eventID).Error; err != nil {
		return nil, lookupErr("Event", err)
	}

	if in.Title != nil {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		event.Description = strings.TrimSpace(*in.Description)
	}
	if in.Location != nil {
		event.Location = strings.TrimSpace(*in.Location)
	}
	if in.Date != nil {
		event.Date = in.Date.Time
	}
	if in.StartTime != nil {
		event.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		event.EndTime = *in.EndTime
	}
	if in.Image != nil {
		event.Image = *in.Image
	}
	if in.Status != nil {
		event.Status = *in.Status
	}
	if err := validateEvent(&event); err != nil {
		return nil, err
	}

	if err := db.Save(&event).Error; err != nil {
		return nil, internal("Failed to update event", err)
	}

	s.logger.Info("Event updated", zap.Uint("event_id", event.ID), zap.String("status", string(event.Status)))
	return s.eventView(ctx, &event)
}

// DeleteEvent removes an event together with its duties and returns how many duties went
func (s *Service) DeleteEvent(ctx context.Context, actor *database.User, eventID uint) (int64, error) {
	if !guard.IsAdmin(actor) {
		return 0, forbidden("Not authorized as admin")
	}

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&database.Event{}, eventID)
		if res.Error != nil {
			return internal("Failed to delete event", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("Event")
		}

		var err error
		removed, err = deleteDutiesForEvent(tx, eventID)
		return err
	})
	if err != nil {
		return 0, passThrough("Failed to delete event", err)
	}

	s.logger.Info("Event deleted", zap.Uint("event_id", eventID), zap.Int64("duties_removed", removed))
	return removed, nil
}

// GetEvent returns a single event
func (s *Service) GetEvent(ctx context.Context, eventID uint) (*EventView, error) {
	var event database.Event
	if err := s.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, lookupErr("Event", err)
	}
	return s.eventView(ctx, &event)
}

// ListEvents returns every event, soonest first
func (s *Service) ListEvents(ctx context.Context) ([]EventView, error) {
	db := s.db.WithContext(ctx)

	var events []database.Event
	if err := db.Order("date ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, internal("Failed to fetch events", err)
	}

	views, err := eventViews(db, events)
	if err != nil {
		return nil, internal("Failed to fetch events", err)
	}
	return views, nil
}

func (s *Service) eventView(ctx context.Context, event *database.Event) (*EventView, error) {
	views, err := eventViews(s.db.WithContext(ctx), []database.Event{*event})
	if err != nil {
		return nil, internal("failed to load event organizer", err)
	}
	return &views[0], nil
}
