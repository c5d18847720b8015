package council

import (
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/models"
	"gorm.io/gorm"
)

// EventView is an event with its organizer resolved
type EventView struct {
	database.Event
	Organizer *models.UserSummary `json:"organizer"`
}

// EventResult is returned by CreateEvent
type EventResult struct {
	Event          EventView `json:"event"`
	DutiesAssigned int       `json:"dutiesAssigned"`
}

// ProposalResult is returned by ReviewProposal. DutiesAssigned counts the duties
// fanned out to the council when the review approved the proposal.
type ProposalResult struct {
	Proposal       models.ProposalView `json:"proposal"`
	DutiesAssigned int                 `json:"dutiesAssigned"`
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// loadByID fetches the rows of T whose primary key is in ids, keyed by id.
// Ids with no row are simply absent from the result.
func loadByID[T any](db *gorm.DB, ids []uint, key func(*T) uint) (map[uint]*T, error) {
	out := make(map[uint]*T)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	var rows []T
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[key(&rows[i])] = &rows[i]
	}
	return out, nil
}

func userKey(u *database.User) uint   { return u.ID }
func eventKey(e *database.Event) uint { return e.ID }
func dutyKey(d *database.Duty) uint   { return d.ID }

func userSummary(u *database.User) *models.UserSummary {
	if u == nil {
		return nil
	}
	return &models.UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		IsCouncilMember: u.IsCouncilMember,
		StudentID:       u.StudentID,
		Department:      u.Department,
		Year:            u.Year,
	}
}

func eventSummary(e *database.Event) *models.EventSummary {
	if e == nil {
		return nil
	}
	return &models.EventSummary{
		ID:        e.ID,
		Title:     e.Title,
		Date:      e.Date,
		Location:  e.Location,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Status:    e.Status,
	}
}

func eventViews(db *gorm.DB, events []database.Event) ([]EventView, error) {
	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.OrganizerID)
	}
	users, err := loadByID(db, ids, userKey)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{Event: e, Organizer: userSummary(users[e.OrganizerID])})
	}
	return views, nil
}

func dutyViews(db *gorm.DB, duties []database.Duty) ([]models.DutyView, error) {
	userIDs := make([]uint, 0, 2*len(duties))
	eventIDs := make([]uint, 0, len(duties))
	for _, d := range duties {
		userIDs = append(userIDs, d.StudentID, d.AssignedByID)
		eventIDs = append(eventIDs, d.EventID)
	}

	users, err := loadByID(db, userIDs, userKey)
	if err != nil {
		return nil, err
	}
	events, err := loadByID(db, eventIDs, eventKey)
	if err != nil {
		return nil, err
	}

	views := make([]models.DutyView, 0, len(duties))
	for _, d := range duties {
		views = append(views, models.DutyView{
			ID:         d.ID,
			Event:      eventSummary(events[d.EventID]),
			Student:    userSummary(users[d.StudentID]),
			Role:       d.Role,
			Status:     d.Status,
			AssignedBy: userSummary(users[d.AssignedByID]),
			Feedback:   d.Feedback,
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		})
	}
	return views, nil
}

func requestViews(db *gorm.DB, requests []database.DutyRequest) ([]models.DutyRequestView, error) {
	dutyIDs := make([]uint, 0, len(requests))
	responderIDs := make([]uint, 0, len(requests))
	for _, r := range requests {
		dutyIDs = append(dutyIDs, r.DutyID)
		if r.AdminResponderID != nil {
			responderIDs = append(responderIDs, *r.AdminResponderID)
		}
	}

	duties, err := loadByID(db, dutyIDs, dutyKey)
	if err != nil {
		return nil, err
	}
	found := make([]database.Duty, 0, len(duties))
	for _, d := range duties {
		found = append(found, *d)
	}
	dv, err := dutyViews(db, found)
	if err != nil {
		return nil, err
	}
	byDuty := make(map[uint]*models.DutyView, len(dv))
	for i := range dv {
		byDuty[dv[i].ID] = &dv[i]
	}

	responders, err := loadByID(db, responderIDs, userKey)
	if err != nil {
		return nil, err
	}

	views := make([]models.DutyRequestView, 0, len(requests))
	for _, r := range requests {
		v := models.DutyRequestView{
			ID:            r.ID,
			Duty:          byDuty[r.DutyID],
			RequestType:   r.RequestType,
			CurrentRole:   r.CurrentRole,
			RequestedRole: r.RequestedRole,
			Reason:        r.Reason,
			Status:        r.Status,
			AdminResponse: r.AdminResponse,
			ResponseDate:  r.ResponseDate,
			CreatedAt:     r.CreatedAt,
		}
		if r.AdminResponderID != nil {
			v.AdminResponder = userSummary(responders[*r.AdminResponderID])
		}
		views = append(views, v)
	}
	return views, nil
}

func participationViews(db *gorm.DB, records []database.Participation) ([]models.ParticipationView, error) {
	userIDs := make([]uint, 0, len(records))
	eventIDs := make([]uint, 0, len(records))
	dutyIDs := make([]uint, 0, len(records))
	for _, p := range records {
		userIDs = append(userIDs, p.CouncilMemberID)
		eventIDs = append(eventIDs, p.EventID)
		dutyIDs = append(dutyIDs, p.DutyID)
	}

	users, err := loadByID(db, userIDs, userKey)
	if err != nil {
		return nil, err
	}
	events, err := loadByID(db, eventIDs, eventKey)
	if err != nil {
		return nil, err
	}
	duties, err := loadByID(db, dutyIDs, dutyKey)
	if err != nil {
		return nil, err
	}

	views := make([]models.ParticipationView, 0, len(records))
	for _, p := range records {
		v := models.ParticipationView{
			ID:                p.ID,
			CouncilMember:     userSummary(users[p.CouncilMemberID]),
			Event:             eventSummary(events[p.EventID]),
			Status:            p.Status,
			CheckInTime:       p.CheckInTime,
			CheckOutTime:      p.CheckOutTime,
			PerformanceRating: p.PerformanceRating,
			Feedback:          p.Feedback,
			AdminNotes:        p.AdminNotes,
		}
		if d := duties[p.DutyID]; d != nil {
			v.Duty = &models.DutySummary{ID: d.ID, Role: d.Role}
		}
		views = append(views, v)
	}
	return views, nil
}

func applicationViews(db *gorm.DB, apps []database.Application) ([]models.ApplicationView, error) {
	userIDs := make([]uint, 0, 2*len(apps))
	for _, a := range apps {
		userIDs = append(userIDs, a.StudentID)
		if a.ReviewedByID != nil {
			userIDs = append(userIDs, *a.ReviewedByID)
		}
	}
	users, err := loadByID(db, userIDs, userKey)
	if err != nil {
		return nil, err
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for _, a := range apps {
		v := models.ApplicationView{
			ID:             a.ID,
			Student:        userSummary(users[a.StudentID]),
			Motivation:     a.Motivation,
			Experience:     a.Experience,
			Skills:         nonNil(a.Skills),
			Position:       a.Position,
			Interests:      nonNil(a.Interests),
			Status:         a.Status,
			ReviewComments: a.ReviewComments,
			CreatedAt:      a.CreatedAt,
		}
		if a.ReviewedByID != nil {
			v.ReviewedBy = userSummary(users[*a.ReviewedByID])
		}
		views = append(views, v)
	}
	return views, nil
}

func proposalViews(db *gorm.DB, proposals []database.EventProposal) ([]models.ProposalView, error) {
	userIDs := make([]uint, 0, 2*len(proposals))
	eventIDs := make([]uint, 0, len(proposals))
	for _, p := range proposals {
		userIDs = append(userIDs, p.ProposerID)
		if p.AdminResponderID != nil {
			userIDs = append(userIDs, *p.AdminResponderID)
		}
		if p.EventID != nil {
			eventIDs = append(eventIDs, *p.EventID)
		}
	}

	users, err := loadByID(db, userIDs, userKey)
	if err != nil {
		return nil, err
	}
	events, err := loadByID(db, eventIDs, eventKey)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		v := models.ProposalView{
			ID:                p.ID,
			Title:             p.Title,
			Description:       p.Description,
			Location:          p.Location,
			ProposedDate:      p.ProposedDate,
			StartTime:         p.StartTime,
			EndTime:           p.EndTime,
			ExpectedAttendees: p.ExpectedAttendees,
			Budget:            p.Budget,
			Resources:         p.Resources,
			Proposer:          userSummary(users[p.ProposerID]),
			Status:            p.Status,
			AdminFeedback:     p.AdminFeedback,
			AdminResponseDate: p.AdminResponseDate,
			RejectionReason:   p.RejectionReason,
			CreatedAt:         p.CreatedAt,
		}
		if p.AdminResponderID != nil {
			v.AdminResponder = userSummary(users[*p.AdminResponderID])
		}
		if p.EventID != nil {
			v.Event = eventSummary(events[*p.EventID])
		}
		views = append(views, v)
	}
	return views, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
