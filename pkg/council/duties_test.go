package council

import (
	"testing"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventAssignsEveryCouncilMember(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()

	var members []*database.User
	for _, name := range []string{"Ana", "Ben", "Cam", "Dee", "Eli", "Fay", "Gus"} {
		members = append(members, f.member(name))
	}
	outsider := f.student("Hal")

	res, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Orientation"))
	require.NoError(t, err)
	assert.Equal(t, 7, res.DutiesAssigned)
	assert.Equal(t, models.EventUpcoming, res.Event.Status)
	require.NotNil(t, res.Event.Organizer)
	assert.Equal(t, admin.ID, res.Event.Organizer.ID)

	duties, err := f.svc.DutiesByEvent(f.ctx, admin, res.Event.ID)
	require.NoError(t, err)
	require.Len(t, duties, 7)

	roleOf := make(map[uint]models.DutyRole)
	for _, d := range duties {
		require.NotNil(t, d.Student)
		assert.Equal(t, models.DutyPending, d.Status)
		require.NotNil(t, d.AssignedBy)
		assert.Equal(t, admin.ID, d.AssignedBy.ID)
		roleOf[d.Student.ID] = d.Role
	}

	want := []models.DutyRole{
		models.DutyCoordinator,
		models.DutyVolunteer,
		models.DutyRegistration,
		models.DutyTechnical,
		models.DutyPublicity,
		models.DutyDecoration,
		models.DutyCoordinator,
	}
	for i, m := range members {
		assert.Equal(t, want[i], roleOf[m.ID], "member %s", m.Name)
	}
	assert.NotContains(t, roleOf, outsider.ID)
}

func TestCreateEventWithoutCouncil(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	f.student("Ana")

	res, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Quiet week"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.DutiesAssigned)
	assert.Equal(t, int64(0), f.count(&database.Duty{}, "event_id = ?", res.Event.ID))
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	student := f.student("Ana")

	_, err := f.svc.CreateEvent(f.ctx, student, eventInput("Nope"))
	assert.True(t, IsKind(err, KindForbidden))

	in := eventInput("")
	_, err = f.svc.CreateEvent(f.ctx, admin, in)
	assert.True(t, IsKind(err, KindValidation))

	in = eventInput("Bad status")
	in.Status = "postponed"
	_, err = f.svc.CreateEvent(f.ctx, admin, in)
	assert.True(t, IsKind(err, KindValidation))

	assert.Equal(t, int64(0), f.count(&database.Event{}, "1 = 1"))
}

func TestCreateDuty(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	student := f.student("Ana")
	event := f.rawEvent(admin, "Fair")

	duty, err := f.svc.CreateDuty(f.ctx, admin, models.DutyInput{EventID: event.ID, StudentID: student.ID})
	require.NoError(t, err)
	assert.Equal(t, models.DutyVolunteer, duty.Role)
	assert.Equal(t, models.DutyPending, duty.Status)
	require.NotNil(t, duty.Event)
	assert.Equal(t, event.ID, duty.Event.ID)

	t.Run("same pair conflicts", func(t *testing.T) {
		_, err := f.svc.CreateDuty(f.ctx, admin, models.DutyInput{EventID: event.ID, StudentID: student.ID, Role: models.DutyTechnical})
		assert.True(t, IsKind(err, KindConflict))
		assert.Equal(t, int64(1), f.count(&database.Duty{}, "event_id = ?", event.ID))
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.svc.CreateDuty(f.ctx, admin, models.DutyInput{EventID: 999, StudentID: student.ID})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("missing student", func(t *testing.T) {
		_, err := f.svc.CreateDuty(f.ctx, admin, models.DutyInput{EventID: event.ID, StudentID: 999})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("unknown role", func(t *testing.T) {
		other := f.student("Ben")
		_, err := f.svc.CreateDuty(f.ctx, admin, models.DutyInput{EventID: event.ID, StudentID: other.ID, Role: "juggler"})
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("students cannot assign", func(t *testing.T) {
		other := f.student("Cal")
		_, err := f.svc.CreateDuty(f.ctx, student, models.DutyInput{EventID: event.ID, StudentID: other.ID})
		assert.True(t, IsKind(err, KindForbidden))
	})
}

func TestTransitionDuty(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	owner := f.student("Ana")
	other := f.student("Ben")
	event := f.rawEvent(admin, "Fair")
	duty := f.duty(event, owner, admin, models.DutyVolunteer)

	t.Run("owner confirms with feedback", func(t *testing.T) {
		v, err := f.svc.TransitionDuty(f.ctx, owner, duty.ID, models.DutyConfirmed, strPtr("happy to help"))
		require.NoError(t, err)
		assert.Equal(t, models.DutyConfirmed, v.Status)
		assert.Equal(t, "happy to help", v.Feedback)
	})

	t.Run("feedback survives a status-only update", func(t *testing.T) {
		v, err := f.svc.TransitionDuty(f.ctx, admin, duty.ID, models.DutyCompleted, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DutyCompleted, v.Status)
		assert.Equal(t, "happy to help", v.Feedback)
	})

	t.Run("completed can go back to pending", func(t *testing.T) {
		v, err := f.svc.TransitionDuty(f.ctx, owner, duty.ID, models.DutyPending, nil)
		require.NoError(t, err)
		assert.Equal(t, models.DutyPending, v.Status)
	})

	t.Run("another student is forbidden", func(t *testing.T) {
		_, err := f.svc.TransitionDuty(f.ctx, other, duty.ID, models.DutyDeclined, nil)
		assert.True(t, IsKind(err, KindForbidden))
		assert.Equal(t, models.DutyPending, f.reloadDuty(duty.ID).Status)
	})

	t.Run("cancelled cannot be set directly", func(t *testing.T) {
		_, err := f.svc.TransitionDuty(f.ctx, admin, duty.ID, models.DutyCancelled, nil)
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("unknown duty", func(t *testing.T) {
		_, err := f.svc.TransitionDuty(f.ctx, admin, 999, models.DutyConfirmed, nil)
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestDeleteEventRemovesItsDuties(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	f.member("Ana")
	f.member("Ben")
	f.member("Cam")

	doomed, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Doomed"))
	require.NoError(t, err)
	kept, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Kept"))
	require.NoError(t, err)

	removed, err := f.svc.DeleteEvent(f.ctx, admin, doomed.Event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	assert.Equal(t, int64(0), f.count(&database.Duty{}, "event_id = ?", doomed.Event.ID))
	assert.Equal(t, int64(3), f.count(&database.Duty{}, "event_id = ?", kept.Event.ID))

	_, err = f.svc.GetEvent(f.ctx, doomed.Event.ID)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = f.svc.DeleteEvent(f.ctx, admin, doomed.Event.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCleanupOrphans(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	ana := f.student("Ana")
	ben := f.student("Ben")

	gone := f.rawEvent(admin, "Gone")
	live := f.rawEvent(admin, "Live")

	f.duty(gone, ana, admin, models.DutyVolunteer)
	f.duty(live, ana, admin, models.DutyVolunteer)
	f.duty(live, ben, admin, models.DutyTechnical)

	require.NoError(t, f.db.Delete(&database.Event{}, gone.ID).Error)
	require.NoError(t, f.db.Delete(&database.User{}, ben.ID).Error)

	listed, err := f.svc.ListDuties(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	mine, err := f.svc.MyDuties(f.ctx, ana)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, live.ID, mine[0].Event.ID)

	byEvent, err := f.svc.DutiesByEvent(f.ctx, admin, live.ID)
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	assert.Nil(t, byEvent[1].Student)

	removed, err := f.svc.CleanupOrphans(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, int64(1), f.count(&database.Duty{}, "1 = 1"))

	removed, err = f.svc.CleanupOrphans(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	_, err = f.svc.CleanupOrphans(f.ctx, ana)
	assert.True(t, IsKind(err, KindForbidden))
}

func TestDeleteDuty(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	ana := f.student("Ana")
	duty := f.duty(f.rawEvent(admin, "Fair"), ana, admin, models.DutyVolunteer)

	assert.True(t, IsKind(f.svc.DeleteDuty(f.ctx, ana, duty.ID), KindForbidden))
	require.NoError(t, f.svc.DeleteDuty(f.ctx, admin, duty.ID))
	assert.True(t, IsKind(f.svc.DeleteDuty(f.ctx, admin, duty.ID), KindNotFound))
}

func TestUpdateEvent(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	res, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Fair"))
	require.NoError(t, err)

	status := models.EventCompleted
	title := "Spring Fair"
	v, err := f.svc.UpdateEvent(f.ctx, admin, res.Event.ID, models.EventUpdate{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Spring Fair", v.Title)
	assert.Equal(t, models.EventCompleted, v.Status)
	assert.Equal(t, "Main Hall", v.Location)

	bad := models.EventStatus("paused")
	_, err = f.svc.UpdateEvent(f.ctx, admin, res.Event.ID, models.EventUpdate{Status: &bad})
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.svc.UpdateEvent(f.ctx, admin, 999, models.EventUpdate{Title: &title})
	assert.True(t, IsKind(err, KindNotFound))

	events, err := f.svc.ListEvents(f.ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Spring Fair", events[0].Title)
}
