package council

import (
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackedMember sets up an event with one council member and opens their participation record
func trackedMember(t *testing.T, f *fixture) (*database.User, *database.User, *models.ParticipationView) {
	t.Helper()
	admin := f.admin()
	member := f.member("Ana")

	res, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Fair"))
	require.NoError(t, err)

	var duty database.Duty
	require.NoError(t, f.db.Where("event_id = ? AND student_id = ?", res.Event.ID, member.ID).First(&duty).Error)

	record, err := f.svc.TrackParticipation(f.ctx, admin, duty.ID)
	require.NoError(t, err)
	return admin, member, record
}

func TestCheckInAndOut(t *testing.T) {
	t1 := time.Date(2024, 10, 1, 10, 2, 0, 0, time.UTC)
	t2 := time.Date(2024, 10, 1, 13, 58, 0, 0, time.UTC)
	f := newFixture(t, WithClock(sequenceClock(t1, t2)))
	_, member, record := trackedMember(t, f)

	assert.Equal(t, models.ParticipationAssigned, record.Status)
	assert.Nil(t, record.CheckInTime)
	require.NotNil(t, record.Duty)
	assert.Equal(t, models.DutyCoordinator, record.Duty.Role)

	in, err := f.svc.CheckIn(f.ctx, member, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationConfirmed, in.Status)
	require.NotNil(t, in.CheckInTime)
	assert.True(t, t1.Equal(*in.CheckInTime))

	_, err = f.svc.CheckIn(f.ctx, member, record.ID)
	assert.True(t, IsKind(err, KindConflict))

	out, err := f.svc.CheckOut(f.ctx, member, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationCompleted, out.Status)
	require.NotNil(t, out.CheckOutTime)
	assert.True(t, t2.Equal(*out.CheckOutTime))
	assert.True(t, out.CheckInTime.Before(*out.CheckOutTime))

	_, err = f.svc.CheckOut(f.ctx, member, record.ID)
	assert.True(t, IsKind(err, KindConflict))
}

func TestCheckOutBeforeCheckIn(t *testing.T) {
	f := newFixture(t)
	_, member, record := trackedMember(t, f)

	_, err := f.svc.CheckOut(f.ctx, member, record.ID)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "Must check in before checking out", err.Error())
}

func TestCheckInPermissions(t *testing.T) {
	f := newFixture(t)
	_, _, record := trackedMember(t, f)
	otherMember := f.member("Ben")
	outsider := f.student("Cal")

	_, err := f.svc.CheckIn(f.ctx, otherMember, record.ID)
	assert.True(t, IsKind(err, KindForbidden))

	_, err = f.svc.CheckIn(f.ctx, outsider, record.ID)
	assert.True(t, IsKind(err, KindForbidden))

	_, err = f.svc.CheckIn(f.ctx, otherMember, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestTrackParticipation(t *testing.T) {
	f := newFixture(t)
	admin, member, record := trackedMember(t, f)

	var duty database.Duty
	require.NoError(t, f.db.Where("student_id = ?", member.ID).First(&duty).Error)

	_, err := f.svc.TrackParticipation(f.ctx, admin, duty.ID)
	assert.True(t, IsKind(err, KindConflict))

	_, err = f.svc.TrackParticipation(f.ctx, member, duty.ID)
	assert.True(t, IsKind(err, KindForbidden))

	_, err = f.svc.TrackParticipation(f.ctx, admin, 999)
	assert.True(t, IsKind(err, KindNotFound))

	plain := f.student("Ben")
	plainDuty := f.duty(f.rawEvent(admin, "Picnic"), plain, admin, models.DutyVolunteer)
	_, err = f.svc.TrackParticipation(f.ctx, admin, plainDuty.ID)
	assert.True(t, IsKind(err, KindValidation))

	assert.Equal(t, int64(1), f.count(&database.Participation{}, "1 = 1"))
	assert.NotZero(t, record.ID)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	admin, member, record := trackedMember(t, f)

	_, err := f.svc.CheckIn(f.ctx, member, record.ID)
	require.NoError(t, err)
	_, err = f.svc.CheckOut(f.ctx, member, record.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkNoShow(f.ctx, member, record.ID)
	assert.True(t, IsKind(err, KindForbidden))

	v, err := f.svc.MarkNoShow(f.ctx, admin, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationNoShow, v.Status)
	assert.NotNil(t, v.CheckInTime)

	_, err = f.svc.MarkNoShow(f.ctx, admin, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestAdminUpdate(t *testing.T) {
	f := newFixture(t)
	admin, member, record := trackedMember(t, f)

	v, err := f.svc.AdminUpdate(f.ctx, admin, record.ID, models.ParticipationUpdate{
		PerformanceRating: models.Some(4),
		AdminNotes:        models.Some("Ran the desk well"),
	})
	require.NoError(t, err)
	require.NotNil(t, v.PerformanceRating)
	assert.Equal(t, 4, *v.PerformanceRating)
	assert.Equal(t, "Ran the desk well", v.AdminNotes)
	assert.Equal(t, models.ParticipationAssigned, v.Status)

	t.Run("absent fields are untouched", func(t *testing.T) {
		v, err := f.svc.AdminUpdate(f.ctx, admin, record.ID, models.ParticipationUpdate{
			Status: models.Some(models.ParticipationConfirmed),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ParticipationConfirmed, v.Status)
		require.NotNil(t, v.PerformanceRating)
		assert.Equal(t, 4, *v.PerformanceRating)
		assert.Equal(t, "Ran the desk well", v.AdminNotes)
	})

	t.Run("null clears", func(t *testing.T) {
		v, err := f.svc.AdminUpdate(f.ctx, admin, record.ID, models.ParticipationUpdate{
			PerformanceRating: models.Null[int](),
			AdminNotes:        models.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, v.PerformanceRating)
		assert.Empty(t, v.AdminNotes)
	})

	t.Run("invalid values", func(t *testing.T) {
		cases := []models.ParticipationUpdate{
			{PerformanceRating: models.Some(0)},
			{PerformanceRating: models.Some(6)},
			{Status: models.Null[models.ParticipationStatus]()},
			{Status: models.Some(models.ParticipationStatus("late"))},
			{AdminNotes: models.Some(strings.Repeat("n", 1001))},
		}
		for _, in := range cases {
			_, err := f.svc.AdminUpdate(f.ctx, admin, record.ID, in)
			assert.True(t, IsKind(err, KindValidation))
		}
	})

	t.Run("admin only", func(t *testing.T) {
		_, err := f.svc.AdminUpdate(f.ctx, member, record.ID, models.ParticipationUpdate{PerformanceRating: models.Some(5)})
		assert.True(t, IsKind(err, KindForbidden))
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := f.svc.AdminUpdate(f.ctx, admin, 999, models.ParticipationUpdate{PerformanceRating: models.Some(5)})
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()

	empty, err := f.svc.Stats(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalParticipation)
	assert.Equal(t, 0.0, empty.CompletionRate)
	assert.Len(t, empty.StatusBreakdown, len(models.ParticipationStatuses))

	for _, name := range []string{"Ana", "Ben", "Cam"} {
		f.member(name)
	}
	res, err := f.svc.CreateEvent(f.ctx, admin, eventInput("Fair"))
	require.NoError(t, err)

	var duties []database.Duty
	require.NoError(t, f.db.Where("event_id = ?", res.Event.ID).Order("id ASC").Find(&duties).Error)
	require.Len(t, duties, 3)

	statuses := []models.ParticipationStatus{models.ParticipationCompleted, models.ParticipationNoShow, models.ParticipationAssigned}
	for i, d := range duties {
		p, err := f.svc.TrackParticipation(f.ctx, admin, d.ID)
		require.NoError(t, err)
		require.NoError(t, f.db.Model(&database.Participation{}).Where("id = ?", p.ID).Update("status", statuses[i]).Error)
	}

	stats, err := f.svc.Stats(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalParticipation)
	assert.Equal(t, int64(1), stats.CompletedParticipation)
	assert.Equal(t, int64(1), stats.NoShowParticipation)
	assert.Equal(t, int64(0), stats.StatusBreakdown[models.ParticipationCancelled])
	assert.Equal(t, 33.33, stats.CompletionRate)

	_, err = f.svc.Stats(f.ctx, f.student("Dan"))
	assert.True(t, IsKind(err, KindForbidden))
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, completionRate(0, 0))
	assert.Equal(t, 100.0, completionRate(4, 4))
	assert.Equal(t, 66.67, completionRate(2, 3))
	assert.Equal(t, 14.29, completionRate(1, 7))
}

func TestListingParticipation(t *testing.T) {
	f := newFixture(t)
	admin, member, record := trackedMember(t, f)

	mine, err := f.svc.MyParticipation(f.ctx, member)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, record.ID, mine[0].ID)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Fair", mine[0].Event.Title)

	_, err = f.svc.MyParticipation(f.ctx, f.student("Ben"))
	assert.True(t, IsKind(err, KindForbidden))

	all, err := f.svc.ListParticipation(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.ListParticipation(f.ctx, member)
	assert.True(t, IsKind(err, KindForbidden))
}

func TestAdminNotesCountCharacters(t *testing.T) {
	f := newFixture(t)
	admin, _, record := trackedMember(t, f)

	v, err := f.svc.AdminUpdate(f.ctx, admin, record.ID, models.ParticipationUpdate{
		AdminNotes: models.Some(strings.Repeat("ñ", maxNotesLength)),
	})
	require.NoError(t, err)
	assert.Len(t, []rune(v.AdminNotes), maxNotesLength)

	_, err = f.svc.AdminUpdate(f.ctx, admin, record.ID, models.ParticipationUpdate{
		AdminNotes: models.Some(strings.Repeat("ñ", maxNotesLength+1)),
	})
	assert.True(t, IsKind(err, KindValidation))
}
