package council

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/database/dbtest"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var epoch = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc *Service
	seq int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	db := dbtest.New(t)
	return &fixture{
		t:   t,
		ctx: context.Background(),
		db:  db,
		svc: NewService(db, zap.NewNop(), opts...),
	}
}

// user inserts a directory entry. Each call joins one minute after the previous one
// so roster order is the call order.
func (f *fixture) user(name string, role models.UserRole, council bool) *database.User {
	f.t.Helper()
	f.seq++
	u := &database.User{
		Name:            name,
		Email:           fmt.Sprintf("%s%d@campus.edu", strings.ToLower(name), f.seq),
		PasswordHash:    "unused",
		Role:            role,
		IsCouncilMember: council,
		StudentID:       fmt.Sprintf("S%04d", f.seq),
		CreatedAt:       epoch.Add(time.Duration(f.seq) * time.Minute),
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixture) admin() *database.User {
	return f.user("Admin", models.RoleAdmin, false)
}

func (f *fixture) member(name string) *database.User {
	return f.user(name, models.RoleStudent, true)
}

func (f *fixture) student(name string) *database.User {
	return f.user(name, models.RoleStudent, false)
}

func eventInput(title string) models.EventInput {
	return models.EventInput{
		Title:       title,
		Description: "Annual gathering in the main hall",
		Location:    "Main Hall",
		Date:        models.NewDate(epoch.AddDate(0, 1, 0)),
		StartTime:   "10:00",
		EndTime:     "14:00",
	}
}

// rawEvent inserts an event without assigning any duties
func (f *fixture) rawEvent(organizer *database.User, title string) *database.Event {
	f.t.Helper()
	in := eventInput(title)
	e := &database.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date.Time,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		OrganizerID: organizer.ID,
		Status:      models.EventUpcoming,
	}
	require.NoError(f.t, f.db.Create(e).Error)
	return e
}

// duty inserts a pending duty directly
func (f *fixture) duty(event *database.Event, student, assigner *database.User, role models.DutyRole) *database.Duty {
	f.t.Helper()
	d := &database.Duty{
		EventID:      event.ID,
		StudentID:    student.ID,
		Role:         role,
		Status:       models.DutyPending,
		AssignedByID: assigner.ID,
	}
	require.NoError(f.t, f.db.Create(d).Error)
	return d
}

func (f *fixture) reloadDuty(id uint) database.Duty {
	f.t.Helper()
	var d database.Duty
	require.NoError(f.t, f.db.First(&d, id).Error)
	return d
}

func (f *fixture) count(model any, query string, args ...any) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// sequenceClock returns each time in turn and then keeps returning the last one
func sequenceClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		now := times[i]
		if i < len(times)-1 {
			i++
		}
		return now
	}
}

func strPtr(s string) *string { return &s }

// interleave runs competitor once, inside the transaction of the next create or
// update against table, just before gorm issues the statement. It stands in for
// a concurrent writer that passed the same existence check a moment earlier.
// competitor receives a fresh session on the same connection and the statement's
// destination (the row being created, or the update map).
func (f *fixture) interleave(op, table string, competitor func(tx *gorm.DB, dest any)) {
	f.t.Helper()

	fired := false
	hook := func(db *gorm.DB) {
		if fired || db.Statement.Table != table {
			return
		}
		fired = true
		competitor(db.Session(&gorm.Session{NewDB: true}), db.Statement.Dest)
	}

	name := fmt.Sprintf("test:interleave_%s_%s", op, table)
	var err error
	switch op {
	case "create":
		err = f.db.Callback().Create().Before("gorm:create").Register(name, hook)
	case "update":
		err = f.db.Callback().Update().Before("gorm:update").Register(name, hook)
	default:
		f.t.Fatalf("interleave: unknown op %q", op)
	}
	require.NoError(f.t, err)

	f.t.Cleanup(func() {
		require.True(f.t, fired, "interleave on %s %s never ran", op, table)
	})
}
