package council

import (
	"errors"
	"testing"

	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()

	in := models.UserInput{
		Name:            "Priya",
		Email:           "Priya@Campus.edu",
		Password:        "correct-horse",
		IsCouncilMember: true,
		StudentID:       "S9001",
	}
	created, err := f.svc.CreateUser(f.ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, created.Role)
	assert.Equal(t, "priya@campus.edu", created.Email)
	assert.True(t, created.IsCouncilMember)

	user, err := f.svc.Authenticate(f.ctx, "priya@campus.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = f.svc.Authenticate(f.ctx, "priya@campus.edu", "wrong")
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.svc.Authenticate(f.ctx, "nobody@campus.edu", "correct-horse")
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.svc.CreateUser(f.ctx, admin, in)
	assert.True(t, IsKind(err, KindConflict))

	_, err = f.svc.CreateUser(f.ctx, user, models.UserInput{Name: "X", Email: "x@campus.edu", Password: "secret1"})
	assert.True(t, IsKind(err, KindForbidden))
}

func TestCouncilMembers(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	first := f.member("Ana")
	f.student("Ben")
	second := f.member("Cam")

	members, err := f.svc.CouncilMembers(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, first.ID, members[0].ID)
	assert.Equal(t, second.ID, members[1].ID)

	_, err = f.svc.CouncilMembers(f.ctx, first)
	assert.True(t, IsKind(err, KindForbidden))
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	ana := f.student("Ana")

	got, err := f.svc.GetUser(f.ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.Email, got.Email)

	_, err = f.svc.GetUser(f.ctx, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := internal("failed to save", cause)

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save: disk full", err.Error())

	assert.Equal(t, KindInternal, KindOf(cause))
	assert.False(t, IsKind(nil, KindInternal))

	wrapped := passThrough("outer", notFound("Duty"))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, "Duty not found", wrapped.Error())

	assert.True(t, isDuplicate(errors.New("UNIQUE constraint failed: duties.event_id")))
	assert.False(t, isDuplicate(cause))
	assert.Equal(t, "conflict", KindConflict.String())
}

func TestAuthHashIsUsedForCreatedUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()

	created, err := f.svc.CreateUser(f.ctx, admin, models.UserInput{
		Name: "Ravi", Email: "ravi@campus.edu", Password: "pa55word", StudentID: "S1",
	})
	require.NoError(t, err)

	var row database.User
	require.NoError(t, f.db.First(&row, created.ID).Error)
	assert.NotEqual(t, "pa55word", row.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("pa55word", row.PasswordHash))
}
