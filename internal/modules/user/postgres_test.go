package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "phone", "password_hash", "full_name", "roles", "status", "created_at", "updated_at"}

func TestPostgres_CreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	u := &User{ID: uuid.New(), Email: "a@b.co", Roles: []string{RoleUser}, Status: StatusActive}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(u.ID, u.Email, u.Phone, u.PasswordHash, u.FullName, sqlmock.AnyArg(), u.Status).
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.CreateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("a@b.co").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "a@b.co", nil, "hash", "Asha", "{ROLE_USER,ROLE_BUSINESS}", string(StatusActive), now, now))

	u, err := repo.GetUserByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, []string{RoleUser, RoleBusiness}, u.Roles)
	assert.Empty(t, u.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetUserByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)

	_, err = repo.GetUserByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = repo.GetUserByID(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRoles_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET roles`)).
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateRoles(context.Background(), "u1", []string{RoleUser})
	assert.ErrorIs(t, err, ErrNotFound)
}
