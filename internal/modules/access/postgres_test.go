package access

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

func TestPostgres_GetActivation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID, txID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM business_activations WHERE user_id=$1`)).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "fee", "transaction_id", "activated_at"}).
			AddRow(userID.String(), 500.0, txID.String(), time.Now()))

	a, err := NewPostgresRepository(db).Get(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, userID, a.UserID)
	require.NotNil(t, a.TransactionID)
	assert.Equal(t, txID, *a.TransactionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetActivation_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	_, err = repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotActivated)

	id := uuid.NewString()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM business_activations`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "fee", "transaction_id", "activated_at"}))
	_, err = repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotActivated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateActivation_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := &Activation{UserID: uuid.New(), ActivatedAt: time.Now()}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO business_activations`)).
		WithArgs(a.UserID, 0.0, nil, a.ActivatedAt).
		WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgresRepository(db).Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrAlreadyActivated)
	require.NoError(t, mock.ExpectationsWereMet())
}
