package order

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

var orderCols = []string{"id", "order_number", "customer_id", "business_profile_id", "status", "payment_method",
	"payment_status", "payment_ref", "subtotal", "discount", "delivery_fee", "total", "currency",
	"delivery_address", "notes", "created_at", "updated_at"}

func TestPostgres_CreateOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := &Order{
		ID: uuid.New(), OrderNumber: "ORD-20261015-AB12", CustomerID: uuid.New(), BusinessProfileID: uuid.New(),
		Status: StatusPlaced, PaymentMethod: PaymentCOD, PaymentStatus: PaymentPending,
		Subtotal: 220, Discount: 20, Total: 200, Currency: "ZMW",
	}
	item := &OrderItem{ID: uuid.New(), ProductID: uuid.New(), Name: "Rice", Quantity: 2, UnitPrice: 90, MRP: 100, LineTotal: 180}
	o.Items = []*OrderItem{item}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(item.ID, o.ID, item.ProductID, "Rice", "", 2, 90.0, 100.0, 180.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_status_events`)).
		WithArgs(o.ID, StatusPlaced, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresRepository(db).CreateOrder(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateOrder_RollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := &Order{ID: uuid.New(), Items: []*OrderItem{{ID: uuid.New()}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	err = NewPostgresRepository(db).CreateOrder(context.Background(), o)
	assert.ErrorContains(t, err, "insert order_item")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	guarded := regexp.QuoteMeta(`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND status = ANY($4)`)
	from := []Status{StatusPlaced}

	mock.ExpectBegin()
	mock.ExpectExec(guarded).
		WithArgs(StatusConfirmed, sqlmock.AnyArg(), id, pq.Array([]string{"PLACED"})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_status_events`)).
		WithArgs(id, StatusConfirmed, "picked by Mwila").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(guarded).
		WithArgs(StatusConfirmed, sqlmock.AnyArg(), id, pq.Array([]string{"PLACED"})).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.UpdateStatus(context.Background(), id.String(), StatusConfirmed, from, "picked by Mwila"))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), id.String(), StatusConfirmed, from, ""), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateStatus_CancelLosesRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND status = ANY($4)`)).
		WithArgs(StatusCancelled, sqlmock.AnyArg(), id, pq.Array([]string{"PLACED", "CONFIRMED"})).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = NewPostgresRepository(db).UpdateStatus(context.Background(), id.String(), StatusCancelled,
		sourcesOf(StatusCancelled), "cancelled twice")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListByBusiness_Active(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	business := uuid.NewString()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE business_profile_id=$1 AND status = ANY($2) ORDER BY created_at DESC`)).
		WithArgs(business, pq.Array([]string{"PLACED", "CONFIRMED", "PACKED", "OUT_FOR_DELIVERY"})).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(uuid.NewString(), "ORD-1", uuid.NewString(), business, "PACKED", "COD", "PENDING",
				nil, 220.0, 20.0, 0.0, 200.0, "ZMW", "Plot 12", nil, now, now))

	orders, err := NewPostgresRepository(db).ListByBusiness(context.Background(), business, ActiveStatuses)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, StatusPacked, orders[0].Status)
	assert.Equal(t, "Plot 12", orders[0].DeliveryAddress)
	assert.Empty(t, orders[0].PaymentRef)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Events(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.NewString()
	t0 := time.Now().Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_status_events`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status", "note", "created_at"}).
			AddRow("PLACED", nil, t0).
			AddRow("CONFIRMED", "on its way to packing", t0.Add(time.Minute)))

	events, err := NewPostgresRepository(db).Events(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, StatusConfirmed, events[1].Status)
	assert.Equal(t, "on its way to packing", events[1].Note)
	require.NoError(t, mock.ExpectationsWereMet())
}
