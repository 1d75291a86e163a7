package postgres_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/villa_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

var columns = []string{
	"id", "room_id", "user_id", "start_date", "end_date", "guests", "with_meal",
	"contact_name", "contact_email", "contact_phone", "currency", "price_per_night", "nights", "amount",
	"status", "hold_expires_at", "payment_order_id", "payment_reference", "payment_signature",
	"captured_amount", "needs_refund", "created_at", "updated_at", "confirmed_at",
}

var now = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func heldRow(id, roomID uuid.UUID) []driver.Value {
	return []driver.Value{
		id.String(), roomID.String(), uuid.NewString(),
		time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		int64(2), false,
		"Asha", "asha@example.com", "+91000", "INR", int64(1000), int64(2), int64(2000),
		"HELD", now.Add(15 * time.Minute), "order_1", nil, nil,
		int64(0), false, now, now, nil,
	}
}

func newMock(t *testing.T) (*postgres.ReservationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	return postgres.NewReservationRepository(db), mock
}

func TestGetByID_MapsRow(t *testing.T) {
	repo, mock := newMock(t)
	id, roomID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(heldRow(id, roomID)...))

	res, err := repo.GetByID(context.Background(), id)

	assert.NoError(t, err)
	if assert.NotNil(t, res) {
		assert.Equal(t, id, res.ID)
		assert.Equal(t, roomID, res.RoomID)
		assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 10}, res.Range.Start)
		assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 12}, res.Range.End)
		assert.Equal(t, domain.ReservationHeld, res.Status)
		assert.Equal(t, "order_1", res.PaymentOrderID)
		assert.Empty(t, res.PaymentReference)
		assert.Equal(t, "asha@example.com", res.Contact.Email)
		assert.NotNil(t, res.HoldExpiresAt)
		assert.Nil(t, res.ConfirmedAt)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByOrderID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE payment_order_id = $1")).
		WithArgs("order_missing").
		WillReturnRows(sqlmock.NewRows(columns))

	res, err := repo.GetByOrderID(context.Background(), "order_missing")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRoomLock_CheckAndInsert(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()
	hold := &domain.Reservation{
		ID:     uuid.New(),
		RoomID: roomID,
		UserID: uuid.New(),
		Range: domain.DateRange{
			Start: civil.Date{Year: 2025, Month: time.March, Day: 20},
			End:   civil.Date{Year: 2025, Month: time.March, Day: 22},
		},
		Status: domain.ReservationHeld,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))")).
		WithArgs(roomID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = 'EXPIRED'")).
		WithArgs(roomID, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE room_id = $1 AND status = ANY($2)")).
		WithArgs(roomID, sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(heldRow(uuid.New(), roomID)...))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		expired, err := tx.ExpireLapsedHolds(ctx, roomID, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, expired)

		blocking, err := tx.ListBlocking(ctx, roomID, now)
		assert.NoError(t, err)
		assert.Len(t, blocking, 1)

		return tx.Insert(ctx, hold)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRoomLock_RollsBackOnError(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		return domain.ErrSlotUnavailable
	})

	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ExclusionViolationIsSlotUnavailable(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})
	mock.ExpectRollback()

	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.Insert(ctx, &domain.Reservation{ID: uuid.New(), RoomID: roomID, Status: domain.ReservationHeld})
	})

	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()
	res := &domain.Reservation{ID: uuid.New(), RoomID: roomID, Status: domain.ReservationConfirmed}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $2")).
		WithArgs(res.ID, "CONFIRMED", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.Update(ctx, res)
	})

	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate(t *testing.T) {
	repo, mock := newMock(t)
	id, roomID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(heldRow(id, roomID)...))
	mock.ExpectCommit()

	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		res, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		assert.Equal(t, id, res.ID)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLapsedHolds(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'HELD' AND hold_expires_at <= $1 ORDER BY hold_expires_at LIMIT $2")).
		WithArgs(now, 50).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(heldRow(uuid.New(), roomID)...).
			AddRow(heldRow(uuid.New(), roomID)...))

	lapsed, err := repo.ListLapsedHolds(context.Background(), now, 50)

	assert.NoError(t, err)
	assert.Len(t, lapsed, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnconfirmedPaid(t *testing.T) {
	repo, mock := newMock(t)
	roomID := uuid.New()
	paidBefore := now.Add(-30 * time.Minute)

	row := heldRow(uuid.New(), roomID)
	row[14] = "PAID"
	row[15] = nil
	row[17] = "pay_1"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'PAID' AND updated_at <= $1 ORDER BY updated_at LIMIT $2")).
		WithArgs(paidBefore, 20).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

	paid, err := repo.ListUnconfirmedPaid(context.Background(), paidBefore, 20)

	assert.NoError(t, err)
	if assert.Len(t, paid, 1) {
		assert.Equal(t, domain.ReservationPaid, paid[0].Status)
		assert.Equal(t, "pay_1", paid[0].PaymentReference)
		assert.Nil(t, paid[0].HoldExpiresAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllBlocking_QueryError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = ANY($1)")).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListAllBlocking(context.Background(), now)

	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
