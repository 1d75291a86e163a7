package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/villa_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

var now = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func hold(roomID uuid.UUID, startDay, endDay int, ttl time.Duration) *domain.Reservation {
	room := domain.Room{ID: roomID, PricePerNight: 1000}
	stay := domain.DateRange{
		Start: civil.Date{Year: 2025, Month: time.March, Day: startDay},
		End:   civil.Date{Year: 2025, Month: time.March, Day: endDay},
	}
	quote, _ := domain.QuoteStay(room, stay, false)
	return domain.NewHold(room, uuid.New(), stay, 1, false, quote, "INR", ttl, now)
}

func insert(t *testing.T, repo *memory.ReservationRepository, res *domain.Reservation) {
	t.Helper()
	err := repo.WithRoomLock(context.Background(), res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.Insert(ctx, res)
	})
	assert.NoError(t, err)
}

func TestWithRoomLock_DiscardsWritesOnError(t *testing.T) {
	repo := memory.NewReservationRepository()
	res := hold(uuid.New(), 10, 12, time.Hour)

	err := repo.WithRoomLock(context.Background(), res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		if err := tx.Insert(ctx, res); err != nil {
			return err
		}
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	_, err = repo.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
}

func TestWithRoomLock_StagedWritesAreVisibleInsideTx(t *testing.T) {
	repo := memory.NewReservationRepository()
	res := hold(uuid.New(), 10, 12, time.Hour)

	err := repo.WithRoomLock(context.Background(), res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		assert.NoError(t, tx.Insert(ctx, res))

		got, err := tx.Get(ctx, res.ID)
		assert.NoError(t, err)
		assert.Equal(t, res.ID, got.ID)

		blocking, err := tx.ListBlocking(ctx, res.RoomID, now)
		assert.NoError(t, err)
		assert.Len(t, blocking, 1)
		return nil
	})
	assert.NoError(t, err)
}

func TestWithRoomLock_RejectsOtherRooms(t *testing.T) {
	repo := memory.NewReservationRepository()
	res := hold(uuid.New(), 10, 12, time.Hour)

	err := repo.WithRoomLock(context.Background(), uuid.New(), func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.Insert(ctx, res)
	})
	assert.Error(t, err)
}

func TestWithRoomLock_DuplicateOrderIsRejected(t *testing.T) {
	repo := memory.NewReservationRepository()
	roomID := uuid.New()

	a := hold(roomID, 10, 12, time.Hour)
	a.PaymentOrderID = "order_1"
	insert(t, repo, a)

	b := hold(roomID, 20, 22, time.Hour)
	b.PaymentOrderID = "order_1"
	err := repo.WithRoomLock(context.Background(), roomID, func(ctx context.Context, tx ports.ReservationTx) error {
		return tx.Insert(ctx, b)
	})
	assert.Error(t, err)

	got, err := repo.GetByOrderID(context.Background(), "order_1")
	assert.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestListings(t *testing.T) {
	repo := memory.NewReservationRepository()
	roomA, roomB := uuid.New(), uuid.New()

	short := hold(roomA, 1, 3, time.Minute)
	long := hold(roomA, 10, 12, time.Hour)
	other := hold(roomB, 10, 12, time.Hour)
	insert(t, repo, short)
	insert(t, repo, long)
	insert(t, repo, other)

	later := now.Add(5 * time.Minute)
	ctx := context.Background()

	blocking, err := repo.ListBlocking(ctx, roomA, later)
	assert.NoError(t, err)
	if assert.Len(t, blocking, 1) {
		assert.Equal(t, long.ID, blocking[0].ID)
	}

	all, err := repo.ListAllBlocking(ctx, later)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	lapsed, err := repo.ListLapsedHolds(ctx, later, 10)
	assert.NoError(t, err)
	if assert.Len(t, lapsed, 1) {
		assert.Equal(t, short.ID, lapsed[0].ID)
	}

	err = repo.WithRoomLock(ctx, roomA, func(ctx context.Context, tx ports.ReservationTx) error {
		n, err := tx.ExpireLapsedHolds(ctx, roomA, later)
		assert.Equal(t, 1, n)
		return err
	})
	assert.NoError(t, err)

	got, _ := repo.GetByID(ctx, short.ID)
	assert.Equal(t, domain.ReservationExpired, got.Status)
}

func TestListUnconfirmedPaid(t *testing.T) {
	repo := memory.NewReservationRepository()
	ctx := context.Background()
	roomID := uuid.New()

	paid := hold(roomID, 10, 12, time.Hour)
	assert.NoError(t, paid.MarkPaid("pay_1", domain.MinorUnits(paid.Amount), now))
	insert(t, repo, paid)
	insert(t, repo, hold(roomID, 20, 21, time.Hour))

	stale, err := repo.ListUnconfirmedPaid(ctx, now.Add(-time.Minute), 10)
	assert.NoError(t, err)
	assert.Empty(t, stale)

	stale, err = repo.ListUnconfirmedPaid(ctx, now, 10)
	assert.NoError(t, err)
	if assert.Len(t, stale, 1) {
		assert.Equal(t, paid.ID, stale[0].ID)
	}
}

func TestRoomCatalog(t *testing.T) {
	room := domain.Room{ID: uuid.New(), Name: "Loft"}
	catalog := memory.NewRoomCatalog(room)

	got, err := catalog.GetRoom(context.Background(), room.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Loft", got.Name)

	_, err = catalog.GetRoom(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	added := domain.Room{ID: uuid.New(), Name: "Cabin"}
	catalog.Put(added)
	got, err = catalog.GetRoom(context.Background(), added.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Cabin", got.Name)
}
