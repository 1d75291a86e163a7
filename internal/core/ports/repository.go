package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/villa_booking/internal/core/domain"
)

// RoomCatalog is the catalog collaborator. GetRoom returns
// domain.ErrRoomNotFound for unknown ids.
type RoomCatalog interface {
	GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
}

// ReservationStore persists reservations. Every check-then-write must go
// through WithRoomLock, which runs fn as one atomic unit while holding the
// room's exclusion. If fn returns an error nothing it wrote is kept.
type ReservationStore interface {
	WithRoomLock(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, tx ReservationTx) error) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error)
	ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error)
	ListAllBlocking(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	ListLapsedHolds(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error)
	// ListUnconfirmedPaid returns PAID reservations last updated at or
	// before paidBefore.
	ListUnconfirmedPaid(ctx context.Context, paidBefore time.Time, limit int) ([]domain.Reservation, error)
}

// ReservationTx is the view of the store inside a room's exclusion.
type ReservationTx interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error)
	ExpireLapsedHolds(ctx context.Context, roomID uuid.UUID, now time.Time) (int, error)
	Insert(ctx context.Context, reservation *domain.Reservation) error
	Update(ctx context.Context, reservation *domain.Reservation) error
}
