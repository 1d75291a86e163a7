package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

// ReservationRepository keeps reservations in process memory. Each room has
// its own mutex, and writes made inside WithRoomLock are staged and only
// applied when the callback succeeds.
type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]domain.Reservation
	byOrder      map[string]uuid.UUID

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		reservations: make(map[uuid.UUID]domain.Reservation),
		byOrder:      make(map[string]uuid.UUID),
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *ReservationRepository) roomLock(roomID uuid.UUID) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	l, ok := r.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomID] = l
	}
	return l
}

func (r *ReservationRepository) WithRoomLock(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, tx ports.ReservationTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := r.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	tx := &reservationTx{repo: r, roomID: roomID, staged: make(map[uuid.UUID]domain.Reservation)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	return r.apply(tx)
}

func (r *ReservationRepository) apply(tx *reservationTx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range tx.staged {
		if res.PaymentOrderID != "" {
			if owner, ok := r.byOrder[res.PaymentOrderID]; ok && owner != res.ID {
				return fmt.Errorf("payment order %s already belongs to reservation %s", res.PaymentOrderID, owner)
			}
		}
	}

	for id, res := range tx.staged {
		r.reservations[id] = res
		if res.PaymentOrderID != "" {
			r.byOrder[res.PaymentOrderID] = id
		}
	}

	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &res, nil
}

func (r *ReservationRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	res := r.reservations[id]
	return &res, nil
}

func (r *ReservationRepository) ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error) {
	return r.filter(func(res *domain.Reservation) bool {
		return res.RoomID == roomID && res.IsBlocking(now)
	}, 0), nil
}

func (r *ReservationRepository) ListAllBlocking(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	return r.filter(func(res *domain.Reservation) bool {
		return res.IsBlocking(now)
	}, 0), nil
}

func (r *ReservationRepository) ListLapsedHolds(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	return r.filter(func(res *domain.Reservation) bool {
		return res.HoldLapsed(now)
	}, limit), nil
}

func (r *ReservationRepository) ListUnconfirmedPaid(ctx context.Context, paidBefore time.Time, limit int) ([]domain.Reservation, error) {
	return r.filter(func(res *domain.Reservation) bool {
		return res.Status == domain.ReservationPaid && !res.UpdatedAt.After(paidBefore)
	}, limit), nil
}

func (r *ReservationRepository) filter(keep func(*domain.Reservation) bool, limit int) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reservation, 0)
	for _, res := range r.reservations {
		if keep(&res) {
			out = append(out, res)
		}
	}

	slices.SortFunc(out, func(a, b domain.Reservation) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type reservationTx struct {
	repo   *ReservationRepository
	roomID uuid.UUID
	staged map[uuid.UUID]domain.Reservation
}

func (tx *reservationTx) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	if res, ok := tx.staged[id]; ok {
		return &res, nil
	}
	return tx.repo.GetByID(ctx, id)
}

func (tx *reservationTx) ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error) {
	if err := tx.checkRoom(roomID); err != nil {
		return nil, err
	}

	committed, _ := tx.repo.ListBlocking(ctx, roomID, now)

	out := make([]domain.Reservation, 0, len(committed)+len(tx.staged))
	for _, res := range committed {
		if _, ok := tx.staged[res.ID]; !ok {
			out = append(out, res)
		}
	}
	for _, res := range tx.staged {
		if res.RoomID == roomID && res.IsBlocking(now) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (tx *reservationTx) ExpireLapsedHolds(ctx context.Context, roomID uuid.UUID, now time.Time) (int, error) {
	if err := tx.checkRoom(roomID); err != nil {
		return 0, err
	}

	lapsed := tx.repo.filter(func(res *domain.Reservation) bool {
		return res.RoomID == roomID && res.HoldLapsed(now)
	}, 0)

	n := 0
	for _, res := range lapsed {
		if staged, ok := tx.staged[res.ID]; ok {
			res = staged
		}
		if err := res.Expire(now); err != nil {
			continue
		}
		tx.staged[res.ID] = res
		n++
	}
	return n, nil
}

func (tx *reservationTx) Insert(ctx context.Context, res *domain.Reservation) error {
	if err := tx.checkRoom(res.RoomID); err != nil {
		return err
	}

	if _, err := tx.Get(ctx, res.ID); err == nil {
		return fmt.Errorf("reservation %s already exists", res.ID)
	}

	tx.staged[res.ID] = *res
	return nil
}

func (tx *reservationTx) Update(ctx context.Context, res *domain.Reservation) error {
	if err := tx.checkRoom(res.RoomID); err != nil {
		return err
	}

	if _, err := tx.Get(ctx, res.ID); err != nil {
		return err
	}

	tx.staged[res.ID] = *res
	return nil
}

func (tx *reservationTx) checkRoom(roomID uuid.UUID) error {
	if roomID != tx.roomID {
		return fmt.Errorf("room %s is not locked by this transaction", roomID)
	}
	return nil
}
