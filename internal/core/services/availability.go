package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

// AvailabilityIndex answers read-only availability questions. Its answers
// are advisory; holds and commits re-check inside the room's exclusion.
type AvailabilityIndex struct {
	rooms  ports.RoomCatalog
	store  ports.ReservationStore
	cache  ports.CalendarCache
	logger *zap.Logger
	now    func() time.Time
}

func NewAvailabilityIndex(rooms ports.RoomCatalog, store ports.ReservationStore, cache ports.CalendarCache, logger *zap.Logger, opts ...Option) *AvailabilityIndex {
	o := applyOptions(opts)

	return &AvailabilityIndex{
		rooms:  rooms,
		store:  store,
		cache:  cache,
		logger: logger.Named("availability"),
		now:    o.clock,
	}
}

func (a *AvailabilityIndex) IsAvailable(ctx context.Context, roomID uuid.UUID, stay domain.DateRange, guests int) (bool, error) {
	room, err := a.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}

	if guests <= 0 || domain.ResolveCapacity(*room) < guests {
		return false, nil
	}

	now := a.now()
	blocking, err := a.store.ListBlocking(ctx, roomID, now)
	if err != nil {
		return false, fmt.Errorf("failed to load reservations for room %s: %w", roomID, err)
	}

	return domain.FirstConflict(blocking, stay, now, uuid.Nil) == nil, nil
}

func (a *AvailabilityIndex) BlockedCalendar(ctx context.Context, roomID uuid.UUID) ([]domain.DateRange, error) {
	if _, err := a.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	return a.cached(ctx, roomID, func(now time.Time) ([]domain.Reservation, error) {
		return a.store.ListBlocking(ctx, roomID, now)
	})
}

// GlobalBlockedCalendar merges blocked days across all rooms. Display only.
func (a *AvailabilityIndex) GlobalBlockedCalendar(ctx context.Context) ([]domain.DateRange, error) {
	return a.cached(ctx, uuid.Nil, func(now time.Time) ([]domain.Reservation, error) {
		return a.store.ListAllBlocking(ctx, now)
	})
}

func (a *AvailabilityIndex) cached(ctx context.Context, key uuid.UUID, load func(now time.Time) ([]domain.Reservation, error)) ([]domain.DateRange, error) {
	if a.cache != nil {
		ranges, ok, err := a.cache.GetCalendar(ctx, key)
		if err != nil {
			a.logger.Warn("calendar cache read failed", zap.Stringer("room_id", key), zap.Error(err))
		} else if ok {
			return ranges, nil
		}
	}

	now := a.now()
	reservations, err := load(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocking reservations: %w", err)
	}

	ranges := domain.BlockedRanges(reservations, now)

	if a.cache != nil {
		if err := a.cache.SetCalendar(ctx, key, ranges, untilFirstLapse(reservations, now)); err != nil {
			a.logger.Warn("calendar cache write failed", zap.Stringer("room_id", key), zap.Error(err))
		}
	}

	return ranges, nil
}

func (a *AvailabilityIndex) invalidate(ctx context.Context, roomID uuid.UUID) {
	if a.cache == nil {
		return
	}

	if err := a.cache.Invalidate(ctx, roomID); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("calendar cache invalidation failed", zap.Stringer("room_id", roomID), zap.Error(err))
	}
}

// untilFirstLapse is how long the calendar built from reservations stays
// true: until the earliest live hold lapses. Zero means no hold bounds it.
func untilFirstLapse(reservations []domain.Reservation, now time.Time) time.Duration {
	var first time.Duration
	for i := range reservations {
		res := &reservations[i]
		if res.Status != domain.ReservationHeld || res.HoldExpiresAt == nil || !res.IsBlocking(now) {
			continue
		}

		if left := res.HoldExpiresAt.Sub(now); first == 0 || left < first {
			first = left
		}
	}
	return first
}
