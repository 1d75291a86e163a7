package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

type Config struct {
	HoldTTL          time.Duration
	Currency         string
	SweepInterval    time.Duration
	SweepBatchSize   int
	// PaidConfirmGrace is how long a reservation may sit in PAID before the
	// sweeper escalates it.
	PaidConfirmGrace time.Duration
}

func (c Config) withDefaults() Config {
	if c.HoldTTL <= 0 {
		c.HoldTTL = 15 * time.Minute
	}
	if c.Currency == "" {
		c.Currency = "INR"
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = 100
	}
	if c.PaidConfirmGrace <= 0 {
		c.PaidConfirmGrace = 30 * time.Minute
	}
	return c
}

type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

func applyOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type CreateHoldRequest struct {
	UserID   uuid.UUID
	RoomID   uuid.UUID
	Range    domain.DateRange
	Guests   int
	WithMeal bool
	Contact  domain.Contact
}

type CancelRequest struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	Operator      bool
}

type ReservationService struct {
	rooms    ports.RoomCatalog
	store    ports.ReservationStore
	gateway  ports.PaymentGateway
	verifier *SignatureVerifier
	index    *AvailabilityIndex
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewReservationService(
	rooms ports.RoomCatalog,
	store ports.ReservationStore,
	gateway ports.PaymentGateway,
	cache ports.CalendarCache,
	verifier *SignatureVerifier,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *ReservationService {
	o := applyOptions(opts)

	return &ReservationService{
		rooms:    rooms,
		store:    store,
		gateway:  gateway,
		verifier: verifier,
		index:    NewAvailabilityIndex(rooms, store, cache, logger, opts...),
		cfg:      cfg.withDefaults(),
		logger:   logger.Named("reservations"),
		now:      o.clock,
	}
}

func (s *ReservationService) QueryAvailability(ctx context.Context, roomID uuid.UUID, stay domain.DateRange, guests int) (bool, error) {
	return s.index.IsAvailable(ctx, roomID, stay, guests)
}

func (s *ReservationService) BlockedCalendar(ctx context.Context, roomID uuid.UUID) ([]domain.DateRange, error) {
	return s.index.BlockedCalendar(ctx, roomID)
}

func (s *ReservationService) GlobalBlockedCalendar(ctx context.Context) ([]domain.DateRange, error) {
	return s.index.GlobalBlockedCalendar(ctx)
}

// GetReservation returns a reservation visible to userID. Operators see all.
func (s *ReservationService) GetReservation(ctx context.Context, userID, reservationID uuid.UUID, operator bool) (*domain.Reservation, error) {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !operator && res.UserID != userID {
		return nil, domain.ErrForbidden
	}

	return res, nil
}

// CreateHold prices the stay and inserts a HELD reservation. The conflict
// check and the insert run as one unit inside the room's exclusion.
func (s *ReservationService) CreateHold(ctx context.Context, req CreateHoldRequest) (*domain.Reservation, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user", domain.ErrForbidden)
	}

	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	quote, err := domain.QuoteStay(*room, req.Range, req.WithMeal)
	if err != nil {
		return nil, err
	}

	if req.Guests <= 0 {
		return nil, domain.ErrInvalidGuestCount
	}

	if capacity := domain.ResolveCapacity(*room); req.Guests > capacity {
		return nil, fmt.Errorf("%w: %d guests, room %s holds %d", domain.ErrCapacityExceeded, req.Guests, room.ID, capacity)
	}

	now := s.now()
	hold := domain.NewHold(*room, req.UserID, req.Range, req.Guests, req.WithMeal, quote, s.cfg.Currency, s.cfg.HoldTTL, now)
	hold.Contact = req.Contact

	err = s.store.WithRoomLock(ctx, room.ID, func(ctx context.Context, tx ports.ReservationTx) error {
		if _, err := tx.ExpireLapsedHolds(ctx, room.ID, now); err != nil {
			return err
		}

		blocking, err := tx.ListBlocking(ctx, room.ID, now)
		if err != nil {
			return err
		}

		if conflict := domain.FirstConflict(blocking, req.Range, now, uuid.Nil); conflict != nil {
			return domain.ErrSlotUnavailable
		}

		return tx.Insert(ctx, hold)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to create hold: %w", err)
	}

	s.index.invalidate(ctx, room.ID)

	s.logger.Info("hold created",
		zap.Stringer("reservation_id", hold.ID),
		zap.Stringer("room_id", room.ID),
		zap.Stringer("range", hold.Range),
		zap.Int64("amount", hold.Amount),
		zap.Timep("hold_expires_at", hold.HoldExpiresAt),
	)

	return hold, nil
}

// StartPayment opens a gateway order for a live hold and records its id.
// Calling it again for the same hold returns the order already opened.
func (s *ReservationService) StartPayment(ctx context.Context, userID, reservationID uuid.UUID) (*domain.Reservation, *domain.PaymentOrder, error) {
	res, err := s.GetReservation(ctx, userID, reservationID, false)
	if err != nil {
		return nil, nil, err
	}

	if res.Status != domain.ReservationHeld {
		return nil, nil, fmt.Errorf("%w: cannot start payment in %s", domain.ErrInvalidTransition, res.Status)
	}

	if res.HoldLapsed(s.now()) {
		return nil, nil, domain.ErrHoldExpired
	}

	expected := domain.MinorUnits(res.Amount)

	if res.PaymentOrderID != "" {
		return res, &domain.PaymentOrder{ID: res.PaymentOrderID, Amount: expected, Currency: res.Currency}, nil
	}

	order, err := s.gateway.CreateOrder(ctx, domain.OrderRequest{
		Amount:   expected,
		Currency: res.Currency,
		Receipt:  receiptFor(res, s.now()),
		Notes:    orderNotes(res),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	if order.Amount != expected {
		s.logger.Error("gateway order amount differs from hold",
			zap.Stringer("reservation_id", res.ID),
			zap.String("order_id", order.ID),
			zap.Int64("order_amount", order.Amount),
			zap.Int64("expected_amount", expected),
		)
		return nil, nil, fmt.Errorf("%w: order %d, expected %d", domain.ErrAmountMismatch, order.Amount, expected)
	}

	var updated *domain.Reservation
	err = s.store.WithRoomLock(ctx, res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		cur, err := tx.Get(ctx, res.ID)
		if err != nil {
			return err
		}

		if err := cur.StartPayment(order.ID, s.now()); err != nil {
			return err
		}

		updated = cur
		return tx.Update(ctx, cur)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("payment started",
		zap.Stringer("reservation_id", updated.ID),
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
	)

	return updated, order, nil
}

// Cancel frees the reservation's interval. Owners may cancel their own
// reservations; operators may cancel any.
func (s *ReservationService) Cancel(ctx context.Context, req CancelRequest) error {
	res, err := s.GetReservation(ctx, req.UserID, req.ReservationID, req.Operator)
	if err != nil {
		return err
	}

	err = s.store.WithRoomLock(ctx, res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		cur, err := tx.Get(ctx, res.ID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := cur.Cancel(domain.DateOf(now), now); err != nil {
			return err
		}

		return tx.Update(ctx, cur)
	})
	if err != nil {
		return err
	}

	s.index.invalidate(ctx, res.RoomID)

	s.logger.Info("reservation cancelled",
		zap.Stringer("reservation_id", res.ID),
		zap.Stringer("room_id", res.RoomID),
		zap.Bool("operator", req.Operator),
	)

	return nil
}

// ExpireHolds expires lapsed holds, one room exclusion at a time. It is safe
// to run concurrently with commits: each room's holds are re-checked under
// the lock, so a hold that reached PAID is left alone.
func (s *ReservationService) ExpireHolds(ctx context.Context) (int, error) {
	lapsed, err := s.store.ListLapsedHolds(ctx, s.now(), s.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed holds: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	total := 0

	for _, res := range lapsed {
		if seen[res.RoomID] {
			continue
		}
		seen[res.RoomID] = true

		var n int
		err := s.store.WithRoomLock(ctx, res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
			var err error
			n, err = tx.ExpireLapsedHolds(ctx, res.RoomID, s.now())
			return err
		})
		if err != nil {
			s.logger.Error("failed to expire holds", zap.Stringer("room_id", res.RoomID), zap.Error(err))
			continue
		}

		if n > 0 {
			s.index.invalidate(ctx, res.RoomID)
			s.logger.Info("holds expired", zap.Stringer("room_id", res.RoomID), zap.Int("count", n))
		}
		total += n
	}

	return total, nil
}

func (s *ReservationService) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("hold sweeper started", zap.Duration("interval", s.cfg.SweepInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.ExpireHolds(ctx); err != nil {
				s.logger.Error("hold sweep failed", zap.Error(err))
			}
			if _, err := s.ReportUnconfirmedPayments(ctx); err != nil {
				s.logger.Error("unconfirmed payment sweep failed", zap.Error(err))
			}
		}
	}
}

// receiptFor builds a short gateway receipt: r_<room suffix>_<base36 millis>.
func receiptFor(res *domain.Reservation, now time.Time) string {
	room := res.RoomID.String()
	receipt := fmt.Sprintf("r_%s_%s", room[len(room)-6:], strconv.FormatInt(now.UnixMilli(), 36))
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}
	return receipt
}

func orderNotes(res *domain.Reservation) map[string]string {
	return map[string]string{
		"reservationId": res.ID.String(),
		"roomId":        res.RoomID.String(),
		"userId":        res.UserID.String(),
		"startDate":     res.Range.Start.String(),
		"endDate":       res.Range.End.String(),
		"guests":        strconv.Itoa(res.Guests),
		"withMeal":      strconv.FormatBool(res.WithMeal),
		"pricePerNight": strconv.FormatInt(res.PricePerNight, 10),
		"nights":        strconv.Itoa(res.Nights),
		"contactName":   res.Contact.Name,
		"contactEmail":  res.Contact.Email,
		"contactPhone":  res.Contact.Phone,
	}
}
