package domain

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationHeld       ReservationStatus = "HELD"
	ReservationPaid       ReservationStatus = "PAID"
	ReservationConfirmed  ReservationStatus = "CONFIRMED"
	ReservationExpired    ReservationStatus = "EXPIRED"
	ReservationCancelled  ReservationStatus = "CANCELLED"
	ReservationConflicted ReservationStatus = "CONFLICTED"
)

// BlockingStatuses are the statuses that may count against availability.
// HELD only blocks until its hold expires.
var BlockingStatuses = []ReservationStatus{ReservationHeld, ReservationPaid, ReservationConfirmed}

var transitions = map[ReservationStatus][]ReservationStatus{
	ReservationHeld:      {ReservationPaid, ReservationExpired, ReservationCancelled},
	ReservationPaid:      {ReservationConfirmed, ReservationConflicted},
	ReservationConfirmed: {ReservationCancelled},
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Reservation struct {
	ID       uuid.UUID
	RoomID   uuid.UUID
	UserID   uuid.UUID
	Range    DateRange
	Guests   int
	WithMeal bool
	Contact  Contact

	Currency      string
	PricePerNight int64
	Nights        int
	Amount        int64

	Status        ReservationStatus
	HoldExpiresAt *time.Time

	PaymentOrderID   string
	PaymentReference string
	PaymentSignature string

	// CapturedAmount is in the gateway's minor units.
	CapturedAmount int64
	NeedsRefund    bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
}

// NewHold builds a HELD reservation priced from quote that expires after ttl.
func NewHold(room Room, userID uuid.UUID, stay DateRange, guests int, withMeal bool, quote Quote, currency string, ttl time.Duration, now time.Time) *Reservation {
	expires := now.Add(ttl)

	return &Reservation{
		ID:            uuid.New(),
		RoomID:        room.ID,
		UserID:        userID,
		Range:         stay,
		Guests:        guests,
		WithMeal:      withMeal,
		Currency:      currency,
		PricePerNight: quote.PricePerNight,
		Nights:        quote.Nights,
		Amount:        quote.Amount,
		Status:        ReservationHeld,
		HoldExpiresAt: &expires,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HoldLapsed reports whether a HELD reservation is past its expiry.
func (r *Reservation) HoldLapsed(now time.Time) bool {
	return r.Status == ReservationHeld && r.HoldExpiresAt != nil && !now.Before(*r.HoldExpiresAt)
}

// IsBlocking reports whether r counts against availability at now.
func (r *Reservation) IsBlocking(now time.Time) bool {
	switch r.Status {
	case ReservationPaid, ReservationConfirmed:
		return true
	case ReservationHeld:
		return !r.HoldLapsed(now)
	default:
		return false
	}
}

func (r *Reservation) transition(next ReservationStatus, now time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}

	r.Status = next
	r.UpdatedAt = now

	return nil
}

// StartPayment records the gateway order opened for this hold. The hold
// stays HELD while payment is pending.
func (r *Reservation) StartPayment(orderID string, now time.Time) error {
	if r.Status != ReservationHeld {
		return fmt.Errorf("%w: cannot start payment in %s", ErrInvalidTransition, r.Status)
	}

	if r.HoldLapsed(now) {
		return ErrHoldExpired
	}

	if r.PaymentOrderID != "" && r.PaymentOrderID != orderID {
		return fmt.Errorf("%w: payment already started with order %s", ErrInvalidTransition, r.PaymentOrderID)
	}

	r.PaymentOrderID = orderID
	r.UpdatedAt = now

	return nil
}

// MarkPaid moves HELD to PAID once the gateway reports the order captured.
// captured is in minor units. Replaying the same capture on a PAID
// reservation is a no-op.
func (r *Reservation) MarkPaid(paymentRef string, captured int64, now time.Time) error {
	if r.Status == ReservationPaid && r.PaymentReference == paymentRef {
		return nil
	}

	if r.Status != ReservationHeld {
		return fmt.Errorf("%w: cannot capture payment in %s", ErrInvalidTransition, r.Status)
	}

	if r.HoldLapsed(now) {
		return ErrHoldExpired
	}

	if expected := MinorUnits(r.Amount); captured != expected {
		return fmt.Errorf("%w: captured %d, expected %d", ErrAmountMismatch, captured, expected)
	}

	if err := r.transition(ReservationPaid, now); err != nil {
		return err
	}

	r.PaymentReference = paymentRef
	r.CapturedAmount = captured
	r.HoldExpiresAt = nil

	return nil
}

func (r *Reservation) Confirm(signature string, now time.Time) error {
	if err := r.transition(ReservationConfirmed, now); err != nil {
		return err
	}

	r.PaymentSignature = signature
	r.ConfirmedAt = &now

	return nil
}

// MarkConflicted parks a paid reservation whose dates were taken and flags
// it for refund.
func (r *Reservation) MarkConflicted(signature string, now time.Time) error {
	if err := r.transition(ReservationConflicted, now); err != nil {
		return err
	}

	r.PaymentSignature = signature
	r.NeedsRefund = true

	return nil
}

// FlagRefund records a payment that arrived after the reservation was
// cancelled or expired. The status does not change.
func (r *Reservation) FlagRefund(paymentRef string, now time.Time) error {
	if r.Status != ReservationCancelled && r.Status != ReservationExpired {
		return fmt.Errorf("%w: %s reservation cannot be flagged for refund", ErrInvalidTransition, r.Status)
	}

	if r.PaymentReference == "" {
		r.PaymentReference = paymentRef
	}
	r.NeedsRefund = true
	r.UpdatedAt = now

	return nil
}

// MatchesCurrency reports whether a capture in currency settles r.
func (r *Reservation) MatchesCurrency(currency string) error {
	if !strings.EqualFold(r.Currency, currency) {
		return fmt.Errorf("%w: captured in %q, expected %q", ErrAmountMismatch, currency, r.Currency)
	}

	return nil
}

// Expire applies only to HELD reservations whose hold has lapsed.
func (r *Reservation) Expire(now time.Time) error {
	if !r.HoldLapsed(now) {
		return fmt.Errorf("%w: %s reservation is not a lapsed hold", ErrInvalidTransition, r.Status)
	}

	if err := r.transition(ReservationExpired, now); err != nil {
		return err
	}

	r.HoldExpiresAt = nil

	return nil
}

// Cancel releases a reservation. A HELD reservation can be cancelled at any
// time; a CONFIRMED one only before its stay starts.
func (r *Reservation) Cancel(today civil.Date, now time.Time) error {
	if r.Status != ReservationHeld && r.Status != ReservationConfirmed {
		return fmt.Errorf("%w: cannot cancel %s reservation", ErrInvalidTransition, r.Status)
	}

	if r.Status == ReservationConfirmed && !today.Before(r.Range.Start) {
		return fmt.Errorf("%w: stay already started on %s", ErrInvalidTransition, r.Range.Start)
	}

	if err := r.transition(ReservationCancelled, now); err != nil {
		return err
	}

	r.HoldExpiresAt = nil

	return nil
}

// FirstConflict returns the first reservation in candidates, other than
// exclude, that blocks at now and overlaps stay.
func FirstConflict(candidates []Reservation, stay DateRange, now time.Time, exclude uuid.UUID) *Reservation {
	for i := range candidates {
		c := &candidates[i]
		if c.ID == exclude || !c.IsBlocking(now) {
			continue
		}

		if c.Range.Overlaps(stay) {
			return c
		}
	}

	return nil
}

// BlockedRanges merges the ranges of every reservation blocking at now.
func BlockedRanges(reservations []Reservation, now time.Time) []DateRange {
	ranges := make([]DateRange, 0, len(reservations))
	for i := range reservations {
		if reservations[i].IsBlocking(now) {
			ranges = append(ranges, reservations[i].Range)
		}
	}

	return Merge(ranges)
}
