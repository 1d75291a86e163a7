package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidRange        = errors.New("invalid date range")
	ErrInvalidGuestCount   = errors.New("guest count must be positive")
	ErrCapacityExceeded    = errors.New("guest count exceeds room capacity")
	ErrSlotUnavailable     = errors.New("room is not available for the requested dates")
	ErrAmountMismatch      = errors.New("captured amount does not match reservation amount")
	ErrSignatureMismatch   = errors.New("payment signature mismatch")
	ErrHoldExpired         = errors.New("hold expired")
	ErrConflicted          = errors.New("reservation conflicted after payment")
	ErrInvalidTransition   = errors.New("invalid reservation state transition")
	ErrPaymentNotCaptured  = errors.New("payment not captured")
	ErrForbidden           = errors.New("reservation belongs to another user")
	ErrUnconfirmedPayment  = errors.New("payment captured but reservation never confirmed")
)

// ConflictError is returned when a paid reservation could not be confirmed
// because its dates were already taken. The money has been captured, so the
// reservation is flagged for refund.
type ConflictError struct {
	Reservation *Reservation
}

func (e *ConflictError) Error() string {
	if e.Reservation == nil {
		return ErrConflicted.Error()
	}

	return fmt.Sprintf("%s: reservation %s order %s", ErrConflicted, e.Reservation.ID, e.Reservation.PaymentOrderID)
}

func (e *ConflictError) Unwrap() error { return ErrConflicted }
