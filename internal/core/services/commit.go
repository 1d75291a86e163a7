package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

type commitOutcome int

const (
	outcomeConfirmed commitOutcome = iota
	outcomeReplayed
	outcomeExpired
	outcomeConflicted
	outcomeCancelled
	outcomeDuplicate
)

// Commit turns a paid hold into a confirmed reservation. The proof must
// carry a valid gateway signature. Replaying a proof for an already
// confirmed order returns the same reservation.
//
// Expiry, state, and conflicts are all checked inside the room's exclusion,
// so a concurrent sweep or a second overlapping commit cannot slip between
// the check and the write.
func (s *ReservationService) Commit(ctx context.Context, userID uuid.UUID, proof domain.PaymentProof) (*domain.Reservation, error) {
	if err := s.verifier.Verify(proof); err != nil {
		s.logger.Warn("payment signature rejected", zap.String("order_id", proof.OrderID), zap.String("payment_reference", proof.PaymentReference))
		return nil, err
	}

	res, err := s.store.GetByOrderID(ctx, proof.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			s.escalate("verified payment has no reservation", nil, proof, err)
		}
		return nil, err
	}

	if userID != uuid.Nil && res.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if res.Status == domain.ReservationConfirmed {
		return res, nil
	}

	var captured *domain.CapturedPayment
	if res.Status == domain.ReservationHeld && !res.HoldLapsed(s.now()) {
		captured, err = s.fetchCaptured(ctx, proof)
		if err != nil {
			return nil, err
		}
	}

	var (
		result   *domain.Reservation
		outcome  commitOutcome
		conflict uuid.UUID
	)

	err = s.store.WithRoomLock(ctx, res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		cur, err := tx.Get(ctx, res.ID)
		if err != nil {
			return err
		}

		now := s.now()

		if cur.HoldLapsed(now) {
			if err := cur.Expire(now); err != nil {
				return err
			}
		}

		switch cur.Status {
		case domain.ReservationConfirmed:
			result, outcome = cur, outcomeReplayed
			return nil
		case domain.ReservationConflicted:
			result, outcome = cur, outcomeConflicted
			return nil
		case domain.ReservationExpired, domain.ReservationCancelled:
			// Paid after the dates were released.
			if err := cur.FlagRefund(proof.PaymentReference, now); err != nil {
				return err
			}
			result, outcome = cur, outcomeExpired
			if cur.Status == domain.ReservationCancelled {
				outcome = outcomeCancelled
			}
			return tx.Update(ctx, cur)
		case domain.ReservationHeld:
			if captured == nil {
				return domain.ErrPaymentNotCaptured
			}

			if err := cur.MatchesCurrency(captured.Currency); err != nil {
				return err
			}

			if err := cur.MarkPaid(proof.PaymentReference, captured.Amount, now); err != nil {
				return err
			}
		case domain.ReservationPaid:
		default:
			return fmt.Errorf("%w: cannot commit %s reservation", domain.ErrInvalidTransition, cur.Status)
		}

		blocking, err := tx.ListBlocking(ctx, cur.RoomID, now)
		if err != nil {
			return err
		}

		if c := domain.FirstConflict(blocking, cur.Range, now, cur.ID); c != nil {
			if err := cur.MarkConflicted(proof.Signature, now); err != nil {
				return err
			}
			result, outcome, conflict = cur, outcomeConflicted, c.ID
			return tx.Update(ctx, cur)
		}

		if err := cur.Confirm(proof.Signature, now); err != nil {
			return err
		}

		result, outcome = cur, outcomeConfirmed
		return tx.Update(ctx, cur)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountMismatch):
			s.escalate("captured amount differs from hold", res, proof, err)
		case !isDomainError(err):
			s.escalate("store failure during commit", res, proof, err)
			return nil, fmt.Errorf("failed to commit reservation %s: %w", res.ID, err)
		}
		return nil, err
	}

	switch outcome {
	case outcomeReplayed:
		return result, nil
	case outcomeExpired:
		s.index.invalidate(ctx, result.RoomID)
		s.escalate("payment captured for expired hold", result, proof, domain.ErrHoldExpired)
		return nil, domain.ErrHoldExpired
	case outcomeCancelled:
		s.escalate("payment captured for cancelled reservation", result, proof, domain.ErrInvalidTransition)
		return nil, fmt.Errorf("%w: reservation %s was cancelled before payment completed", domain.ErrInvalidTransition, result.ID)
	case outcomeConflicted:
		s.index.invalidate(ctx, result.RoomID)
		s.escalate("paid reservation conflicted", result, proof, domain.ErrConflicted, zap.Stringer("conflicts_with", conflict))
		return nil, &domain.ConflictError{Reservation: result}
	}

	s.index.invalidate(ctx, result.RoomID)

	s.logger.Info("reservation confirmed",
		zap.Stringer("reservation_id", result.ID),
		zap.Stringer("room_id", result.RoomID),
		zap.Stringer("range", result.Range),
		zap.String("order_id", result.PaymentOrderID),
	)

	return result, nil
}

// PaymentCaptured records a gateway capture notification, moving the hold
// to PAID. A capture that finds the reservation expired or cancelled flags
// it for refund and escalates.
func (s *ReservationService) PaymentCaptured(ctx context.Context, payment domain.CapturedPayment) (*domain.Reservation, error) {
	if !payment.Captured {
		return nil, domain.ErrPaymentNotCaptured
	}

	res, err := s.store.GetByOrderID(ctx, payment.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			s.escalate("captured payment has no reservation", nil, domain.PaymentProof{OrderID: payment.OrderID, PaymentReference: payment.Reference}, err)
		}
		return nil, err
	}

	proof := domain.PaymentProof{OrderID: payment.OrderID, PaymentReference: payment.Reference}

	var (
		result  *domain.Reservation
		outcome commitOutcome
		expired bool
	)

	err = s.store.WithRoomLock(ctx, res.RoomID, func(ctx context.Context, tx ports.ReservationTx) error {
		cur, err := tx.Get(ctx, res.ID)
		if err != nil {
			return err
		}

		result = cur
		now := s.now()

		if cur.HoldLapsed(now) {
			if err := cur.Expire(now); err != nil {
				return err
			}
			expired = true
		}

		switch cur.Status {
		case domain.ReservationHeld:
			if err := cur.MatchesCurrency(payment.Currency); err != nil {
				return err
			}

			if err := cur.MarkPaid(payment.Reference, payment.Amount, now); err != nil {
				return err
			}
			outcome = outcomeConfirmed
		case domain.ReservationExpired, domain.ReservationCancelled:
			if err := cur.FlagRefund(payment.Reference, now); err != nil {
				return err
			}
			outcome = outcomeExpired
			if cur.Status == domain.ReservationCancelled {
				outcome = outcomeCancelled
			}
		default:
			outcome = outcomeReplayed
			if cur.PaymentReference != payment.Reference {
				outcome = outcomeDuplicate
			}
			return nil
		}

		return tx.Update(ctx, cur)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAmountMismatch) || !isDomainError(err) {
			s.escalate("failed to record captured payment", res, proof, err)
		}
		return nil, err
	}

	switch outcome {
	case outcomeReplayed:
		return result, nil
	case outcomeExpired:
		if expired {
			s.index.invalidate(ctx, result.RoomID)
		}
		s.escalate("payment captured for expired hold", result, proof, domain.ErrHoldExpired)
		return nil, domain.ErrHoldExpired
	case outcomeCancelled:
		s.escalate("payment captured for cancelled reservation", result, proof, domain.ErrInvalidTransition)
		return nil, fmt.Errorf("%w: reservation %s was cancelled before payment completed", domain.ErrInvalidTransition, result.ID)
	case outcomeDuplicate:
		s.escalate("second payment captured for settled reservation", result, proof, domain.ErrInvalidTransition,
			zap.String("recorded_payment_reference", result.PaymentReference))
		return nil, fmt.Errorf("%w: reservation %s already settled by payment %s", domain.ErrInvalidTransition, result.ID, result.PaymentReference)
	}

	s.logger.Info("payment captured",
		zap.Stringer("reservation_id", result.ID),
		zap.String("order_id", payment.OrderID),
		zap.String("payment_reference", payment.Reference),
	)

	return result, nil
}

// ReportUnconfirmedPayments escalates every reservation that has been PAID
// for longer than the confirm grace without being committed. The dates stay
// blocked until an operator confirms or refunds.
func (s *ReservationService) ReportUnconfirmedPayments(ctx context.Context) (int, error) {
	stale, err := s.store.ListUnconfirmedPaid(ctx, s.now().Add(-s.cfg.PaidConfirmGrace), s.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list unconfirmed payments: %w", err)
	}

	for i := range stale {
		res := &stale[i]
		s.escalate("paid reservation never confirmed", res,
			domain.PaymentProof{OrderID: res.PaymentOrderID, PaymentReference: res.PaymentReference},
			domain.ErrUnconfirmedPayment,
			zap.Time("paid_at", res.UpdatedAt),
		)
	}

	return len(stale), nil
}

func (s *ReservationService) fetchCaptured(ctx context.Context, proof domain.PaymentProof) (*domain.CapturedPayment, error) {
	payment, err := s.gateway.FetchPayment(ctx, proof.PaymentReference)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", proof.PaymentReference, err)
	}

	if !payment.Captured || payment.OrderID != proof.OrderID {
		return nil, fmt.Errorf("%w: payment %s for order %s", domain.ErrPaymentNotCaptured, proof.PaymentReference, proof.OrderID)
	}

	return payment, nil
}

// escalate logs a condition where money may have been captured without a
// confirmed reservation. These lines are what operators page on.
func (s *ReservationService) escalate(msg string, res *domain.Reservation, proof domain.PaymentProof, err error, extra ...zap.Field) {
	fields := []zap.Field{
		zap.Bool("escalation", true),
		zap.String("order_id", proof.OrderID),
		zap.String("payment_reference", proof.PaymentReference),
		zap.Error(err),
	}

	if res != nil {
		fields = append(fields,
			zap.Stringer("reservation_id", res.ID),
			zap.Stringer("room_id", res.RoomID),
			zap.Stringer("user_id", res.UserID),
			zap.Stringer("range", res.Range),
			zap.String("status", string(res.Status)),
			zap.Int64("amount", res.Amount),
			zap.Bool("needs_refund", res.NeedsRefund),
		)
	}

	s.logger.Error(msg, append(fields, extra...)...)
}

var domainErrors = []error{
	domain.ErrRoomNotFound,
	domain.ErrReservationNotFound,
	domain.ErrInvalidRange,
	domain.ErrInvalidGuestCount,
	domain.ErrCapacityExceeded,
	domain.ErrSlotUnavailable,
	domain.ErrAmountMismatch,
	domain.ErrSignatureMismatch,
	domain.ErrHoldExpired,
	domain.ErrConflicted,
	domain.ErrInvalidTransition,
	domain.ErrPaymentNotCaptured,
	domain.ErrForbidden,
	domain.ErrUnconfirmedPayment,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
