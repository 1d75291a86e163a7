package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

type errorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	NeedsRefund bool   `json:"needsRefund,omitempty"`
}

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{domain.ErrRoomNotFound, http.StatusNotFound, "room_not_found"},
	{domain.ErrReservationNotFound, http.StatusNotFound, "reservation_not_found"},
	{domain.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
	{domain.ErrInvalidGuestCount, http.StatusBadRequest, "invalid_guest_count"},
	{domain.ErrCapacityExceeded, http.StatusBadRequest, "capacity_exceeded"},
	{domain.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
	{domain.ErrAmountMismatch, http.StatusUnprocessableEntity, "amount_mismatch"},
	{domain.ErrSignatureMismatch, http.StatusBadRequest, "signature_mismatch"},
	{domain.ErrHoldExpired, http.StatusGone, "hold_expired"},
	{domain.ErrConflicted, http.StatusConflict, "conflicted"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrPaymentNotCaptured, http.StatusPaymentRequired, "payment_not_captured"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: msg})
}

func isKnownKind(err error) bool {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			return true
		}
	}
	return false
}

// writeError maps error kinds to status codes. Anything unknown is a 500
// whose detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	for _, kind := range errorKinds {
		if !errors.Is(err, kind.target) {
			continue
		}

		resp := errorResponse{Error: kind.code, Message: kind.target.Error()}

		var conflict *domain.ConflictError
		if errors.As(err, &conflict) && conflict.Reservation != nil {
			resp.NeedsRefund = conflict.Reservation.NeedsRefund
		}

		writeJSON(w, kind.status, resp)
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"})
}
