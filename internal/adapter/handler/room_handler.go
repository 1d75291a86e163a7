package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/services"
)

type RoomHandler struct {
	svc    *services.ReservationService
	logger *zap.Logger
}

func NewRoomHandler(svc *services.ReservationService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{svc: svc, logger: logger.Named("http")}
}

func (h *RoomHandler) Availability(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	stay, err := domain.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}

	guests := 1
	if raw := q.Get("guests"); raw != "" {
		guests, err = strconv.Atoi(raw)
		if err != nil || guests < 1 {
			writeError(w, domain.ErrInvalidGuestCount)
			return
		}
	}

	available, err := h.svc.QueryAvailability(r.Context(), roomID, stay, guests)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"roomId":    roomID.String(),
		"range":     stay,
		"guests":    guests,
		"available": available,
	})
}

func (h *RoomHandler) BlockedCalendar(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	ranges, err := h.svc.BlockedCalendar(r.Context(), roomID)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ranges)
}

func (h *RoomHandler) GlobalBlockedCalendar(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.svc.GlobalBlockedCalendar(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ranges)
}

func (h *RoomHandler) fail(w http.ResponseWriter, err error) {
	if !isKnownKind(err) {
		h.logger.Error("room query failed", zap.Error(err))
	}
	writeError(w, err)
}
