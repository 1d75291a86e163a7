package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/adapter/payment/razorpay"
	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/services"
)

const maxWebhookBody = 1 << 20

type createHoldRequest struct {
	RoomID       string `json:"roomId" validate:"required,uuid"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Guests       int    `json:"guests" validate:"required,min=1"`
	WithMeal     bool   `json:"withMeal"`
	ContactName  string `json:"contactName" validate:"max=120"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone" validate:"max=32"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required,hexadecimal"`
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity razorpay.PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type reservationResponse struct {
	ID            string            `json:"id"`
	RoomID        string            `json:"roomId"`
	Range         domain.DateRange  `json:"range"`
	Guests        int               `json:"guests"`
	WithMeal      bool              `json:"withMeal"`
	Contact       domain.Contact    `json:"contact"`
	Currency      string            `json:"currency"`
	PricePerNight int64             `json:"pricePerNight"`
	Nights        int               `json:"nights"`
	Amount        int64             `json:"amount"`
	Status        string            `json:"status"`
	HoldExpiresAt *time.Time        `json:"holdExpiresAt,omitempty"`
	OrderID       string            `json:"orderId,omitempty"`
	ConfirmedAt   *time.Time        `json:"confirmedAt,omitempty"`
	Payment       *paymentOrderBody `json:"payment,omitempty"`
}

type paymentOrderBody struct {
	Key      string `json:"key"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func toResponse(res *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:            res.ID.String(),
		RoomID:        res.RoomID.String(),
		Range:         res.Range,
		Guests:        res.Guests,
		WithMeal:      res.WithMeal,
		Contact:       res.Contact,
		Currency:      res.Currency,
		PricePerNight: res.PricePerNight,
		Nights:        res.Nights,
		Amount:        res.Amount,
		Status:        string(res.Status),
		HoldExpiresAt: res.HoldExpiresAt,
		OrderID:       res.PaymentOrderID,
		ConfirmedAt:   res.ConfirmedAt,
	}
}

type ReservationHandler struct {
	svc             *services.ReservationService
	webhookVerifier *services.SignatureVerifier
	gatewayKeyID    string
	validate        *validator.Validate
	logger          *zap.Logger
}

func NewReservationHandler(svc *services.ReservationService, webhookVerifier *services.SignatureVerifier, gatewayKeyID string, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		svc:             svc,
		webhookVerifier: webhookVerifier,
		gatewayKeyID:    gatewayKeyID,
		validate:        validator.New(),
		logger:          logger.Named("http"),
	}
}

func (h *ReservationHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req createHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stay, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	hold, err := h.svc.CreateHold(r.Context(), services.CreateHoldRequest{
		UserID:   id.UserID,
		RoomID:   uuid.MustParse(req.RoomID),
		Range:    stay,
		Guests:   req.Guests,
		WithMeal: req.WithMeal,
		Contact: domain.Contact{
			Name:  req.ContactName,
			Email: req.ContactEmail,
			Phone: req.ContactPhone,
		},
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(hold))
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	reservationID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.svc.GetReservation(r.Context(), id.UserID, reservationID, id.Admin)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

func (h *ReservationHandler) StartPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	reservationID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	res, order, err := h.svc.StartPayment(r.Context(), id.UserID, reservationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := toResponse(res)
	resp.Payment = &paymentOrderBody{
		Key:      h.gatewayKeyID,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	reservationID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	err := h.svc.Cancel(r.Context(), services.CancelRequest{
		ReservationID: reservationID,
		UserID:        id.UserID,
		Operator:      id.Admin,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReservationHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid payment payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, "invalid payment payload")
		return
	}

	res, err := h.svc.Commit(r.Context(), id.UserID, domain.PaymentProof{
		OrderID:          req.OrderID,
		PaymentReference: req.PaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "reservation": toResponse(res)})
}

// PaymentWebhook acknowledges gateway events. Domain rejections are
// acknowledged too, since redelivery cannot change the outcome; only
// internal failures ask the gateway to retry.
func (h *ReservationHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeBadRequest(w, "unreadable body")
		return
	}

	if err := h.webhookVerifier.VerifyBody(body, r.Header.Get("X-Razorpay-Signature")); err != nil {
		writeError(w, err)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeBadRequest(w, "invalid event payload")
		return
	}

	if event.Event != "payment.captured" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ignored": event.Event})
		return
	}

	_, err = h.svc.PaymentCaptured(r.Context(), *event.Payload.Payment.Entity.ToDomain())
	if err != nil {
		if !isKnownKind(err) {
			h.fail(w, r, err)
			return
		}

		h.logger.Warn("webhook event rejected", zap.String("order_id", event.Payload.Payment.Entity.OrderID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *ReservationHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if isKnownKind(err) {
		h.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, err)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
