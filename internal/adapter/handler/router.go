package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func NewRouter(rooms *RoomHandler, reservations *ReservationHandler, auth *Authenticator, env string, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger.Named("access")))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "env": env})
	}).Methods(http.MethodGet)

	api.HandleFunc("/rooms/blocked", rooms.GlobalBlockedCalendar).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/blocked", rooms.BlockedCalendar).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/availability", rooms.Availability).Methods(http.MethodGet)

	api.HandleFunc("/payments/webhook", reservations.PaymentWebhook).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(auth.Require)

	private.HandleFunc("/reservations", reservations.CreateHold).Methods(http.MethodPost)
	private.HandleFunc("/reservations/{id}", reservations.GetReservation).Methods(http.MethodGet)
	private.HandleFunc("/reservations/{id}", reservations.Cancel).Methods(http.MethodDelete)
	private.HandleFunc("/reservations/{id}/payment", reservations.StartPayment).Methods(http.MethodPost)
	private.HandleFunc("/payments/verify", reservations.VerifyPayment).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found", "path": req.URL.Path})
	})

	return r
}
