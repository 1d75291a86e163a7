package razorpay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/adapter/payment/razorpay"
	"github.com/srgjo27/villa_booking/internal/core/domain"
)

func newClient(url string) *razorpay.Client {
	return razorpay.NewClient(razorpay.Config{BaseURL: url + "/", KeyID: "rzp_test_key", KeySecret: "secret"}, zap.NewNop())
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(200000), body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "r_abc123_xyz", body["receipt"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_1","amount":200000,"currency":"INR","receipt":"r_abc123_xyz","status":"created"}`))
	}))
	defer srv.Close()

	order, err := newClient(srv.URL).CreateOrder(context.Background(), domain.OrderRequest{
		Amount:   200000,
		Currency: "INR",
		Receipt:  "r_abc123_xyz",
		Notes:    map[string]string{"reservationId": "r1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, &domain.PaymentOrder{ID: "order_1", Amount: 200000, Currency: "INR", Receipt: "r_abc123_xyz"}, order)
}

func TestFetchPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"pay_1","order_id":"order_1","amount":200000,"currency":"INR","status":"captured","captured":true}`))
	}))
	defer srv.Close()

	payment, err := newClient(srv.URL).FetchPayment(context.Background(), "pay_1")

	assert.NoError(t, err)
	assert.Equal(t, &domain.CapturedPayment{Reference: "pay_1", OrderID: "order_1", Amount: 200000, Currency: "INR", Captured: true}, payment)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchPayment(context.Background(), "pay_missing")

	var apiErr *razorpay.APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
		assert.Equal(t, "The id provided does not exist", apiErr.Description)
	}
}

func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := client.FetchPayment(context.Background(), "pay_1")
		assert.Error(t, err)
	}

	_, err := client.FetchPayment(context.Background(), "pay_1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newClient(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := client.FetchPayment(context.Background(), "pay_1")

		var apiErr *razorpay.APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Not Found", apiErr.Description)
	}
}

func TestPaymentEntity_StatusCountsAsCaptured(t *testing.T) {
	p := razorpay.PaymentEntity{ID: "pay_1", OrderID: "order_1", Status: "captured"}
	assert.True(t, p.ToDomain().Captured)

	p = razorpay.PaymentEntity{ID: "pay_1", OrderID: "order_1", Status: "authorized"}
	assert.False(t, p.ToDomain().Captured)
}
