package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/services"
)

func TestSignatureVerifier(t *testing.T) {
	v := services.NewSignatureVerifier("secret")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, v.Sign("order_1", "pay_1"))
	assert.NoError(t, v.Verify(domain.PaymentProof{OrderID: "order_1", PaymentReference: "pay_1", Signature: want}))

	tests := []struct {
		name  string
		proof domain.PaymentProof
	}{
		{"other payment", domain.PaymentProof{OrderID: "order_1", PaymentReference: "pay_2", Signature: want}},
		{"not hex", domain.PaymentProof{OrderID: "order_1", PaymentReference: "pay_1", Signature: "zz"}},
		{"empty", domain.PaymentProof{OrderID: "order_1", PaymentReference: "pay_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, v.Verify(tt.proof), domain.ErrSignatureMismatch)
		})
	}
}

func TestSignatureVerifier_EmptySecretRejectsEverything(t *testing.T) {
	v := services.NewSignatureVerifier("")
	sig := v.Sign("order_1", "pay_1")

	assert.ErrorIs(t, v.Verify(domain.PaymentProof{OrderID: "order_1", PaymentReference: "pay_1", Signature: sig}), domain.ErrSignatureMismatch)
}

func TestSignatureVerifier_VerifyBody(t *testing.T) {
	v := services.NewSignatureVerifier("whsec")
	body := []byte(`{"event":"payment.captured"}`)

	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.NoError(t, v.VerifyBody(body, sig))
	assert.ErrorIs(t, v.VerifyBody([]byte(`{"event":"payment.failed"}`), sig), domain.ErrSignatureMismatch)
}
