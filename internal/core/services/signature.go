package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

// SignatureVerifier checks gateway payment proofs: hex HMAC-SHA256 over
// "<orderID>|<paymentRef>" keyed with the secret shared with the gateway.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

func (v *SignatureVerifier) Sign(orderID, paymentRef string) string {
	return hex.EncodeToString(v.digest([]byte(orderID + "|" + paymentRef)))
}

func (v *SignatureVerifier) Verify(proof domain.PaymentProof) error {
	return v.verify([]byte(proof.OrderID+"|"+proof.PaymentReference), proof.Signature)
}

// VerifyBody checks a signature computed over a raw payload, as used by
// gateway webhooks.
func (v *SignatureVerifier) VerifyBody(body []byte, signature string) error {
	return v.verify(body, signature)
}

func (v *SignatureVerifier) verify(payload []byte, signature string) error {
	got, err := hex.DecodeString(signature)
	if err != nil || len(v.secret) == 0 {
		return domain.ErrSignatureMismatch
	}

	if !hmac.Equal(got, v.digest(payload)) {
		return domain.ErrSignatureMismatch
	}

	return nil
}

func (v *SignatureVerifier) digest(payload []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
