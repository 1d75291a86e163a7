package domain

// PaymentOrder is what the gateway returns when an order is opened.
// Amount is in minor units.
type PaymentOrder struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// CapturedPayment is the gateway's view of a payment. Amount is in minor units.
type CapturedPayment struct {
	Reference string
	OrderID   string
	Amount    int64
	Currency  string
	Captured  bool
}

// PaymentProof is the client-side result of the gateway checkout flow.
type PaymentProof struct {
	OrderID          string
	PaymentReference string
	Signature        string
}
