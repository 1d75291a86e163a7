package ports

import (
	"context"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error)
	FetchPayment(ctx context.Context, paymentRef string) (*domain.CapturedPayment, error)
}
