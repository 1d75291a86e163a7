package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/srgjo27/villa_booking/internal/core/domain"
)

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

type Client struct {
	cfg    Config
	http   *http.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	logger = logger.Named("razorpay")

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		cb:     newCircuitBreaker("razorpay", logger),
		logger: logger,
	}
}

func newCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
		// Client errors mean the gateway is up; they should not trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
		},
	})
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentEntity is the gateway's payment object, shared with webhook payloads.
type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

func (p PaymentEntity) ToDomain() *domain.CapturedPayment {
	return &domain.CapturedPayment{
		Reference: p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Captured:  p.Captured || p.Status == "captured",
	}
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodPost, "/orders", orderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("order created", zap.String("order_id", resp.ID), zap.Int64("amount", resp.Amount), zap.String("receipt", resp.Receipt))

	return &domain.PaymentOrder{
		ID:       resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Receipt:  resp.Receipt,
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentRef string) (*domain.CapturedPayment, error) {
	var resp PaymentEntity
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentRef), nil, &resp); err != nil {
		return nil, err
	}

	return resp.ToDomain(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("razorpay %s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, decodeError(resp.StatusCode, data)
		}

		return nil, json.Unmarshal(data, out)
	})

	return err
}

func decodeError(status int, data []byte) error {
	var envelope struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}

	apiErr := &APIError{StatusCode: status}
	if json.Unmarshal(data, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Description = envelope.Error.Description
	}
	if apiErr.Description == "" {
		apiErr.Description = http.StatusText(status)
	}

	return apiErr
}
