package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the outbound boundary to the payment provider. Every
// call carries a caller-supplied idempotency key: repeating a request with
// the same key has no effect beyond the first successful execution.
type PaymentGateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (authID string, err error)
	Capture(ctx context.Context, req CaptureRequest) (paymentID string, rawResponse string, err error)
	Transfer(ctx context.Context, req TransferRequest) (transferID string, rawResponse string, err error)
	Refund(ctx context.Context, req RefundRequest) (refundID string, err error)
}

type AuthorizeRequest struct {
	Amount         decimal.Decimal
	Currency       string
	Method         string
	MethodPayload  map[string]string
	IdempotencyKey string
}

type CaptureRequest struct {
	AuthID         string
	IdempotencyKey string
}

type TransferRequest struct {
	PaymentID      string
	RecipientID    string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}

type RefundRequest struct {
	PaymentID      string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}
