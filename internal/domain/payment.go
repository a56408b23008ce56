package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCaptured   PaymentStatus = "captured"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Payment anchors the captured funds for a won auction. Splits and
// chargebacks reference it, never the auction directly.
type Payment struct {
	ID               string
	AuctionID        string
	PayerID          string
	Amount           decimal.Decimal
	Currency         string
	Method           string
	AuthID           string
	GatewayPaymentID string
	Status           PaymentStatus
	GatewayResponse  string // raw gateway payload, never reasoned about
	CreatedAt        time.Time
	CapturedAt       *time.Time
	RefundedAt       *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, paymentID string) (*Payment, error)
	GetByAuctionID(ctx context.Context, auctionID string) (*Payment, error)
	MarkRefunded(ctx context.Context, paymentID string, at time.Time) error
}
