package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type SplitStatus string

const (
	SplitPending    SplitStatus = "pending"
	SplitProcessing SplitStatus = "processing"
	SplitCompleted  SplitStatus = "completed"
	SplitFailed     SplitStatus = "failed"
	SplitCancelled  SplitStatus = "cancelled"
)

type SplitType string

const (
	SplitPercentage  SplitType = "percentage"
	SplitFixedAmount SplitType = "fixed_amount"
)

type RecipientType string

const (
	RecipientHost     RecipientType = "host"
	RecipientAgent    RecipientType = "agent"
	RecipientPlatform RecipientType = "platform"
)

// SplitConfig is the static per-auction disbursement plan. Fixed amounts
// are carved out first; percentage rows are resolved against what remains;
// any remainder routes to the platform (or host, when no platform row
// exists).
type SplitConfig struct {
	ID            string
	AuctionID     string
	RecipientID   string
	RecipientType RecipientType
	SplitType     SplitType
	Value         decimal.Decimal // percent (0-100) or fixed amount
	Position      int
}

// PaymentSplit is one recipient-level transfer. Status only advances
// forward, except failed -> pending on explicit retry. IdempotencyKey is
// deterministic per (payment, recipient) so a retried transfer cannot
// double-pay.
type PaymentSplit struct {
	ID                string
	PaymentID         string
	RecipientID       string
	RecipientType     RecipientType
	SplitType         SplitType
	Amount            decimal.Decimal
	FeeAmount         decimal.Decimal
	Status            SplitStatus
	GatewayTransferID string
	GatewayResponse   string
	FailureReason     string
	RetryCount        int
	NextRetryAt       *time.Time
	IdempotencyKey    string
	LedgerNote        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SplitRepository interface {
	CreateBatch(ctx context.Context, splits []*PaymentSplit) error
	ForPayment(ctx context.Context, paymentID string) ([]*PaymentSplit, error)
	// ClaimProcessing conditionally advances pending -> processing and
	// reports whether this caller won the claim.
	ClaimProcessing(ctx context.Context, splitID string) (bool, error)
	MarkCompleted(ctx context.Context, splitID, transferID, rawResponse string) error
	MarkFailed(ctx context.Context, splitID, reason string, retryCount int, nextRetryAt *time.Time) error
	// ResetForRetry conditionally moves failed -> pending.
	ResetForRetry(ctx context.Context, splitID string) (bool, error)
	DueForRetry(ctx context.Context, now time.Time, maxRetries int) ([]*PaymentSplit, error)
	CancelWithNote(ctx context.Context, splitID, note string) error
}
