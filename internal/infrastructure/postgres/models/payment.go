package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	AuctionID        string          `gorm:"type:uuid;index"`
	PayerID          string          `gorm:"type:uuid;index"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency         string          `gorm:"size:3"`
	Method           string
	AuthID           string
	GatewayPaymentID string `gorm:"index"`
	Status           string `gorm:"index"`
	GatewayResponse  string `gorm:"type:jsonb"`
	CreatedAt        time.Time
	CapturedAt       *time.Time
	RefundedAt       *time.Time
}

func (PaymentModel) TableName() string { return "payments" }

type PaymentSplitModel struct {
	ID                string          `gorm:"primaryKey;type:uuid"`
	PaymentID         string          `gorm:"type:uuid;index:idx_splits_payment"`
	RecipientID       string          `gorm:"type:uuid"`
	RecipientType     string
	SplitType         string
	Amount            decimal.Decimal `gorm:"type:numeric(12,2)"`
	FeeAmount         decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status            string          `gorm:"index:idx_splits_status_retry,priority:1"`
	GatewayTransferID string
	GatewayResponse   string `gorm:"type:jsonb"`
	FailureReason     string
	RetryCount        int
	NextRetryAt       *time.Time `gorm:"index:idx_splits_status_retry,priority:2"`
	IdempotencyKey    string     `gorm:"uniqueIndex"`
	LedgerNote        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PaymentSplitModel) TableName() string { return "payment_splits" }

type SplitConfigModel struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	AuctionID     string          `gorm:"type:uuid;index"`
	RecipientID   string          `gorm:"type:uuid"`
	RecipientType string
	SplitType     string
	Value         decimal.Decimal `gorm:"type:numeric(12,2)"`
	Position      int
	CreatedAt     time.Time
}

func (SplitConfigModel) TableName() string { return "auction_split_configs" }
